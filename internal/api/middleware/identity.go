package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/d60-Lab/gin-restaurant/config"
	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/pkg/response"
)

const (
	ctxUserID     = "identity.user_id"
	ctxStaff      = "identity.staff"
	ctxSessionKey = "identity.session_key"

	// RoleStaff 员工角色，可推进订单状态与审核评价
	RoleStaff = "staff"
)

// Claims 外部身份提供方签发的令牌声明，sub 为用户 ID
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken 签发 HS256 令牌（种子数据与压测工具使用）
func IssueToken(cfg config.JWTConfig, userID uint, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

func parseToken(cfg config.JWTConfig, raw string) (*Claims, uint, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, 0, err
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, 0, fmt.Errorf("invalid subject %q", claims.Subject)
	}
	return &claims, uint(id), nil
}

// Identity 解析调用方身份：Bearer 令牌得到登录用户，否则使用（必要时签发）匿名会话 cookie
func Identity(jwtCfg config.JWTConfig, sessCfg config.SessionConfig) gin.HandlerFunc {
	cookieName := sessCfg.CookieName
	if cookieName == "" {
		cookieName = "session_id"
	}
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				response.Unauthorized(c, "malformed authorization header")
				c.Abort()
				return
			}
			claims, userID, err := parseToken(jwtCfg, strings.TrimSpace(raw))
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					msg = "token expired"
				}
				response.Unauthorized(c, msg)
				c.Abort()
				return
			}
			c.Set(ctxUserID, userID)
			c.Set(ctxStaff, claims.Role == RoleStaff)
			c.Next()
			return
		}

		key, err := c.Cookie(cookieName)
		if err != nil || uuid.Validate(key) != nil {
			key = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, key, sessCfg.MaxAge, "/", "", sessCfg.Secure, true)
		}
		c.Set(ctxSessionKey, key)
		c.Next()
	}
}

// CurrentIdentity 返回购物车归属身份
func CurrentIdentity(c *gin.Context) model.Identity {
	if id, ok := UserID(c); ok {
		return model.UserIdentity(id)
	}
	return model.SessionIdentity(c.GetString(ctxSessionKey))
}

// UserID 已登录用户 ID
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func IsStaff(c *gin.Context) bool {
	return c.GetBool(ctxStaff)
}

// RequireUser 要求登录
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			response.Unauthorized(c, "login required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaff 要求员工角色
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			response.Unauthorized(c, "login required")
			c.Abort()
			return
		}
		if !IsStaff(c) {
			response.Forbidden(c, "staff only")
			c.Abort()
			return
		}
		c.Next()
	}
}
