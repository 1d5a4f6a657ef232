// Package api 组装 gin 路由与中间件
package api

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-restaurant/config"
	_ "github.com/d60-Lab/gin-restaurant/docs"
	"github.com/d60-Lab/gin-restaurant/internal/api/handler"
	"github.com/d60-Lab/gin-restaurant/internal/api/middleware"
	"github.com/d60-Lab/gin-restaurant/pkg/response"
)

// NewRouter db 仅用于健康检查，可为 nil
func NewRouter(cfg *config.Config, h *handler.Handler, db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	r.Use(middleware.RequestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, response.Response{Code: http.StatusServiceUnavailable, Message: err.Error()})
				return
			}
		}
		response.Success(c, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	v1 := r.Group("/api/v1", limiter.Middleware(), middleware.Identity(cfg.JWT, cfg.Session))
	{
		v1.GET("/categories", h.ListCategories)
		v1.GET("/dishes", h.ListDishes)
		v1.GET("/dishes/:slug", h.GetDish)

		v1.GET("/cart", h.GetCart)
		v1.POST("/cart/items", h.AddCartItem)
		v1.PATCH("/cart/items/:item_id", h.UpdateCartItem)
		v1.DELETE("/cart/items/:item_id", h.RemoveCartItem)

		v1.POST("/orders", h.PlaceOrder)

		user := v1.Group("", middleware.RequireUser())
		user.GET("/orders", h.ListMyOrders)
		user.GET("/orders/:id", h.GetOrder)
		user.POST("/reviews", h.SubmitReview)

		staff := v1.Group("/staff", middleware.RequireStaff())
		staff.PATCH("/orders/:id/status", h.ChangeOrderStatus)
		staff.GET("/reviews/pending", h.ListPendingReviews)
		staff.POST("/reviews/:id/approve", h.ApproveReview)
		staff.DELETE("/reviews/:id", h.RejectReview)
		staff.PATCH("/dishes/:id", h.UpdateDish)
		staff.DELETE("/dishes/:id", h.DeleteDish)
		staff.POST("/menu/import", h.ImportMenu)
	}
	return r
}
