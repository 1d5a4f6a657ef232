package handler

import (
	"errors"
	"strconv"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-restaurant/internal/service"
	"github.com/d60-Lab/gin-restaurant/pkg/logger"
	"github.com/d60-Lab/gin-restaurant/pkg/response"
)

// Handler HTTP 处理器集合
type Handler struct {
	catalog service.CatalogService
	carts   service.CartService
	orders  service.OrderService
	reviews service.ReviewService
}

func New(catalog service.CatalogService, carts service.CartService, orders service.OrderService, reviews service.ReviewService) *Handler {
	return &Handler{catalog: catalog, carts: carts, orders: orders, reviews: reviews}
}

// fail 按错误类别映射 HTTP 状态码；未归类的错误上报 sentry
func fail(c *gin.Context, err error) {
	var ie *service.InputError
	switch {
	case errors.As(err, &ie):
		response.BadRequest(c, ie.Error())
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, err.Error())
	default:
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c, err)
	}
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
