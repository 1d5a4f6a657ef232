package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-restaurant/internal/api/middleware"
	"github.com/d60-Lab/gin-restaurant/internal/service"
	"github.com/d60-Lab/gin-restaurant/pkg/response"
)

// PlaceOrder 结账
// @Summary 结账，将当前购物车转为订单
// @Tags 订单
// @Accept json
// @Produce json
// @Param request body service.CustomerInfo true "收货信息"
// @Success 201 {object} response.Response{data=model.Order}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response "购物车为空或已结账"
// @Router /api/v1/orders [post]
func (h *Handler) PlaceOrder(c *gin.Context) {
	var info service.CustomerInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cart, ok := h.currentCart(c)
	if !ok {
		return
	}
	order, err := h.orders.PlaceOrder(c.Request.Context(), cart.ID, info)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, gin.H{"order": order, "total": order.Total()})
}

// ListMyOrders 我的订单
// @Summary 我的订单
// @Tags 订单
// @Produce json
// @Param limit query int false "数量" default(20)
// @Success 200 {object} response.Response{data=[]model.Order}
// @Failure 401 {object} response.Response
// @Router /api/v1/orders [get]
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	orders, err := h.orders.ListUserOrders(c.Request.Context(), userID, limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, orders)
}

// GetOrder 订单详情，仅下单用户与员工可见
// @Summary 订单详情
// @Tags 订单
// @Produce json
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response{data=model.Order}
// @Failure 404 {object} response.Response
// @Router /api/v1/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	userID, _ := middleware.UserID(c)
	if !middleware.IsStaff(c) && (order.UserID == nil || *order.UserID != userID) {
		response.NotFound(c, "order not found")
		return
	}
	response.Success(c, gin.H{"order": order, "total": order.Total(), "next_statuses": order.Status.NextStatuses()})
}
