package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/internal/service"
	"github.com/d60-Lab/gin-restaurant/pkg/response"
)

type changeStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type updateDishRequest struct {
	Price       *decimal.Decimal `json:"price"`
	IsAvailable *bool            `json:"is_available"`
}

// ChangeOrderStatus 推进订单状态
// @Summary 推进订单状态
// @Tags 员工
// @Accept json
// @Produce json
// @Param id path int true "订单ID"
// @Param request body changeStatusRequest true "目标状态"
// @Success 200 {object} response.Response{data=model.Order}
// @Failure 409 {object} response.Response "非法状态迁移"
// @Router /api/v1/staff/orders/{id}/status [patch]
func (h *Handler) ChangeOrderStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	order, err := h.orders.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, order)
}

// ListPendingReviews 待审核评价
// @Summary 待审核评价
// @Tags 员工
// @Produce json
// @Param limit query int false "数量" default(50)
// @Success 200 {object} response.Response{data=[]model.Review}
// @Router /api/v1/staff/reviews/pending [get]
func (h *Handler) ListPendingReviews(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := h.reviews.ListPending(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// ApproveReview 审核通过
// @Summary 审核通过评价
// @Tags 员工
// @Param id path int true "评价ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/staff/reviews/{id}/approve [post]
func (h *Handler) ApproveReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.reviews.Approve(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// RejectReview 驳回并删除
// @Summary 驳回评价
// @Tags 员工
// @Param id path int true "评价ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/staff/reviews/{id} [delete]
func (h *Handler) RejectReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.reviews.Reject(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// UpdateDish 调价或上下架
// @Summary 调价或上下架
// @Tags 员工
// @Accept json
// @Param id path int true "菜品ID"
// @Param request body updateDishRequest true "价格/可售"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/staff/dishes/{id} [patch]
func (h *Handler) UpdateDish(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.catalog.UpdateDish(c.Request.Context(), id, req.Price, req.IsAvailable); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteDish 删除菜品，已被订单引用时返回 409
// @Summary 删除菜品
// @Tags 员工
// @Param id path int true "菜品ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/staff/dishes/{id} [delete]
func (h *Handler) DeleteDish(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteDish(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ImportMenu 批量导入菜单
// @Summary 批量导入菜单（按 slug 幂等）
// @Tags 员工
// @Accept json
// @Param request body service.MenuImport true "菜单"
// @Success 200 {object} response.Response{data=map[string]int}
// @Failure 400 {object} response.Response
// @Router /api/v1/staff/menu/import [post]
func (h *Handler) ImportMenu(c *gin.Context) {
	var req service.MenuImport
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	n, err := h.catalog.ImportMenu(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"dishes": n})
}
