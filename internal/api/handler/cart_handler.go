package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-restaurant/internal/api/middleware"
	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/pkg/response"
)

type addItemRequest struct {
	DishID   uint `json:"dish_id" binding:"required"`
	Quantity *int `json:"quantity"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handler) currentCart(c *gin.Context) (*model.Cart, bool) {
	cart, err := h.carts.ResolveCart(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return cart, true
}

// GetCart 当前购物车
// @Summary 当前购物车
// @Tags 购物车
// @Produce json
// @Success 200 {object} response.Response{data=service.CartView}
// @Router /api/v1/cart [get]
func (h *Handler) GetCart(c *gin.Context) {
	cart, ok := h.currentCart(c)
	if !ok {
		return
	}
	view, err := h.carts.GetCart(c.Request.Context(), cart.ID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车，同一菜品合并数量
// @Summary 加入购物车
// @Tags 购物车
// @Accept json
// @Produce json
// @Param request body addItemRequest true "菜品与数量（默认 1）"
// @Success 200 {object} response.Response{data=model.CartItem}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/cart/items [post]
func (h *Handler) AddCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	cart, ok := h.currentCart(c)
	if !ok {
		return
	}
	item, err := h.carts.AddItem(c.Request.Context(), cart.ID, req.DishID, quantity)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, item)
}

// UpdateCartItem 修改数量，<=0 删除该行
// @Summary 修改购物车数量
// @Tags 购物车
// @Accept json
// @Produce json
// @Param item_id path int true "明细ID"
// @Param request body updateItemRequest true "数量"
// @Success 200 {object} response.Response{data=model.CartItem}
// @Failure 404 {object} response.Response
// @Router /api/v1/cart/items/{item_id} [patch]
func (h *Handler) UpdateCartItem(c *gin.Context) {
	itemID, ok := idParam(c, "item_id")
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cart, ok := h.currentCart(c)
	if !ok {
		return
	}
	item, err := h.carts.UpdateItemQuantity(c.Request.Context(), cart.ID, itemID, *req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, item)
}

// RemoveCartItem 删除购物车明细
// @Summary 删除购物车明细
// @Tags 购物车
// @Param item_id path int true "明细ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/cart/items/{item_id} [delete]
func (h *Handler) RemoveCartItem(c *gin.Context) {
	itemID, ok := idParam(c, "item_id")
	if !ok {
		return
	}
	cart, ok := h.currentCart(c)
	if !ok {
		return
	}
	if err := h.carts.RemoveItem(c.Request.Context(), cart.ID, itemID); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}
