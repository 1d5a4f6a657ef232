package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-restaurant/internal/service"
	"github.com/d60-Lab/gin-restaurant/pkg/response"
)

// ListCategories 分类列表
// @Summary 分类列表
// @Tags 菜单
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Category}
// @Router /api/v1/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, cats)
}

// ListDishes 菜单；未知分类返回完整菜单
// @Summary 菜单
// @Tags 菜单
// @Produce json
// @Param category query string false "分类 slug"
// @Success 200 {object} response.Response{data=service.Menu}
// @Router /api/v1/dishes [get]
func (h *Handler) ListDishes(c *gin.Context) {
	menu, err := h.catalog.ListDishes(c.Request.Context(), service.MenuFilter{CategorySlug: c.Query("category")})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, menu)
}

// GetDish 菜品详情
// @Summary 菜品详情及已审核评价
// @Tags 菜单
// @Produce json
// @Param slug path string true "菜品 slug"
// @Success 200 {object} response.Response{data=service.DishDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/dishes/{slug} [get]
func (h *Handler) GetDish(c *gin.Context) {
	detail, err := h.catalog.GetDish(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, detail)
}
