package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-restaurant/internal/api/middleware"
	"github.com/d60-Lab/gin-restaurant/pkg/response"
)

type submitReviewRequest struct {
	DishID uint   `json:"dish_id" binding:"required"`
	Rating *int   `json:"rating"`
	Text   string `json:"text"`
}

// SubmitReview 提交评价，审核后展示
// @Summary 提交评价
// @Tags 评价
// @Accept json
// @Produce json
// @Param request body submitReviewRequest true "评价（评分默认 5）"
// @Success 201 {object} response.Response{data=model.Review}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/reviews [post]
func (h *Handler) SubmitReview(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	rating := 5
	if req.Rating != nil {
		rating = *req.Rating
	}
	userID, _ := middleware.UserID(c)
	review, err := h.reviews.SubmitReview(c.Request.Context(), req.DishID, userID, rating, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, review)
}
