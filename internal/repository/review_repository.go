package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/gin-restaurant/internal/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Get(ctx context.Context, reviewID uint) (*model.Review, error)
	Approve(ctx context.Context, reviewID uint) error
	Delete(ctx context.Context, reviewID uint) error
	// ListApproved 只返回已审核的评价，新的在前
	ListApproved(ctx context.Context, dishID uint) ([]model.Review, error)
	ListPending(ctx context.Context, limit int) ([]model.Review, error)
}

type reviewRepository struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) ReviewRepository { return &reviewRepository{db: db} }

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
}

func (r *reviewRepository) Get(ctx context.Context, reviewID uint) (*model.Review, error) {
	var rev model.Review
	if err := r.db.WithContext(ctx).First(&rev, reviewID).Error; err != nil {
		return nil, notFound(err)
	}
	return &rev, nil
}

func (r *reviewRepository) Approve(ctx context.Context, reviewID uint) error {
	res := r.db.WithContext(ctx).Model(&model.Review{}).Where("id = ?", reviewID).Update("is_approved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, reviewID uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", reviewID).Delete(&model.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRepository) ListApproved(ctx context.Context, dishID uint) ([]model.Review, error) {
	var res []model.Review
	err := r.db.WithContext(ctx).Preload("User").
		Where("dish_id = ? AND is_approved = ?", dishID, true).
		Order("created_at DESC").Order("id DESC").
		Find(&res).Error
	return res, err
}

func (r *reviewRepository) ListPending(ctx context.Context, limit int) ([]model.Review, error) {
	var res []model.Review
	err := r.db.WithContext(ctx).Preload("User").
		Where("is_approved = ?", false).
		Order("created_at ASC").Order("id ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}
