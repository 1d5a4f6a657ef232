package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/internal/repository"
	"github.com/d60-Lab/gin-restaurant/pkg/logger"
)

const (
	defaultPendingLimit = 50
	maxReviewTextLen    = 2000
)

// ReviewSubmittedEvent review.submitted 事件负载
type ReviewSubmittedEvent struct {
	ReviewID uint `json:"review_id"`
	DishID   uint `json:"dish_id"`
	UserID   uint `json:"user_id"`
	Rating   int  `json:"rating"`
}

// ReviewService 评价提交与审核
type ReviewService interface {
	SubmitReview(ctx context.Context, dishID, userID uint, rating int, text string) (*model.Review, error)
	Approve(ctx context.Context, reviewID uint) error
	// Reject 直接删除评价
	Reject(ctx context.Context, reviewID uint) error
	ListApproved(ctx context.Context, dishID uint) ([]model.Review, error)
	ListPending(ctx context.Context, limit int) ([]model.Review, error)
}

type reviewService struct {
	store *repository.Store
}

func NewReviewService(store *repository.Store) ReviewService {
	return &reviewService{store: store}
}

func (s *reviewService) SubmitReview(ctx context.Context, dishID, userID uint, rating int, text string) (*model.Review, error) {
	if rating < model.MinRating || rating > model.MaxRating {
		return nil, invalid("rating", fmt.Sprintf("must be between %d and %d", model.MinRating, model.MaxRating))
	}
	text = strings.TrimSpace(text)
	if len(text) > maxReviewTextLen {
		return nil, invalid("text", fmt.Sprintf("must be at most %d bytes", maxReviewTextLen))
	}

	review := &model.Review{
		DishID:     dishID,
		UserID:     userID,
		Rating:     rating,
		Text:       optional(text),
		IsApproved: false,
	}
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Catalog().GetDish(ctx, dishID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: dish %d", ErrNotFound, dishID)
			}
			return err
		}
		if err := tx.Users().Ensure(ctx, userID); err != nil {
			return err
		}
		if err := tx.Reviews().Create(ctx, review); err != nil {
			return err
		}
		_, err := tx.Outbox().Append(ctx, model.TopicReviewSubmitted, strconv.FormatUint(uint64(review.ID), 10),
			ReviewSubmittedEvent{ReviewID: review.ID, DishID: dishID, UserID: userID, Rating: rating})
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("review submitted", zap.Uint("review_id", review.ID), zap.Uint("dish_id", dishID))
	return review, nil
}

func (s *reviewService) Approve(ctx context.Context, reviewID uint) error {
	if err := s.store.Reviews().Approve(ctx, reviewID); err != nil {
		return reviewErr(err, reviewID)
	}
	logger.Info("review approved", zap.Uint("review_id", reviewID))
	return nil
}

func (s *reviewService) Reject(ctx context.Context, reviewID uint) error {
	if err := s.store.Reviews().Delete(ctx, reviewID); err != nil {
		return reviewErr(err, reviewID)
	}
	logger.Info("review rejected", zap.Uint("review_id", reviewID))
	return nil
}

func (s *reviewService) ListApproved(ctx context.Context, dishID uint) ([]model.Review, error) {
	return s.store.Reviews().ListApproved(ctx, dishID)
}

func (s *reviewService) ListPending(ctx context.Context, limit int) ([]model.Review, error) {
	if limit <= 0 {
		limit = defaultPendingLimit
	}
	return s.store.Reviews().ListPending(ctx, limit)
}

func reviewErr(err error, reviewID uint) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: review %d", ErrNotFound, reviewID)
	}
	return err
}
