package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review 菜品评价，审核通过后才公开展示
type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	DishID     uint      `json:"dish_id" gorm:"not null;index:idx_reviews_dish_approved"`
	Dish       *Dish     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	User       *User     `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Rating     int       `json:"rating" gorm:"not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	Text       *string   `json:"text,omitempty" gorm:"type:text"`
	IsApproved bool      `json:"is_approved" gorm:"not null;index:idx_reviews_dish_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Review) TableName() string { return "reviews" }
