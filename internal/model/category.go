package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category 菜品分类，slug 是对外路由的唯一键
type Category struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Slug        string  `json:"slug" gorm:"type:varchar(120);uniqueIndex;not null"`
	Description *string `json:"description,omitempty" gorm:"type:text"`
	Order       int     `json:"order" gorm:"column:display_order;not null;index"`
}

func (Category) TableName() string { return "categories" }

// Dish 菜品
type Dish struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	Category    *Category       `json:"category,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Name        string          `json:"name" gorm:"type:varchar(200);not null"`
	Slug        string          `json:"slug" gorm:"type:varchar(220);uniqueIndex;not null"`
	Description *string         `json:"description,omitempty" gorm:"type:text"`
	Ingredients *string         `json:"ingredients,omitempty" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(8,2);not null;check:chk_dishes_price,price >= 0"`
	ImageURL    *string         `json:"image_url,omitempty" gorm:"type:varchar(255)"`
	IsAvailable bool            `json:"is_available" gorm:"not null;index"`
	IsPopular   bool            `json:"is_popular" gorm:"not null"`
	IsNew       bool            `json:"is_new" gorm:"not null"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Dish) TableName() string { return "dishes" }
