package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/gin-restaurant/internal/model"
)

// CatalogRepository 分类与菜品仓储
type CatalogRepository interface {
	// ListCategories 按 (display_order, name) 升序返回全部分类
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)

	// ListAvailableDishes 返回上架菜品，categoryID 为 nil 时不过滤分类
	ListAvailableDishes(ctx context.Context, categoryID *uint) ([]model.Dish, error)
	GetDish(ctx context.Context, dishID uint) (*model.Dish, error)
	GetAvailableDish(ctx context.Context, dishID uint) (*model.Dish, error)
	GetDishBySlug(ctx context.Context, slug string) (*model.Dish, error)

	// 以下为维护操作，供种子数据与员工工具使用
	CreateCategory(ctx context.Context, c *model.Category) error
	UpsertCategory(ctx context.Context, c *model.Category) error
	CreateDish(ctx context.Context, d *model.Dish) error
	UpsertDish(ctx context.Context, d *model.Dish) error
	UpdateDishPrice(ctx context.Context, dishID uint, price decimal.Decimal) error
	SetDishAvailability(ctx context.Context, dishID uint, available bool) error
	DeleteDish(ctx context.Context, dishID uint) error
	DeleteCategory(ctx context.Context, categoryID uint) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepository{db: db} }

func (r *catalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	var res []model.Category
	err := r.db.WithContext(ctx).Order("display_order ASC").Order("name ASC").Find(&res).Error
	return res, err
}

func (r *catalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *catalogRepository) ListAvailableDishes(ctx context.Context, categoryID *uint) ([]model.Dish, error) {
	q := r.db.WithContext(ctx).Where("is_available = ?", true)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	var res []model.Dish
	err := q.Order("name ASC").Order("id ASC").Find(&res).Error
	return res, err
}

func (r *catalogRepository) GetDish(ctx context.Context, dishID uint) (*model.Dish, error) {
	var d model.Dish
	if err := r.db.WithContext(ctx).First(&d, dishID).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *catalogRepository) GetAvailableDish(ctx context.Context, dishID uint) (*model.Dish, error) {
	var d model.Dish
	err := r.db.WithContext(ctx).Where("id = ? AND is_available = ?", dishID, true).First(&d).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *catalogRepository) GetDishBySlug(ctx context.Context, slug string) (*model.Dish, error) {
	var d model.Dish
	err := r.db.WithContext(ctx).Preload("Category").
		Where("slug = ? AND is_available = ?", slug, true).First(&d).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *catalogRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// UpsertCategory 按 slug 幂等写入
func (r *catalogRepository) UpsertCategory(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "display_order"}),
	}).Create(c).Error
}

func (r *catalogRepository) CreateDish(ctx context.Context, d *model.Dish) error {
	if d.Price.IsNegative() {
		return fmt.Errorf("dish %q: price must not be negative", d.Slug)
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error
}

// UpsertDish 按 slug 幂等写入
func (r *catalogRepository) UpsertDish(ctx context.Context, d *model.Dish) error {
	if d.Price.IsNegative() {
		return fmt.Errorf("dish %q: price must not be negative", d.Slug)
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"category_id", "name", "description", "ingredients", "price",
			"image_url", "is_available", "is_popular", "is_new",
		}),
	}).Create(d).Error
}

func (r *catalogRepository) UpdateDishPrice(ctx context.Context, dishID uint, price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("dish %d: price must not be negative", dishID)
	}
	res := r.db.WithContext(ctx).Model(&model.Dish{}).Where("id = ?", dishID).Update("price", price)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) SetDishAvailability(ctx context.Context, dishID uint, available bool) error {
	res := r.db.WithContext(ctx).Model(&model.Dish{}).Where("id = ?", dishID).Update("is_available", available)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDish 删除菜品；被订单明细引用时返回 ErrDishInUse（外键同样为 RESTRICT）
func (r *catalogRepository) DeleteDish(ctx context.Context, dishID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&model.OrderItem{}).Where("dish_id = ?", dishID).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrDishInUse
		}
		res := tx.Where("id = ?", dishID).Delete(&model.Dish{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteCategory 删除分类，其下菜品级联删除；任一菜品被订单引用时整体失败
func (r *catalogRepository) DeleteCategory(ctx context.Context, categoryID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		err := tx.Model(&model.OrderItem{}).
			Joins("JOIN dishes ON dishes.id = order_items.dish_id").
			Where("dishes.category_id = ?", categoryID).
			Count(&refs).Error
		if err != nil {
			return err
		}
		if refs > 0 {
			return ErrDishInUse
		}
		res := tx.Where("id = ?", categoryID).Delete(&model.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// IsDuplicate 判断是否违反唯一约束
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
