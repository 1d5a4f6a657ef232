package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/gin-restaurant/internal/model"
)

// resolveAttempts get-or-create 的重试次数上限
const resolveAttempts = 3

// CartRepository 购物车仓储
type CartRepository interface {
	// GetOrCreateActive 返回身份对应的唯一 active 购物车，不存在则创建
	GetOrCreateActive(ctx context.Context, owner model.Identity) (*model.Cart, error)
	Get(ctx context.Context, cartID uint) (*model.Cart, error)
	// Deactivate 仅当购物车仍为 active 时关闭，返回是否发生了变更
	Deactivate(ctx context.Context, cartID uint) (bool, error)

	// ListItems 返回明细并预加载菜品
	ListItems(ctx context.Context, cartID uint) ([]model.CartItem, error)
	GetItem(ctx context.Context, cartID, itemID uint) (*model.CartItem, error)
	// MergeItem 同一菜品合并数量，否则新建明细
	MergeItem(ctx context.Context, cartID, dishID uint, quantity int) (*model.CartItem, error)
	SetItemQuantity(ctx context.Context, cartID, itemID uint, quantity int) error
	DeleteItem(ctx context.Context, cartID, itemID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository { return &cartRepository{db: db} }

func activeCartQuery(db *gorm.DB, owner model.Identity) *gorm.DB {
	q := db.Model(&model.Cart{}).Where("is_active = ?", true)
	if owner.IsUser() {
		return q.Where("user_id = ?", *owner.UserID)
	}
	return q.Where("session_key = ?", owner.SessionKey)
}

func (r *cartRepository) GetOrCreateActive(ctx context.Context, owner model.Identity) (*model.Cart, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	var lastErr error
	for attempt := 0; attempt < resolveAttempts; attempt++ {
		cart, err := r.getOrCreateOnce(ctx, owner)
		if err == nil {
			return cart, nil
		}
		// 并发创建时另一事务可能尚未提交或刚回滚，重新走一遍
		if !errors.Is(err, gorm.ErrRecordNotFound) && !IsDuplicate(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("resolve active cart after %d attempts: %w", resolveAttempts, lastErr)
}

func (r *cartRepository) getOrCreateOnce(ctx context.Context, owner model.Identity) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := activeCartQuery(tx, owner).First(&cart).Error
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		fresh := model.Cart{UserID: owner.UserID, IsActive: true}
		if !owner.IsUser() {
			key := owner.SessionKey
			fresh.SessionKey = &key
		}
		// 部分唯一索引兜底：冲突时不插入，再读一次已存在的那一行
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
			return err
		}
		return activeCartQuery(tx, owner).First(&cart).Error
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Get(ctx context.Context, cartID uint) (*model.Cart, error) {
	var cart model.Cart
	if err := r.db.WithContext(ctx).First(&cart, cartID).Error; err != nil {
		return nil, notFound(err)
	}
	return &cart, nil
}

func (r *cartRepository) Deactivate(ctx context.Context, cartID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ? AND is_active = ?", cartID, true).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *cartRepository) ListItems(ctx context.Context, cartID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).Preload("Dish").
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *cartRepository) GetItem(ctx context.Context, cartID, itemID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).Preload("Dish").
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (r *cartRepository) MergeItem(ctx context.Context, cartID, dishID uint, quantity int) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for attempt := 0; attempt < 2; attempt++ {
			res := tx.Model(&model.CartItem{}).
				Where("cart_id = ? AND dish_id = ?", cartID, dishID).
				Update("quantity", gorm.Expr("quantity + ?", quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				item = model.CartItem{CartID: cartID, DishID: dishID, Quantity: quantity}
				ins := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&item)
				if ins.Error != nil {
					return ins.Error
				}
				// 唯一索引 (cart_id, dish_id) 冲突说明并发请求抢先建了明细，改为累加
				if ins.RowsAffected == 0 {
					continue
				}
			}
			if err := touchCart(tx, cartID); err != nil {
				return err
			}
			return tx.Preload("Dish").Where("cart_id = ? AND dish_id = ?", cartID, dishID).First(&item).Error
		}
		return fmt.Errorf("merge cart item: concurrent writers on cart %d dish %d", cartID, dishID)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) SetItemQuantity(ctx context.Context, cartID, itemID uint, quantity int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.CartItem{}).
			Where("id = ? AND cart_id = ?", itemID, cartID).
			Update("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return touchCart(tx, cartID)
	})
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&model.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return touchCart(tx, cartID)
	})
}

func touchCart(tx *gorm.DB, cartID uint) error {
	return tx.Model(&model.Cart{}).Where("id = ?", cartID).Update("updated_at", time.Now().UTC()).Error
}
