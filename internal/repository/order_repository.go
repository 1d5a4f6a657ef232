package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/gin-restaurant/internal/model"
)

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Create 创建订单及其明细（调用方负责放在事务中）
	Create(ctx context.Context, order *model.Order) error

	// GetByOrderID 根据订单ID查询订单，预加载明细与菜品
	GetByOrderID(ctx context.Context, orderID uint) (*model.Order, error)

	// GetByUserID 根据用户ID查询订单列表，按创建时间倒序
	GetByUserID(ctx context.Context, userID uint, limit int) ([]*model.Order, error)

	// UpdateStatus 仅当当前状态为 from 时更新为 to，返回是否更新成功
	UpdateStatus(ctx context.Context, orderID uint, from, to model.OrderStatus) (bool, error)

	// Count 统计订单数量
	Count(ctx context.Context) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create 创建订单
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	if len(order.Items) == 0 {
		return nil
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return db.Omit(clause.Associations).Create(&order.Items).Error
}

// GetByOrderID 根据订单ID查询订单
func (r *orderRepository) GetByOrderID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Dish").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// GetByUserID 根据用户ID查询订单列表
func (r *orderRepository) GetByUserID(ctx context.Context, userID uint, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Preload("Items.Dish").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus 更新订单状态（比较并设置）
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uint, from, to model.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Count 统计订单数量
func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}
