package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-restaurant/internal/model"
)

var (
	// ErrNotFound 记录不存在或不属于调用方
	ErrNotFound = errors.New("record not found")
	// ErrDishInUse 菜品已被订单引用，禁止删除
	ErrDishInUse = errors.New("dish is referenced by orders")
)

// Store 聚合各仓储；事务内通过 InTx 拿到绑定 tx 的 Store
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Catalog() CatalogRepository { return &catalogRepository{db: s.db} }
func (s *Store) Carts() CartRepository       { return &cartRepository{db: s.db} }
func (s *Store) Orders() OrderRepository     { return &orderRepository{db: s.db} }
func (s *Store) Reviews() ReviewRepository   { return &reviewRepository{db: s.db} }
func (s *Store) Outbox() OutboxRepository    { return &outboxRepository{db: s.db} }
func (s *Store) Users() UserRepository        { return &userRepository{db: s.db} }

// InTx 在单个事务中执行 fn，fn 返回错误则回滚
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema 初始化数据库表结构
func InitSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Dish{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Review{},
		&model.OutboxEvent{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
