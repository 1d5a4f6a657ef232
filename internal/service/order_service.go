package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/internal/repository"
	"github.com/d60-Lab/gin-restaurant/pkg/logger"
)

const (
	defaultOrderListLimit = 20
	maxOrderListLimit     = 100
)

// CustomerInfo 下单时填写的收货信息
type CustomerInfo struct {
	Name          string              `json:"name" validate:"required,max=150"`
	Phone         string              `json:"phone" validate:"required,max=20"`
	Address       string              `json:"address" validate:"required"`
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash online"`
	Comment       string              `json:"comment"`
}

// OrderPlacedEvent order.placed 事件负载
type OrderPlacedEvent struct {
	OrderID uint   `json:"order_id"`
	UserID  *uint  `json:"user_id,omitempty"`
	Total   string `json:"total"`
	Items   int    `json:"items"`
}

// OrderStatusChangedEvent order.status_changed 事件负载
type OrderStatusChangedEvent struct {
	OrderID uint              `json:"order_id"`
	From    model.OrderStatus `json:"from"`
	To      model.OrderStatus `json:"to"`
}

// OrderService 下单与订单状态流转
type OrderService interface {
	// PlaceOrder 将购物车转为订单；订单归属购物车的用户（匿名购物车则为空）
	PlaceOrder(ctx context.Context, cartID uint, info CustomerInfo) (*model.Order, error)
	ChangeStatus(ctx context.Context, orderID uint, next model.OrderStatus) (*model.Order, error)
	GetOrder(ctx context.Context, orderID uint) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID uint, limit int) ([]*model.Order, error)
}

type orderService struct {
	store    *repository.Store
	validate *validator.Validate
}

func NewOrderService(store *repository.Store) OrderService {
	v := validator.New()
	// 错误信息中使用 json 字段名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &orderService{store: store, validate: v}
}

func (s *orderService) checkInfo(info *CustomerInfo) error {
	info.Name = strings.TrimSpace(info.Name)
	info.Phone = strings.TrimSpace(info.Phone)
	info.Address = strings.TrimSpace(info.Address)
	if info.PaymentMethod == "" {
		info.PaymentMethod = model.PaymentCash
	}
	if err := s.validate.Struct(info); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return invalid(fe.Field(), fmt.Sprintf("failed on %q", fe.Tag()))
		}
		return invalid("customer", err.Error())
	}
	return nil
}

func (s *orderService) PlaceOrder(ctx context.Context, cartID uint, info CustomerInfo) (*model.Order, error) {
	if err := s.checkInfo(&info); err != nil {
		return nil, err
	}

	var order *model.Order
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		carts := tx.Carts()
		cart, err := carts.Get(ctx, cartID)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: cart %d", ErrNotFound, cartID)
		}
		if err != nil {
			return err
		}
		if !cart.IsActive {
			return fmt.Errorf("%w: cart %d is already checked out", ErrInvalidState, cartID)
		}

		items, err := carts.ListItems(ctx, cartID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: cart %d is empty", ErrInvalidState, cartID)
		}

		order = &model.Order{
			UserID:          cart.UserID,
			CustomerName:    info.Name,
			Phone:           info.Phone,
			DeliveryAddress: info.Address,
			PaymentMethod:   info.PaymentMethod,
			Status:          model.OrderStatusNew,
			Comment:         optional(strings.TrimSpace(info.Comment)),
			Items:           make([]model.OrderItem, 0, len(items)),
		}
		for _, it := range items {
			if it.Dish == nil || !it.Dish.IsAvailable {
				return fmt.Errorf("%w: dish %d is no longer available", ErrInvalidState, it.DishID)
			}
			order.Items = append(order.Items, model.OrderItem{
				DishID:   it.DishID,
				Price:    it.Dish.Price,
				Quantity: it.Quantity,
			})
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		// 并发结账时只有一个请求能关闭购物车
		closed, err := carts.Deactivate(ctx, cartID)
		if err != nil {
			return err
		}
		if !closed {
			return fmt.Errorf("%w: cart %d is already checked out", ErrInvalidState, cartID)
		}

		_, err = tx.Outbox().Append(ctx, model.TopicOrderPlaced, strconv.FormatUint(uint64(order.ID), 10), OrderPlacedEvent{
			OrderID: order.ID,
			UserID:  order.UserID,
			Total:   order.Total().StringFixed(2),
			Items:   len(order.Items),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("cart_id", cartID),
		zap.String("total", order.Total().StringFixed(2)),
	)
	return order, nil
}

func (s *orderService) ChangeStatus(ctx context.Context, orderID uint, next model.OrderStatus) (*model.Order, error) {
	if !next.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", next))
	}

	var from model.OrderStatus
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		order, err := tx.Orders().GetByOrderID(ctx, orderID)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		if err != nil {
			return err
		}
		from = order.Status
		if !from.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
		}
		ok, err := tx.Orders().UpdateStatus(ctx, orderID, from, next)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order %d changed concurrently", ErrInvalidTransition, orderID)
		}
		_, err = tx.Outbox().Append(ctx, model.TopicOrderStatusChanged, strconv.FormatUint(uint64(orderID), 10),
			OrderStatusChangedEvent{OrderID: orderID, From: from, To: next})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order status changed",
		zap.Uint("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
	)
	return s.GetOrder(ctx, orderID)
}

func (s *orderService) GetOrder(ctx context.Context, orderID uint) (*model.Order, error) {
	order, err := s.store.Orders().GetByOrderID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	return order, err
}

func (s *orderService) ListUserOrders(ctx context.Context, userID uint, limit int) ([]*model.Order, error) {
	if limit <= 0 {
		limit = defaultOrderListLimit
	}
	if limit > maxOrderListLimit {
		limit = maxOrderListLimit
	}
	return s.store.Orders().GetByUserID(ctx, userID, limit)
}
