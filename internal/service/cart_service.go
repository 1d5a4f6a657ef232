package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/internal/repository"
)

// CartLine 购物车明细视图
type CartLine struct {
	ItemID    uint            `json:"item_id"`
	Dish      model.Dish      `json:"dish"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartView 购物车视图，供接口直接返回
type CartView struct {
	CartID uint            `json:"cart_id"`
	Lines  []CartLine      `json:"lines"`
	Total  decimal.Decimal `json:"total"`
}

// CartService 购物车服务；身份由调用方显式传入，本层不生成会话
type CartService interface {
	ResolveCart(ctx context.Context, owner model.Identity) (*model.Cart, error)
	AddItem(ctx context.Context, cartID, dishID uint, quantity int) (*model.CartItem, error)
	// UpdateItemQuantity quantity <= 0 时删除明细并返回 nil, nil
	UpdateItemQuantity(ctx context.Context, cartID, itemID uint, quantity int) (*model.CartItem, error)
	RemoveItem(ctx context.Context, cartID, itemID uint) error
	GetTotal(ctx context.Context, cartID uint) (decimal.Decimal, error)
	GetCart(ctx context.Context, cartID uint) (*CartView, error)
}

type cartService struct {
	store *repository.Store
}

func NewCartService(store *repository.Store) CartService {
	return &cartService{store: store}
}

func (s *cartService) ResolveCart(ctx context.Context, owner model.Identity) (*model.Cart, error) {
	if err := owner.Validate(); err != nil {
		return nil, invalid("identity", err.Error())
	}
	if owner.IsUser() {
		if err := s.store.Users().Ensure(ctx, *owner.UserID); err != nil {
			return nil, err
		}
	}
	return s.store.Carts().GetOrCreateActive(ctx, owner)
}

func (s *cartService) AddItem(ctx context.Context, cartID, dishID uint, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, invalid("quantity", "must be at least 1")
	}
	if _, err := s.activeCart(ctx, cartID); err != nil {
		return nil, err
	}
	if _, err := s.store.Catalog().GetAvailableDish(ctx, dishID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: dish %d", ErrNotFound, dishID)
		}
		return nil, err
	}
	return s.store.Carts().MergeItem(ctx, cartID, dishID, quantity)
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, cartID, itemID uint, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, s.RemoveItem(ctx, cartID, itemID)
	}
	if _, err := s.activeCart(ctx, cartID); err != nil {
		return nil, err
	}
	carts := s.store.Carts()
	if err := carts.SetItemQuantity(ctx, cartID, itemID, quantity); err != nil {
		return nil, itemErr(err, cartID, itemID)
	}
	item, err := carts.GetItem(ctx, cartID, itemID)
	if err != nil {
		return nil, itemErr(err, cartID, itemID)
	}
	return item, nil
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, itemID uint) error {
	if _, err := s.activeCart(ctx, cartID); err != nil {
		return err
	}
	return itemErr(s.store.Carts().DeleteItem(ctx, cartID, itemID), cartID, itemID)
}

func (s *cartService) GetTotal(ctx context.Context, cartID uint) (decimal.Decimal, error) {
	if _, err := s.store.Carts().Get(ctx, cartID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: cart %d", ErrNotFound, cartID)
		}
		return decimal.Zero, err
	}
	items, err := s.store.Carts().ListItems(ctx, cartID)
	if err != nil {
		return decimal.Zero, err
	}
	cart := model.Cart{ID: cartID, Items: items}
	return cart.Total(), nil
}

func (s *cartService) GetCart(ctx context.Context, cartID uint) (*CartView, error) {
	if _, err := s.store.Carts().Get(ctx, cartID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: cart %d", ErrNotFound, cartID)
		}
		return nil, err
	}
	items, err := s.store.Carts().ListItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	view := &CartView{CartID: cartID, Lines: make([]CartLine, 0, len(items)), Total: decimal.Zero}
	for i := range items {
		line := CartLine{ItemID: items[i].ID, Quantity: items[i].Quantity, LineTotal: items[i].LineTotal()}
		if items[i].Dish != nil {
			line.Dish = *items[i].Dish
		}
		view.Lines = append(view.Lines, line)
		view.Total = view.Total.Add(line.LineTotal)
	}
	return view, nil
}

// activeCart 已结账的购物车不再接受修改
func (s *cartService) activeCart(ctx context.Context, cartID uint) (*model.Cart, error) {
	cart, err := s.store.Carts().Get(ctx, cartID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: cart %d", ErrNotFound, cartID)
	}
	if err != nil {
		return nil, err
	}
	if !cart.IsActive {
		return nil, fmt.Errorf("%w: cart %d is checked out", ErrInvalidState, cartID)
	}
	return cart, nil
}

func itemErr(err error, cartID, itemID uint) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: item %d in cart %d", ErrNotFound, itemID, cartID)
	}
	return err
}
