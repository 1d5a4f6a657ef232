package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-restaurant/internal/cache"
	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/internal/repository"
	"github.com/d60-Lab/gin-restaurant/pkg/logger"
)

// CatalogCache 目录读缓存，实现见 internal/cache
type CatalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{})
	Invalidate(ctx context.Context) error
}

// MenuFilter 菜单过滤条件
type MenuFilter struct {
	CategorySlug string
}

// Menu 菜单视图：全部可售菜品，以及其中的热门与新品
type Menu struct {
	SelectedCategory *model.Category `json:"selected_category,omitempty"`
	Dishes           []model.Dish    `json:"dishes"`
	Popular          []model.Dish    `json:"popular"`
	New              []model.Dish    `json:"new"`
}

// DishDetail 菜品详情及已审核评价
type DishDetail struct {
	Dish    model.Dish     `json:"dish"`
	Reviews []model.Review `json:"reviews"`
}

// MenuImport 批量导入的菜单数据
type MenuImport struct {
	Categories []CategoryImport `mapstructure:"categories" json:"categories"`
}

type CategoryImport struct {
	Name        string       `mapstructure:"name" json:"name"`
	Slug        string       `mapstructure:"slug" json:"slug"`
	Description string       `mapstructure:"description" json:"description"`
	Order       int          `mapstructure:"order" json:"order"`
	Dishes      []DishImport `mapstructure:"dishes" json:"dishes"`
}

type DishImport struct {
	Name        string `mapstructure:"name" json:"name"`
	Slug        string `mapstructure:"slug" json:"slug"`
	Description string `mapstructure:"description" json:"description"`
	Ingredients string `mapstructure:"ingredients" json:"ingredients"`
	Price       string `mapstructure:"price" json:"price"`
	ImageURL    string `mapstructure:"image_url" json:"image_url"`
	Unavailable bool   `mapstructure:"unavailable" json:"unavailable"`
	Popular     bool   `mapstructure:"popular" json:"popular"`
	New         bool   `mapstructure:"new" json:"new"`
}

// CatalogService 目录服务（对顾客只读）
type CatalogService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListDishes(ctx context.Context, filter MenuFilter) (*Menu, error)
	GetDish(ctx context.Context, slug string) (*DishDetail, error)

	ImportMenu(ctx context.Context, menu MenuImport) (int, error)
	UpdateDish(ctx context.Context, dishID uint, price *decimal.Decimal, available *bool) error
	DeleteDish(ctx context.Context, dishID uint) error
}

type catalogService struct {
	store *repository.Store
	cache CatalogCache
}

// NewCatalogService cache 可为 nil，此时每次直接查库
func NewCatalogService(store *repository.Store, cache CatalogCache) CatalogService {
	return &catalogService{store: store, cache: cache}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	if s.cache != nil && s.cache.Get(ctx, cache.CategoriesKey(), &cats) {
		return cats, nil
	}
	cats, err := s.store.Catalog().ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, cache.CategoriesKey(), cats)
	}
	return cats, nil
}

func (s *catalogService) ListDishes(ctx context.Context, filter MenuFilter) (*Menu, error) {
	key := cache.MenuKey(filter.CategorySlug)
	var menu Menu
	if s.cache != nil && s.cache.Get(ctx, key, &menu) {
		return &menu, nil
	}

	repo := s.store.Catalog()
	var selected *model.Category
	if filter.CategorySlug != "" {
		cat, err := repo.GetCategoryBySlug(ctx, filter.CategorySlug)
		switch {
		case err == nil:
			selected = cat
		case errors.Is(err, repository.ErrNotFound):
			// 未知分类回退为完整菜单，共用完整菜单的缓存键
			key = cache.MenuKey("")
			if s.cache != nil && s.cache.Get(ctx, key, &menu) {
				return &menu, nil
			}
		default:
			return nil, err
		}
	}

	all, err := repo.ListAvailableDishes(ctx, nil)
	if err != nil {
		return nil, err
	}

	menu = Menu{Dishes: all, Popular: []model.Dish{}, New: []model.Dish{}}
	for _, d := range all {
		if d.IsPopular {
			menu.Popular = append(menu.Popular, d)
		}
		if d.IsNew {
			menu.New = append(menu.New, d)
		}
	}
	if selected != nil {
		menu.SelectedCategory = selected
		menu.Dishes, err = repo.ListAvailableDishes(ctx, &selected.ID)
		if err != nil {
			return nil, err
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, menu)
	}
	return &menu, nil
}

func (s *catalogService) GetDish(ctx context.Context, slug string) (*DishDetail, error) {
	dish, err := s.store.Catalog().GetDishBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: dish %q", ErrNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	reviews, err := s.store.Reviews().ListApproved(ctx, dish.ID)
	if err != nil {
		return nil, err
	}
	return &DishDetail{Dish: *dish, Reviews: reviews}, nil
}

// ImportMenu 按 slug 幂等导入分类与菜品，返回写入的菜品数
func (s *catalogService) ImportMenu(ctx context.Context, menu MenuImport) (int, error) {
	count := 0
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		repo := tx.Catalog()
		for _, ci := range menu.Categories {
			if ci.Slug == "" || ci.Name == "" {
				return invalid("categories", "name and slug are required")
			}
			cat := model.Category{Name: ci.Name, Slug: ci.Slug, Order: ci.Order, Description: optional(ci.Description)}
			if err := repo.UpsertCategory(ctx, &cat); err != nil {
				return fmt.Errorf("category %q: %w", ci.Slug, err)
			}
			// 部分驱动在冲突更新时不回填主键
			if cat.ID == 0 {
				stored, err := repo.GetCategoryBySlug(ctx, ci.Slug)
				if err != nil {
					return err
				}
				cat.ID = stored.ID
			}
			for _, di := range ci.Dishes {
				price, err := decimal.NewFromString(di.Price)
				if err != nil || price.IsNegative() {
					return invalid("price", fmt.Sprintf("dish %q: invalid price %q", di.Slug, di.Price))
				}
				dish := model.Dish{
					CategoryID:  cat.ID,
					Name:        di.Name,
					Slug:        di.Slug,
					Description: optional(di.Description),
					Ingredients: optional(di.Ingredients),
					Price:       price.Round(2),
					ImageURL:    optional(di.ImageURL),
					IsAvailable: !di.Unavailable,
					IsPopular:   di.Popular,
					IsNew:       di.New,
				}
				if err := repo.UpsertDish(ctx, &dish); err != nil {
					return fmt.Errorf("dish %q: %w", di.Slug, err)
				}
				count++
			}
		}
		return nil
	})
	if repository.IsDuplicate(err) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	logger.Info("menu imported", zap.Int("categories", len(menu.Categories)), zap.Int("dishes", count))
	return count, nil
}

func (s *catalogService) UpdateDish(ctx context.Context, dishID uint, price *decimal.Decimal, available *bool) error {
	if price == nil && available == nil {
		return invalid("dish", "nothing to update")
	}
	if price != nil && price.IsNegative() {
		return invalid("price", "must not be negative")
	}
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		if price != nil {
			if err := tx.Catalog().UpdateDishPrice(ctx, dishID, price.Round(2)); err != nil {
				return err
			}
		}
		if available != nil {
			return tx.Catalog().SetDishAvailability(ctx, dishID, *available)
		}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: dish %d", ErrNotFound, dishID)
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) DeleteDish(ctx context.Context, dishID uint) error {
	err := s.store.Catalog().DeleteDish(ctx, dishID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: dish %d", ErrNotFound, dishID)
	case errors.Is(err, repository.ErrDishInUse):
		return fmt.Errorf("%w: dish %d is referenced by orders", ErrInvalidState, dishID)
	case err != nil:
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
