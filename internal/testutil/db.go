// Package testutil provides throwaway sqlite databases and catalog fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-restaurant/config"
	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/internal/repository"
	"github.com/d60-Lab/gin-restaurant/pkg/database"
)

// NewDB opens an isolated in-memory sqlite database with the full schema migrated.
// A single connection keeps the shared-cache database alive and serialises writers.
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	db, err := database.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	if err := repository.InitSchema(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Catalog is a small seeded menu.
type Catalog struct {
	Soups    model.Category
	Mains    model.Category
	Borscht  model.Dish // 120.00, popular
	Varenyky model.Dish // 75.50, new
	Hidden   model.Dish // unavailable
}

// SeedCatalog inserts two categories and three dishes.
func SeedCatalog(tb testing.TB, db *gorm.DB) Catalog {
	tb.Helper()
	ctx := context.Background()
	repo := repository.NewCatalogRepository(db)

	c := Catalog{
		Soups: model.Category{Name: "Soups", Slug: "soups", Order: 1},
		Mains: model.Category{Name: "Mains", Slug: "mains", Order: 0},
	}
	must(tb, repo.CreateCategory(ctx, &c.Soups))
	must(tb, repo.CreateCategory(ctx, &c.Mains))

	c.Borscht = model.Dish{CategoryID: c.Soups.ID, Name: "Borscht", Slug: "borscht",
		Price: decimal.RequireFromString("120.00"), IsAvailable: true, IsPopular: true}
	c.Varenyky = model.Dish{CategoryID: c.Mains.ID, Name: "Varenyky", Slug: "varenyky",
		Price: decimal.RequireFromString("75.50"), IsAvailable: true, IsNew: true}
	c.Hidden = model.Dish{CategoryID: c.Mains.ID, Name: "Banosh", Slug: "banosh",
		Price: decimal.RequireFromString("99.99"), IsAvailable: false}
	must(tb, repo.CreateDish(ctx, &c.Borscht))
	must(tb, repo.CreateDish(ctx, &c.Varenyky))
	must(tb, repo.CreateDish(ctx, &c.Hidden))
	return c
}

// CreateUser inserts a user row.
func CreateUser(tb testing.TB, db *gorm.DB, username string) model.User {
	tb.Helper()
	u := model.User{Username: username, Email: username + "@example.com"}
	must(tb, db.Create(&u).Error)
	return u
}

func must(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatalf("seed: %v", err)
	}
}
