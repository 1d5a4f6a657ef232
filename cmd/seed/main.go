package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/gin-restaurant/config"
	"github.com/d60-Lab/gin-restaurant/internal/api/middleware"
	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/internal/repository"
	"github.com/d60-Lab/gin-restaurant/internal/service"
	"github.com/d60-Lab/gin-restaurant/pkg/database"
	"github.com/d60-Lab/gin-restaurant/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return v
}

// loadMenu 通过 viper 读取菜单文件（yaml/json/toml 均可）
func loadMenu(path string) (service.MenuImport, error) {
	v := viper.New()
	v.SetConfigFile(path)
	var menu service.MenuImport
	if err := v.ReadInConfig(); err != nil {
		return menu, fmt.Errorf("read menu %s: %w", path, err)
	}
	if err := v.Unmarshal(&menu); err != nil {
		return menu, fmt.Errorf("decode menu %s: %w", path, err)
	}
	return menu, nil
}

func main() {
	menuPath := flag.String("menu", "config/menu.yaml", "menu file")
	staff := flag.String("staff", "", "create staff user with this username and print a token")
	ttl := flag.Duration("token-ttl", 24*time.Hour, "staff token lifetime")
	flag.Parse()

	cfg := must(config.Load())
	_ = logger.Init(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()

	db := must(database.InitDB(cfg))
	must(0, repository.InitSchema(db))
	store := repository.NewStore(db)
	defer store.Close()
	ctx := context.Background()

	menu := must(loadMenu(*menuPath))
	n := must(service.NewCatalogService(store, nil).ImportMenu(ctx, menu))
	logger.Info("seed complete", zap.String("menu", *menuPath), zap.Int("dishes", n))

	if *staff != "" {
		u := model.User{Username: *staff, Email: *staff + "@staff.local"}
		err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&u).Error
		must(0, err)
		must(0, db.WithContext(ctx).Where("username = ?", *staff).First(&u).Error)
		token := must(middleware.IssueToken(cfg.JWT, u.ID, middleware.RoleStaff, *ttl))
		fmt.Println(token)
	}
}
