package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-restaurant/config"
	"github.com/d60-Lab/gin-restaurant/internal/api"
	"github.com/d60-Lab/gin-restaurant/internal/api/handler"
	"github.com/d60-Lab/gin-restaurant/internal/cache"
	"github.com/d60-Lab/gin-restaurant/internal/event"
	"github.com/d60-Lab/gin-restaurant/internal/repository"
	"github.com/d60-Lab/gin-restaurant/internal/service"
	"github.com/d60-Lab/gin-restaurant/pkg/database"
	"github.com/d60-Lab/gin-restaurant/pkg/logger"
	"github.com/d60-Lab/gin-restaurant/pkg/tracing"
)

// @title gin-restaurant API
// @version 1.0
// @description 餐厅点餐服务：菜单、购物车、下单与评价审核
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	defer logger.Sync()
	gin.SetMode(cfg.Server.Mode)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			SampleRate:       cfg.Sentry.SampleRate,
			AttachStacktrace: true,
		}); err != nil {
			return fmt.Errorf("sentry init: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	if err := repository.InitSchema(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	store := repository.NewStore(db)
	defer store.Close()

	var catalogCache service.CatalogCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			catalogCache = cache.NewCatalogCache(rdb, cfg.Redis.CacheTTL)
		}
	}

	var publisher event.Publisher = event.LogPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := event.NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			return err
		}
		publisher = kp
	}
	defer publisher.Close()
	stopRelay := event.NewRelay(store.Outbox(), publisher, cfg.Outbox).Start()

	h := handler.New(
		service.NewCatalogService(store, catalogCache),
		service.NewCartService(store),
		service.NewOrderService(store),
		service.NewReviewService(store),
	)
	router := api.NewRouter(cfg, h, db)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           corsHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	if err := stopRelay(shutdownCtx); err != nil {
		logger.Error("outbox relay shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown", zap.Error(err))
	}
	return nil
}
