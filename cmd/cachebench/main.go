package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/gin-restaurant/config"
	"github.com/d60-Lab/gin-restaurant/internal/cache"
	"github.com/d60-Lab/gin-restaurant/internal/repository"
	"github.com/d60-Lab/gin-restaurant/internal/service"
	"github.com/d60-Lab/gin-restaurant/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

// cachebench 对比菜单读取在直连数据库与 redis 读缓存下的延迟
//
//	REQS  请求数（默认 5000）
//	INVALIDATE_EVERY  每隔多少次请求清空一次缓存，模拟后台改价（默认 1000）
func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	store := repository.NewStore(db)

	reqs := 5000
	if s := os.Getenv("REQS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			reqs = n
		}
	}
	invalidateEvery := 1000
	if s := os.Getenv("INVALIDATE_EVERY"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			invalidateEvery = n
		}
	}

	cats := must(store.Catalog().ListCategories(ctx))
	slugs := []string{""}
	for _, c := range cats {
		slugs = append(slugs, c.Slug)
	}
	if len(cats) == 0 {
		fmt.Fprintln(os.Stderr, "catalog is empty, run cmd/seed first")
		os.Exit(1)
	}

	addr := cfg.Redis.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		fmt.Fprintln(os.Stderr, "redis unavailable:", err)
		os.Exit(1)
	}
	menuCache := cache.NewCatalogCache(rdb, cfg.Redis.CacheTTL)
	_ = menuCache.Invalidate(ctx)

	rng := rand.New(rand.NewSource(42))
	sequence := make([]string, reqs)
	for i := range sequence {
		sequence[i] = slugs[rng.Intn(len(slugs))]
	}

	run := func(svc service.CatalogService, onTick func(i int)) []time.Duration {
		recs := make([]time.Duration, 0, reqs)
		for i, slug := range sequence {
			if onTick != nil {
				onTick(i)
			}
			st := time.Now()
			if _, err := svc.ListDishes(ctx, service.MenuFilter{CategorySlug: slug}); err != nil {
				panic(err)
			}
			recs = append(recs, time.Since(st))
		}
		return recs
	}

	direct := run(service.NewCatalogService(store, nil), nil)
	cached := run(service.NewCatalogService(store, menuCache), func(i int) {
		if i > 0 && i%invalidateEvery == 0 {
			_ = menuCache.Invalidate(ctx)
		}
	})
	stats := menuCache.Stats()

	fmt.Printf("REQS=%d, categories=%d, invalidate_every=%d\n", reqs, len(cats), invalidateEvery)
	fmt.Printf("%-8s avg=%v p95=%v p99=%v\n", "db", avg(direct), pct(direct, 0.95), pct(direct, 0.99))
	fmt.Printf("%-8s avg=%v p95=%v p99=%v hits=%d misses=%d hit_rate=%.2f%%\n", "redis",
		avg(cached), pct(cached, 0.95), pct(cached, 0.99), stats.Hits, stats.Misses,
		100*float64(stats.Hits)/math.Max(1, float64(stats.Hits+stats.Misses)))
}
