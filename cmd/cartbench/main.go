package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/gin-restaurant/config"
	"github.com/d60-Lab/gin-restaurant/internal/model"
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

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
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

// cartbench 并发解析同一会话的购物车并结账，验证每个身份只有一个 active 购物车
//
//	N     会话数量（默认 200）
//	CONC  每个会话并发请求数（默认 8）
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	if err := repository.InitSchema(db); err != nil {
		panic(err)
	}
	store := repository.NewStore(db)
	carts := service.NewCartService(store)
	orders := service.NewOrderService(store)
	ctx := context.Background()

	N := envInt("N", 200)
	CONC := envInt("CONC", 8)

	var dish model.Dish
	if err := db.Where("is_available = ?", true).First(&dish).Error; err != nil {
		fmt.Fprintln(os.Stderr, "no available dish, run cmd/seed first:", err)
		os.Exit(1)
	}

	var (
		mu          sync.Mutex
		resolveRecs = make([]time.Duration, 0, N*CONC)
		checkoutRec = make([]time.Duration, 0, N)
		violations  int
		failures    int
	)

	t0 := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < N; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			owner := model.SessionIdentity(uuid.NewString())

			ids := make([]uint, CONC)
			durs := make([]time.Duration, CONC)
			var inner sync.WaitGroup
			for j := 0; j < CONC; j++ {
				inner.Add(1)
				go func(j int) {
					defer inner.Done()
					st := time.Now()
					cart, err := carts.ResolveCart(ctx, owner)
					durs[j] = time.Since(st)
					if err == nil {
						ids[j] = cart.ID
					}
				}(j)
			}
			inner.Wait()

			distinct := map[uint]struct{}{}
			for _, id := range ids {
				distinct[id] = struct{}{}
			}

			st := time.Now()
			var checkoutErr error
			if _, err := carts.AddItem(ctx, ids[0], dish.ID, 1); err != nil {
				checkoutErr = err
			} else {
				_, checkoutErr = orders.PlaceOrder(ctx, ids[0], service.CustomerInfo{Name: "bench", Phone: "0", Address: "bench"})
			}
			d := time.Since(st)

			mu.Lock()
			defer mu.Unlock()
			resolveRecs = append(resolveRecs, durs...)
			if len(distinct) != 1 {
				violations++
			}
			if checkoutErr != nil {
				failures++
			} else {
				checkoutRec = append(checkoutRec, d)
			}
		}()
	}
	wg.Wait()
	total := time.Since(t0)

	fmt.Printf("N=%d, CONC=%d, driver=%s\n", N, CONC, cfg.Database.Driver)
	fmt.Printf("Resolve latency: samples=%d, p50=%v, p95=%v, p99=%v\n",
		len(resolveRecs), pct(resolveRecs, 0.50), pct(resolveRecs, 0.95), pct(resolveRecs, 0.99))
	fmt.Printf("Checkout latency: samples=%d, p50=%v, p95=%v, p99=%v, failures=%d\n",
		len(checkoutRec), pct(checkoutRec, 0.50), pct(checkoutRec, 0.95), pct(checkoutRec, 0.99), failures)
	fmt.Printf("Identities with more than one active cart: %d, total: %v\n", violations, total)
}
