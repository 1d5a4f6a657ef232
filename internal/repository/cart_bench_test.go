package repository_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/internal/repository"
	"github.com/d60-Lab/gin-restaurant/internal/testutil"
)

func BenchmarkResolveCart_And_MergeItem(b *testing.B) {
	db := testutil.NewDB(b)
	cat := testutil.SeedCatalog(b, db)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	// 预生成会话，模拟多个匿名访客反复加购
	sessions := make([]string, 200)
	for i := range sessions {
		sessions[i] = fmt.Sprintf("bench-%03d", i)
	}
	dishes := []uint{cat.Borscht.ID, cat.Varenyky.ID}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cart, err := repo.GetOrCreateActive(ctx, model.SessionIdentity(sessions[rand.Intn(len(sessions))]))
		if err != nil {
			b.Fatal(err)
		}
		if _, err := repo.MergeItem(ctx, cart.ID, dishes[rand.Intn(len(dishes))], 1); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkListItems(b *testing.B) {
	db := testutil.NewDB(b)
	cat := testutil.SeedCatalog(b, db)
	repo := repository.NewCartRepository(db)
	ctx := context.Background()

	cart, err := repo.GetOrCreateActive(ctx, model.SessionIdentity("bench"))
	if err != nil {
		b.Fatal(err)
	}
	_, _ = repo.MergeItem(ctx, cart.ID, cat.Borscht.ID, 2)
	_, _ = repo.MergeItem(ctx, cart.ID, cat.Varenyky.ID, 1)

	b.ResetTimer()
	b.Run("ListItems", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = repo.ListItems(ctx, cart.ID)
		}
	})
}
