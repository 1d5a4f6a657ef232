package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-restaurant/pkg/logger"
)

const (
	keyPrefix = "catalog:"
	// keyIndex tracks every key written so Invalidate can drop them in one pipeline.
	keyIndex = keyPrefix + "keys"
)

// CategoriesKey is the cache key for the ordered category list.
func CategoriesKey() string { return keyPrefix + "categories" }

// MenuKey is the cache key for the menu filtered by category slug ("" = full menu).
func MenuKey(categorySlug string) string {
	if categorySlug == "" {
		categorySlug = "_all"
	}
	return fmt.Sprintf("%smenu:%s", keyPrefix, categorySlug)
}

// CatalogCache is a Redis read-through cache for catalog reads.
// Catalog data is read-mostly, so entries live until TTL or an explicit Invalidate.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCatalogCache wraps client; ttl <= 0 falls back to five minutes.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Get decodes the cached JSON under key into dest. Redis errors count as a miss.
func (c *CatalogCache) Get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("catalog cache get failed", zap.String("key", key), zap.Error(err))
		}
		c.misses.Add(1)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.misses.Add(1)
		return false
	}
	c.hits.Add(1)
	return true
}

// Set stores value as JSON and records the key in the index.
func (c *CatalogCache) Set(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, payload, c.ttl)
	pipe.SAdd(ctx, keyIndex, key)
	pipe.Expire(ctx, keyIndex, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("catalog cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every catalog entry written through this cache.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, keyIndex).Result()
	if err != nil {
		return err
	}
	keys = append(keys, keyIndex)
	return c.client.Del(ctx, keys...).Err()
}

// Stats reports hit/miss counters since the last ResetStats.
func (c *CatalogCache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// ResetStats clears recorded counters.
func (c *CatalogCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats summarises cache effectiveness.
type Stats struct {
	Hits   int64
	Misses int64
}
