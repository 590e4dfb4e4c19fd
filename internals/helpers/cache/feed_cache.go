package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// FeedCache caches rendered public feeds in Redis. Every key embeds a
// version number; Bump increments it so stale entries are never read again
// and simply expire. A nil *FeedCache is a valid no-op cache.
type FeedCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	log.Printf("[CACHE] redis connected at %s", addr)
	return rdb, nil
}

func NewFeedCache(rdb *redis.Client, ttl time.Duration, prefix string) *FeedCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if prefix == "" {
		prefix = "news"
	}
	return &FeedCache{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (c *FeedCache) versionKey() string { return c.prefix + ":feed:version" }

func (c *FeedCache) version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *FeedCache) key(ctx context.Context, name string) (string, error) {
	v, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:feed:v%d:%s", c.prefix, v, name), nil
}

// Get decodes the cached value into dst and reports whether it was found.
// Redis failures are logged and reported as a miss.
func (c *FeedCache) Get(ctx context.Context, name string, dst any) bool {
	if c == nil {
		return false
	}
	k, err := c.key(ctx, name)
	if err != nil {
		log.Printf("[CACHE] version read failed: %v", err)
		return false
	}
	raw, err := c.rdb.Get(ctx, k).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[CACHE] get %s failed: %v", k, err)
		}
		return false
	}
	if err := sonic.Unmarshal(raw, dst); err != nil {
		log.Printf("[CACHE] decode %s failed: %v", k, err)
		return false
	}
	return true
}

func (c *FeedCache) Set(ctx context.Context, name string, v any) {
	if c == nil {
		return
	}
	k, err := c.key(ctx, name)
	if err != nil {
		log.Printf("[CACHE] version read failed: %v", err)
		return
	}
	raw, err := sonic.Marshal(v)
	if err != nil {
		log.Printf("[CACHE] encode %s failed: %v", k, err)
		return
	}
	if err := c.rdb.Set(ctx, k, raw, c.ttl).Err(); err != nil {
		log.Printf("[CACHE] set %s failed: %v", k, err)
	}
}

// Bump invalidates every cached feed.
func (c *FeedCache) Bump(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Incr(ctx, c.versionKey()).Err(); err != nil {
		log.Printf("[CACHE] bump failed: %v", err)
	}
}
