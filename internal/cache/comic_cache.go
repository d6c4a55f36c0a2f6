// Package cache keeps read-mostly comic lookups in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"comicshare/internal/config"
	"comicshare/internal/models"
)

// ComicCache is a cache-aside store for published comic details. A nil
// *ComicCache is valid and caches nothing.
type ComicCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewComicCache connects to Redis. It returns (nil, nil) when no address is
// configured so callers can run without a cache.
func NewComicCache(ctx context.Context, cfg config.Redis, log *zap.Logger) (*ComicCache, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ComicCache{client: rdb, ttl: cfg.TTL, log: log}, nil
}

func NewComicCacheFromClient(client *redis.Client, ttl time.Duration, log *zap.Logger) *ComicCache {
	return &ComicCache{client: client, ttl: ttl, log: log}
}

func slugKey(slug string) string {
	return "comic:slug:" + slug
}

// Get returns the cached comic, or nil on a miss. Redis failures are logged
// and treated as misses.
func (c *ComicCache) Get(ctx context.Context, slug string) *models.Comic {
	if c == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, slugKey(slug)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("comic cache read failed", zap.String("slug", slug), zap.Error(err))
		}
		return nil
	}

	var comic models.Comic
	if err := json.Unmarshal(raw, &comic); err != nil {
		c.log.Warn("comic cache entry is corrupt", zap.String("slug", slug), zap.Error(err))
		return nil
	}
	return &comic
}

func (c *ComicCache) Set(ctx context.Context, comic *models.Comic) {
	if c == nil || comic == nil {
		return
	}

	raw, err := json.Marshal(comic)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, slugKey(comic.Slug), raw, c.ttl).Err(); err != nil {
		c.log.Warn("comic cache write failed", zap.String("slug", comic.Slug), zap.Error(err))
	}
}

func (c *ComicCache) Invalidate(ctx context.Context, slugs ...string) {
	if c == nil || len(slugs) == 0 {
		return
	}

	keys := make([]string, len(slugs))
	for i, s := range slugs {
		keys[i] = slugKey(s)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("comic cache invalidation failed", zap.Strings("slugs", slugs), zap.Error(err))
	}
}

func (c *ComicCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
