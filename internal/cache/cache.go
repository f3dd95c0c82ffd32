// Package cache wraps the shared Redis client. Redis is optional: while it is
// unreachable every lookup falls through to the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lotuss-academy/lms-admin/internal/logging"
	"github.com/lotuss-academy/lms-admin/internal/metrics"
)

const DefaultTTL = 300 * time.Second

type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type Cache struct {
	rdb       *redis.Client
	ttl       time.Duration
	log       *zap.Logger
	connected atomic.Bool
}

// New builds the client without dialing. The cache reports disconnected until
// the first successful Ping.
func New(opt Options, log *zap.Logger) *Cache {
	if opt.TTL <= 0 {
		opt.TTL = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:         opt.Addr,
			Password:     opt.Password,
			DB:           opt.DB,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			MaxRetries:   1,
		}),
		ttl: opt.TTL,
		log: log.Named("cache"),
	}
}

func (c *Cache) Connected() bool { return c != nil && c.connected.Load() }

func (c *Cache) TTL() time.Duration { return c.ttl }

// Ping probes Redis and updates the connected flag, logging transitions.
func (c *Cache) Ping(ctx context.Context) error {
	err := c.rdb.Ping(ctx).Err()
	up := err == nil
	if prev := c.connected.Swap(up); prev != up {
		if up {
			c.log.Info("redis connected")
		} else {
			c.log.Warn("redis unavailable, serving from database", zap.Error(err))
		}
	}
	return err
}

func (c *Cache) Close() error {
	c.connected.Store(false)
	return c.rdb.Close()
}

type refreshKey struct{}

// WithRefresh marks ctx so that GetOrFetch skips the read and overwrites the
// key with a fresh value.
func WithRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

func refreshing(ctx context.Context) bool {
	v, _ := ctx.Value(refreshKey{}).(bool)
	return v
}

// GetOrFetch returns the cached value for key, or computes it with fetch and
// stores it for the cache TTL. Cache failures never surface; fetch errors do.
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) (T, error)) (T, error) {
	if !c.Connected() {
		metrics.ObserveCache(metrics.CacheSkip)
		return fetch(ctx)
	}
	if refreshing(ctx) {
		return Refresh(ctx, c, key, fetch)
	}
	log := logging.FromContext(ctx, c.log)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jerr := json.Unmarshal(raw, &v); jerr == nil {
			metrics.ObserveCache(metrics.CacheHit)
			return v, nil
		}
		log.Warn("cache decode failed", zap.String("key", key))
		metrics.ObserveCache(metrics.CacheMiss)
	case errors.Is(err, redis.Nil):
		metrics.ObserveCache(metrics.CacheMiss)
	default:
		log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		metrics.ObserveCache(metrics.CacheError)
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	c.store(ctx, key, v)
	return v, nil
}

// Refresh computes the value with fetch and overwrites key, leaving every
// other key untouched.
func Refresh[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) (T, error)) (T, error) {
	v, err := fetch(ctx)
	if err != nil || !c.Connected() {
		return v, err
	}
	c.store(ctx, key, v)
	return v, nil
}

func (c *Cache) store(ctx context.Context, key string, v any) {
	log := logging.FromContext(ctx, c.log)
	payload, err := json.Marshal(v)
	if err != nil {
		log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.SetEx(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// ClearPrefix deletes every key starting with prefix and reports how many went.
func (c *Cache) ClearPrefix(ctx context.Context, prefix string) (int, error) {
	if !c.Connected() {
		return 0, errors.New("cache: not connected")
	}
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, prefix+"*", 200).Result()
		if err != nil {
			return deleted, fmt.Errorf("scan %s*: %w", prefix, err)
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("del %s*: %w", prefix, err)
			}
			deleted += int(n)
		}
		if next == 0 {
			return deleted, nil
		}
		cursor = next
	}
}
