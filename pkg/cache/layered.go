package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache combines an in-memory L1 with a Redis L2.
// Writes go through both layers; reads promote L2 hits into L1.
type LayeredCache struct {
	l1 *MemoryCache
	l2 *RedisCache
}

// NewLayeredCache creates a two-level cache on top of an existing Redis client.
func NewLayeredCache(redisCache *RedisCache, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{
		MemoryMaxSize: 1000,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &LayeredCache{
		l1: NewMemoryCache(WithMemoryMaxSize(cfg.MemoryMaxSize)),
		l2: redisCache,
	}
}

// Close closes both layers.
func (c *LayeredCache) Close() error {
	err1 := c.l1.Close()
	err2 := c.l2.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

func (c *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := c.l2.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	return c.l1.Set(ctx, key, value, expiration)
}

func (c *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := c.l1.Get(ctx, key, dest); err == nil {
		return nil
	}

	if err := c.l2.Get(ctx, key, dest); err != nil {
		return err
	}

	// Promote without a known TTL; L1 applies its default.
	_ = c.l1.Set(ctx, key, dest, 0)
	return nil
}

func (c *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	err1 := c.l1.Delete(ctx, keys...)
	err2 := c.l2.Delete(ctx, keys...)
	if err1 != nil {
		return err1
	}
	return err2
}

func (c *LayeredCache) DeleteByPattern(ctx context.Context, pattern string) error {
	err1 := c.l1.DeleteByPattern(ctx, pattern)
	err2 := c.l2.DeleteByPattern(ctx, pattern)
	if err1 != nil {
		return err1
	}
	return err2
}

func (c *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	if ok, err := c.l1.Exists(ctx, keys...); err == nil && ok {
		return true, nil
	}
	return c.l2.Exists(ctx, keys...)
}

// TryLock delegates to L2 only: locks must be shared across processes.
func (c *LayeredCache) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.l2.TryLock(ctx, key, ttl)
}

func (c *LayeredCache) Unlock(ctx context.Context, key string) error {
	if err := c.l2.Unlock(ctx, key); err != nil && !errors.Is(err, ErrCacheMiss) {
		return err
	}
	return nil
}
