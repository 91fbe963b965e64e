package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	in := payload{Name: "ib_range", Value: 12.5}
	require.NoError(t, c.Set(ctx, "k", in, time.Minute))

	var out payload
	require.NoError(t, c.Get(ctx, "k", &out))
	assert.Equal(t, in, out)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	var out payload
	err := c.Get(context.Background(), "absent", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiration(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	var out string
	assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrCacheMiss)
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	c := NewMemoryCache(WithMemoryMaxSize(2))
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, time.Minute))

	// Touch "a" so "b" becomes the eviction candidate.
	var n int
	require.NoError(t, c.Get(ctx, "a", &n))

	require.NoError(t, c.Set(ctx, "c", 3, time.Minute))

	assert.NoError(t, c.Get(ctx, "a", &n))
	assert.ErrorIs(t, c.Get(ctx, "b", &n), ErrCacheMiss)
	assert.NoError(t, c.Get(ctx, "c", &n))
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "analytics:BTC:YTD", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "analytics:BTC:last_7_days", 2, time.Minute))
	require.NoError(t, c.Set(ctx, "analytics:ETH:YTD", 3, time.Minute))

	require.NoError(t, c.DeleteByPattern(ctx, "analytics:BTC:*"))

	var n int
	assert.ErrorIs(t, c.Get(ctx, "analytics:BTC:YTD", &n), ErrCacheMiss)
	assert.NoError(t, c.Get(ctx, "analytics:ETH:YTD", &n))
}

func TestMemoryCacheTryLock(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	ok, err := c.TryLock(ctx, "lock:x", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.TryLock(ctx, "lock:x", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second locker must lose")

	require.NoError(t, c.Unlock(ctx, "lock:x"))

	ok, err = c.TryLock(ctx, "lock:x", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "lock is free again after unlock")
}

func TestGenerateKeyWithParams(t *testing.T) {
	key := GenerateKeyWithParams("analytics", "BTCUSDT", "last_30_days")
	assert.Equal(t, "analytics:BTCUSDT:last_30_days", key)
}

func TestBuildPattern(t *testing.T) {
	assert.Equal(t, "analytics:BTCUSDT*", BuildPattern("analytics", "BTCUSDT"))
}
