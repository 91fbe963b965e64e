package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"IBPulse/internal/domain/models"
	pkgcache "IBPulse/pkg/cache"
)

// ErrReportNotFound signals a missing (symbol, period) report.
var ErrReportNotFound = errors.New("report not found")

// CacheReportCache implements ReportCache and ReportLocker on top of a
// cache.Service, so the same adapter works against Redis, memory, or the
// layered combination. Keys follow the analytics:{symbol}:{period} shape.
type CacheReportCache struct {
	cache pkgcache.Service
	ttl   time.Duration
}

func NewCacheReportCache(cache pkgcache.Service, ttl time.Duration) *CacheReportCache {
	return &CacheReportCache{cache: cache, ttl: ttl}
}

func (c *CacheReportCache) PutReport(ctx context.Context, symbol, period string, rep *models.AggregatedReport) error {
	key := pkgcache.GenerateKeyWithParams("analytics", symbol, period)
	if err := c.cache.Set(ctx, key, rep, c.ttl); err != nil {
		return fmt.Errorf("put report %s: %w", key, err)
	}
	return nil
}

func (c *CacheReportCache) GetReport(ctx context.Context, symbol, period string) (*models.AggregatedReport, error) {
	key := pkgcache.GenerateKeyWithParams("analytics", symbol, period)

	var rep models.AggregatedReport
	if err := c.cache.Get(ctx, key, &rep); err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("get report %s: %w", key, err)
	}
	return &rep, nil
}

func (c *CacheReportCache) TryLock(ctx context.Context, symbol, period string, ttl time.Duration) (bool, error) {
	return c.cache.TryLock(ctx, lockKey(symbol, period), ttl)
}

func (c *CacheReportCache) Unlock(ctx context.Context, symbol, period string) error {
	return c.cache.Unlock(ctx, lockKey(symbol, period))
}

func (c *CacheReportCache) Close() error {
	return c.cache.Close()
}

func lockKey(symbol, period string) string {
	return pkgcache.GenerateKeyWithParams("lock:analytics", symbol, period)
}
