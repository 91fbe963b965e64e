package repository

import (
	"context"
	"encoding/json"
	"time"

	"IBPulse/internal/domain/models"
)

// BarSource supplies ordered minute bars for one instrument. Bars come
// back ascending by timestamp; gaps stay gaps, never zero-filled.
type BarSource interface {
	Bars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
	Health(ctx context.Context) error
	Close() error
}

// MetricsSink receives finished daily records one at a time. Stores
// must upsert idempotently per (symbol, date); the core never retries
// or batches.
type MetricsSink interface {
	Store(ctx context.Context, rec *models.DailyMetricsRecord) error
}

// MetricsStore persists daily metrics records and serves them back for
// aggregation and integrity checking.
type MetricsStore interface {
	MetricsSink

	Init(ctx context.Context) error // ensure schema
	Records(ctx context.Context, symbol string, from, to time.Time) ([]models.DailyMetricsRecord, error)
	FirstDate(ctx context.Context, symbol string) (time.Time, bool, error)
	LastDate(ctx context.Context, symbol string) (time.Time, bool, error)
	// OldestMetrics returns the raw metric keys of the oldest stored
	// row, nil when the symbol has no rows. Key presence drives the
	// stale-record check.
	OldestMetrics(ctx context.Context, symbol string) (map[string]json.RawMessage, error)
	Health(ctx context.Context) error
	Close() error
}

// ReportCache stores one aggregated report per (symbol, period) pair.
type ReportCache interface {
	PutReport(ctx context.Context, symbol, period string, rep *models.AggregatedReport) error
	GetReport(ctx context.Context, symbol, period string) (*models.AggregatedReport, error)
	Close() error
}

// ReportLocker guards report refreshes so at most one writer works on a
// (symbol, period) pair at a time.
type ReportLocker interface {
	TryLock(ctx context.Context, symbol, period string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, symbol, period string) error
}

// Metrics records operational counters and latencies.
type Metrics interface {
	RecordDayProcessed(symbol string)
	RecordDaySkipped(symbol, reason string)
	RecordReportCached(symbol, period string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
