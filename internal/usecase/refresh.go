package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"IBPulse/internal/domain/models"
	domrepo "IBPulse/internal/domain/repository"
	"IBPulse/internal/services/footprint"
	applogger "IBPulse/pkg/logger"
)

// StatsRefresher keeps the per-day metrics store current for every
// configured symbol. For each symbol it decides between three modes:
// a full recompute when the store is empty or the oldest stored row is
// missing required metric keys, an incremental append from the day
// after the newest stored row, or a no-op when the store already covers
// yesterday.
type StatsRefresher struct {
	bars         domrepo.BarSource
	store        domrepo.MetricsStore
	builder      *footprint.Builder
	metrics      domrepo.Metrics
	l            *applogger.Logger
	symbols      []string
	requiredKeys []string
	historyStart time.Time
	tz           *time.Location
	now          func() time.Time
}

// NewStatsRefresher creates a StatsRefresher instance.
func NewStatsRefresher(
	bars domrepo.BarSource,
	store domrepo.MetricsStore,
	builder *footprint.Builder,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	symbols []string,
	requiredKeys []string,
	historyStart time.Time,
	tz *time.Location,
) *StatsRefresher {
	if len(requiredKeys) == 0 {
		requiredKeys = models.RequiredMetricKeys()
	}
	if tz == nil {
		tz = time.UTC
	}
	return &StatsRefresher{
		bars:         bars,
		store:        store,
		builder:      builder,
		metrics:      metrics,
		l:            l,
		symbols:      symbols,
		requiredKeys: requiredKeys,
		historyStart: historyStart,
		tz:           tz,
		now:          time.Now,
	}
}

// RefreshAll ensures the schema exists and refreshes every configured
// symbol. A failing symbol does not stop the others; all failures come
// back joined.
func (u *StatsRefresher) RefreshAll(ctx context.Context) error {
	if err := u.store.Init(ctx); err != nil {
		return fmt.Errorf("init metrics store: %w", err)
	}

	var errs []error
	for _, symbol := range u.symbols {
		if err := u.Refresh(ctx, symbol); err != nil {
			if u.metrics != nil {
				u.metrics.RecordError("refresh_stats")
			}
			if u.l != nil {
				u.l.Error("stats refresh failed",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			errs = append(errs, fmt.Errorf("refresh %s: %w", symbol, err))
		}
	}
	return errors.Join(errs...)
}

// Refresh brings one symbol's stored metrics up to yesterday.
func (u *StatsRefresher) Refresh(ctx context.Context, symbol string) error {
	start := time.Now()
	yesterday := dateIn(u.now().In(u.tz)).AddDate(0, 0, -1)

	full, lastDate, err := u.planRun(ctx, symbol)
	if err != nil {
		return err
	}

	var (
		loadFrom time.Time // first calendar day of bars to load
		runFrom  time.Time // first day that produces records
	)
	if full {
		loadFrom = u.historyStart
		runFrom = u.historyStart
	} else {
		runFrom = lastDate.AddDate(0, 0, 1)
		if runFrom.After(yesterday) {
			if u.l != nil {
				u.l.Info("stats up to date",
					applogger.String("symbol", symbol),
					applogger.String("last_date", lastDate.Format("2006-01-02")),
				)
			}
			return nil
		}
		// Load one extra day so the first new record gets real
		// previous-day context instead of starting cold.
		loadFrom = lastDate
	}

	from := time.Date(loadFrom.Year(), loadFrom.Month(), loadFrom.Day(), 0, 0, 0, 0, u.tz)
	to := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 23, 59, 59, 0, u.tz)

	bars, err := u.bars.Bars(ctx, symbol, from.UTC(), to.UTC())
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	for i := range bars {
		bars[i].Time = bars[i].Time.In(u.tz)
	}

	var seed *models.PreviousDayLevels
	if !full {
		seed = footprint.SeedFromDay(barsOfDay(bars, lastDate))
	}

	res, err := u.builder.Run(ctx, footprint.RunParams{
		Symbol: symbol,
		Bars:   bars,
		From:   runFrom,
		To:     yesterday,
		Seed:   seed,
	})
	if err != nil {
		return err
	}

	if u.metrics != nil {
		u.metrics.RecordLatency("refresh_stats", time.Since(start).Seconds())
	}
	if u.l != nil {
		u.l.Info("stats refreshed",
			applogger.String("symbol", symbol),
			applogger.Bool("full_recalc", full),
			applogger.Int("records", len(res.Records)),
			applogger.Int("skipped", res.Skipped),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

// planRun decides between a full recompute and an incremental append.
// full is true when the store has no rows for the symbol or its oldest
// row lacks required metric keys.
func (u *StatsRefresher) planRun(ctx context.Context, symbol string) (full bool, lastDate time.Time, err error) {
	_, hasRows, err := u.store.FirstDate(ctx, symbol)
	if err != nil {
		return false, time.Time{}, fmt.Errorf("first date: %w", err)
	}
	if !hasRows {
		return true, time.Time{}, nil
	}

	oldest, err := u.store.OldestMetrics(ctx, symbol)
	if err != nil {
		return false, time.Time{}, fmt.Errorf("oldest metrics: %w", err)
	}
	if missing := missingKeys(oldest, u.requiredKeys); len(missing) > 0 {
		if u.l != nil {
			u.l.Warn("stored metrics incomplete, forcing full recompute",
				applogger.String("symbol", symbol),
				applogger.Any("missing_keys", missing),
			)
		}
		return true, time.Time{}, nil
	}

	lastDate, _, err = u.store.LastDate(ctx, symbol)
	if err != nil {
		return false, time.Time{}, fmt.Errorf("last date: %w", err)
	}
	return false, dateIn(lastDate), nil
}

func missingKeys(have map[string]json.RawMessage, required []string) []string {
	var missing []string
	for _, k := range required {
		if _, ok := have[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

func barsOfDay(bars []models.Bar, date time.Time) []models.Bar {
	var out []models.Bar
	for _, b := range bars {
		y, m, d := b.Time.Date()
		if y == date.Year() && m == date.Month() && d == date.Day() {
			out = append(out, b)
		}
	}
	return out
}

// dateIn truncates a timestamp to its calendar date at midnight UTC.
func dateIn(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
