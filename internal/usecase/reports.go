package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	domrepo "IBPulse/internal/domain/repository"
	"IBPulse/internal/services/analytics"
	applogger "IBPulse/pkg/logger"
	"IBPulse/pkg/util"
)

const reportLockTTL = 5 * time.Minute

// ReportRefresher recomputes and caches aggregated reports for every
// (symbol, period) pair. Periods reaching further back than the stored
// history are skipped, except YTD which always spans whatever exists.
type ReportRefresher struct {
	store        domrepo.MetricsStore
	cache        domrepo.ReportCache
	locker       domrepo.ReportLocker
	metrics      domrepo.Metrics
	l            *applogger.Logger
	symbols      []string
	periods      []string
	historyStart time.Time
	tz           *time.Location
	now          func() time.Time
}

// NewReportRefresher creates a ReportRefresher instance.
func NewReportRefresher(
	store domrepo.MetricsStore,
	cache domrepo.ReportCache,
	locker domrepo.ReportLocker,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	symbols []string,
	periods []string,
	historyStart time.Time,
	tz *time.Location,
) *ReportRefresher {
	if len(periods) == 0 {
		periods = util.AnalyticsPeriods
	}
	if tz == nil {
		tz = time.UTC
	}
	return &ReportRefresher{
		store:        store,
		cache:        cache,
		locker:       locker,
		metrics:      metrics,
		l:            l,
		symbols:      symbols,
		periods:      periods,
		historyStart: historyStart,
		tz:           tz,
		now:          time.Now,
	}
}

// RefreshAll rebuilds cached reports for every symbol and period. A
// failing pair does not stop the others; all failures come back joined.
func (u *ReportRefresher) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, symbol := range u.symbols {
		for _, period := range u.periods {
			if err := u.Refresh(ctx, symbol, period); err != nil {
				if u.metrics != nil {
					u.metrics.RecordError("refresh_report")
				}
				if u.l != nil {
					u.l.Error("report refresh failed",
						applogger.String("symbol", symbol),
						applogger.String("period", period),
						applogger.Error(err),
					)
				}
				errs = append(errs, fmt.Errorf("refresh %s %s: %w", symbol, period, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Refresh rebuilds one (symbol, period) report and writes it to the
// cache. The pair is guarded by a lock so concurrent refreshers never
// both recompute it; the loser skips.
func (u *ReportRefresher) Refresh(ctx context.Context, symbol, period string) error {
	today := dateIn(u.now().In(u.tz))

	from, to, err := util.ResolvePeriod(period, today, u.historyStart)
	if err != nil {
		return err
	}

	if period != "YTD" {
		first, hasRows, err := u.store.FirstDate(ctx, symbol)
		if err != nil {
			return fmt.Errorf("first date: %w", err)
		}
		if !hasRows || from.Before(dateIn(first)) {
			if u.l != nil {
				u.l.Debug("period exceeds stored history, skipping",
					applogger.String("symbol", symbol),
					applogger.String("period", period),
				)
			}
			return nil
		}
	}

	if u.locker != nil {
		ok, err := u.locker.TryLock(ctx, symbol, period, reportLockTTL)
		if err != nil {
			return fmt.Errorf("lock report: %w", err)
		}
		if !ok {
			if u.l != nil {
				u.l.Debug("report locked by another refresher, skipping",
					applogger.String("symbol", symbol),
					applogger.String("period", period),
				)
			}
			return nil
		}
		defer func() { _ = u.locker.Unlock(ctx, symbol, period) }()
	}

	start := time.Now()
	records, err := u.store.Records(ctx, symbol, from, to)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	rep, err := analytics.BuildReport(symbol, records)
	if err != nil {
		if errors.Is(err, analytics.ErrNoData) {
			if u.l != nil {
				u.l.Info("no records in period, skipping report",
					applogger.String("symbol", symbol),
					applogger.String("period", period),
				)
			}
			return nil
		}
		return err
	}

	if err := u.cache.PutReport(ctx, symbol, period, rep); err != nil {
		return err
	}

	if u.metrics != nil {
		u.metrics.RecordReportCached(symbol, period)
		u.metrics.RecordLatency("refresh_report", time.Since(start).Seconds())
	}
	if u.l != nil {
		u.l.Info("report cached",
			applogger.String("symbol", symbol),
			applogger.String("period", period),
			applogger.Int("days", rep.TotalDaysAnalyzed),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}
