package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "IBPulse/internal/domain/repository"
	"IBPulse/internal/usecase"
	"IBPulse/pkg/config"
	applogger "IBPulse/pkg/logger"
)

// App runs the extraction-then-aggregation pipeline once and exits.
// An external scheduler decides cadence; the app itself owns only one
// pass: extract per-day metrics for every symbol, then rebuild cached
// reports for every (symbol, period) pair.
type App struct {
	cfg     *config.Config
	l       *applogger.Logger
	stats   *usecase.StatsRefresher
	reports *usecase.ReportRefresher

	barSource domrepo.BarSource
	store     domrepo.MetricsStore
	cache     domrepo.ReportCache
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	stats *usecase.StatsRefresher,
	reports *usecase.ReportRefresher,
	barSource domrepo.BarSource,
	store domrepo.MetricsStore,
	cache domrepo.ReportCache,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		stats:     stats,
		reports:   reports,
		barSource: barSource,
		store:     store,
		cache:     cache,
	}
}

// Run executes one pipeline pass. An interrupt cancels the in-flight
// stage; whatever was already stored stays stored.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			a.l.Warn("shutdown signal received, cancelling run")
			cancel()
		case <-ctx.Done():
		}
	}()

	defer a.close()

	start := time.Now()
	a.l.Info("pipeline run starting",
		applogger.Strings("symbols", a.cfg.Market.Symbols),
		applogger.String("environment", a.cfg.Environment),
	)

	if err := a.stats.RefreshAll(ctx); err != nil {
		a.l.Error("stats stage finished with errors", applogger.Error(err))
		return err
	}

	if err := a.reports.RefreshAll(ctx); err != nil {
		a.l.Error("reports stage finished with errors", applogger.Error(err))
		return err
	}

	a.l.Info("pipeline run complete",
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

func (a *App) close() {
	a.l.RemoveCollector()
	if a.barSource != nil {
		if err := a.barSource.Close(); err != nil {
			a.l.Warn("bar source close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.l.Warn("metrics store close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.l.Warn("report cache close error", applogger.Error(err))
		}
	}
}
