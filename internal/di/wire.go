//go:build wireinject
// +build wireinject

package di

import (
	"IBPulse/pkg/config"
	"IBPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideTimezone,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCacheService,

		// Repositories
		ProvideBarSource,
		ProvideMetricsStore,
		ProvideReportCache,
		ProvideMetricsSink,

		// Core services and use cases
		ProvideBuilder,
		ProvideStatsRefresher,
		ProvideReportRefresher,

		// Application pipeline
		ProvideApp,
	)
	return &server.App{}, nil
}
