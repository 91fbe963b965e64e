package di

import (
	"fmt"

	"IBPulse/internal/domain/models"
	"IBPulse/internal/domain/repository"
	internalrepo "IBPulse/internal/repository"
	"IBPulse/internal/services/footprint"
	"IBPulse/internal/usecase"
	pkgcache "IBPulse/pkg/cache"
	pkgch "IBPulse/pkg/clickhouse"
	"IBPulse/pkg/config"
	pkgkafka "IBPulse/pkg/kafka"
	applogger "IBPulse/pkg/logger"
	"IBPulse/pkg/metrics"
	"IBPulse/pkg/server"

	"time"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideTimezone resolves the trading timezone.
func ProvideTimezone(cfg *config.Config) (*time.Location, error) {
	tz, err := time.LoadLocation(cfg.Market.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Market.Timezone, err)
	}
	return tz, nil
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideBarSource creates the ClickHouse-backed bar source.
func ProvideBarSource(ch *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.BarSource {
	src := internalrepo.NewCHBarSource(ch, cfg.ClickHouse.BarsTable)
	src.SetLogger(l)
	return src
}

// ProvideMetricsStore creates the Postgres metrics store.
func ProvideMetricsStore(cfg *config.Config, l *applogger.Logger) (repository.MetricsStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User,
		cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	store, err := internalrepo.NewPGMetricsStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("metrics store: %w", err)
	}
	store.SetLogger(l)
	return store, nil
}

// ProvideCacheService creates the report cache backend: a Redis-backed
// layered cache when Redis is enabled, plain in-process memory when not.
func ProvideCacheService(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}

	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// ProvideReportCache creates the report cache adapter.
func ProvideReportCache(svc pkgcache.Service, cfg *config.Config) *internalrepo.CacheReportCache {
	return internalrepo.NewCacheReportCache(svc, cfg.Redis.TTL)
}

// ProvideKafkaProducer creates a Kafka producer, nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetricsSink fans each finished record out to the store and,
// when Kafka is enabled, the record topic.
func ProvideMetricsSink(
	store repository.MetricsStore,
	producer *pkgkafka.Producer,
	cfg *config.Config,
	l *applogger.Logger,
) repository.MetricsSink {
	if producer == nil {
		return store
	}
	pub := internalrepo.NewKafkaRecordPublisher(producer, cfg.Kafka.Topic)
	pub.SetLogger(l)

	// Aggregated error logs ride the same producer.
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          cfg.Kafka.Topic + ".logs",
		Publisher:      pub,
	})

	return internalrepo.NewFanOutSink(store, pub)
}

// ProvideBuilder creates the footprint builder from the configured
// IB and active-session windows.
func ProvideBuilder(
	cfg *config.Config,
	sink repository.MetricsSink,
	m repository.Metrics,
	l *applogger.Logger,
) (*footprint.Builder, error) {
	ibStart, err := models.ParseDayTime(cfg.Market.IBStart)
	if err != nil {
		return nil, fmt.Errorf("ib start: %w", err)
	}
	ibEnd, err := models.ParseDayTime(cfg.Market.IBEnd)
	if err != nil {
		return nil, fmt.Errorf("ib end: %w", err)
	}
	sessStart, err := models.ParseDayTime(cfg.Market.SessionStart)
	if err != nil {
		return nil, fmt.Errorf("session start: %w", err)
	}
	sessEnd, err := models.ParseDayTime(cfg.Market.SessionEnd)
	if err != nil {
		return nil, fmt.Errorf("session end: %w", err)
	}

	return footprint.NewBuilder(
		models.TimeWindow{Start: ibStart, End: ibEnd},
		models.TimeWindow{Start: sessStart, End: sessEnd},
		footprint.WithMinDayBars(cfg.Market.MinDayBars),
		footprint.WithSink(sink),
		footprint.WithMetrics(m),
		footprint.WithLogger(l),
	), nil
}

// ProvideStatsRefresher creates the extraction use case.
func ProvideStatsRefresher(
	bars repository.BarSource,
	store repository.MetricsStore,
	builder *footprint.Builder,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
	tz *time.Location,
) *usecase.StatsRefresher {
	return usecase.NewStatsRefresher(
		bars,
		store,
		builder,
		m,
		l,
		cfg.Market.Symbols,
		cfg.Market.RequiredKeys,
		cfg.HistoryStartDate(),
		tz,
	)
}

// ProvideReportRefresher creates the aggregation use case.
func ProvideReportRefresher(
	store repository.MetricsStore,
	cache *internalrepo.CacheReportCache,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
	tz *time.Location,
) *usecase.ReportRefresher {
	return usecase.NewReportRefresher(
		store,
		cache,
		cache,
		m,
		l,
		cfg.Market.Symbols,
		cfg.ReportPeriods(),
		cfg.HistoryStartDate(),
		tz,
	)
}

// ProvideApp creates the application pipeline.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	stats *usecase.StatsRefresher,
	reports *usecase.ReportRefresher,
	bars repository.BarSource,
	store repository.MetricsStore,
	cache *internalrepo.CacheReportCache,
) *server.App {
	return server.New(cfg, l, stats, reports, bars, store, cache)
}
