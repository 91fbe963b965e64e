package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
market:
  symbols: ["BTCUSDT", "ETHUSDT"]
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.Market.Symbols)
	assert.Equal(t, "America/New_York", cfg.Market.Timezone)
	assert.Equal(t, "9:30", cfg.Market.IBStart)
	assert.Equal(t, "10:29", cfg.Market.IBEnd)
	assert.Equal(t, "16:29", cfg.Market.SessionEnd)
	assert.Equal(t, 30, cfg.Market.MinDayBars)
	assert.Equal(t, "candles_1m", cfg.ClickHouse.BarsTable)
	assert.Equal(t, "ibpulse", cfg.Redis.Prefix)
	assert.Equal(t, "ibpulse.daily-metrics", cfg.Kafka.Topic)
}

func TestLoadMissingSymbols(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: production\n"))
	assert.Error(t, err)
}

func TestLoadInvalidHistoryStart(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
  full_history_start_date: "01/02/2020"
`))
	assert.Error(t, err)
}

func TestLoadKafkaEnabledRequiresBrokers(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
kafka:
  enabled: true
`))
	assert.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SYMBOLS", "SOLUSDT")
	t.Setenv("CLICKHOUSE_HOST", "ch.internal")
	t.Setenv("POSTGRES_PASSWORD", "secret")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"SOLUSDT"}, cfg.Market.Symbols)
	assert.Equal(t, "ch.internal", cfg.ClickHouse.Host)
	assert.Equal(t, "secret", cfg.Postgres.Password)
}

func TestHistoryStartDate(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), cfg.HistoryStartDate())
}

func TestReportPeriodsFallback(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, 9, len(cfg.ReportPeriods()))

	cfg.Reports.Periods = []string{"last_30_days"}
	assert.Equal(t, []string{"last_30_days"}, cfg.ReportPeriods())
}
