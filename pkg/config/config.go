package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"IBPulse/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`

	Market struct {
		Symbols []string `yaml:"symbols" validate:"required,min=1"`
		// Trading timezone all bar timestamps are normalized to.
		Timezone     string `yaml:"timezone" default:"America/New_York"`
		IBStart      string `yaml:"ib_start_time" default:"9:30"`
		IBEnd        string `yaml:"ib_end_time" default:"10:29"`
		SessionStart string `yaml:"session_start_time" default:"9:30"`
		SessionEnd   string `yaml:"session_end_time" default:"16:29"`
		MinDayBars   int    `yaml:"min_day_bars" default:"30" validate:"gt=0"`
		HistoryStart string `yaml:"full_history_start_date" default:"2020-01-01"`
		// Metric keys a stored record must carry; empty means the
		// built-in default set. Stored rows missing any key trigger a
		// full recompute for the symbol.
		RequiredKeys []string `yaml:"required_keys"`
	} `yaml:"market"`

	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost" validate:"required"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"ibpulse"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		BarsTable        string        `yaml:"bars_table" default:"candles_1m"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`

	Postgres struct {
		Host     string `yaml:"host" default:"localhost" validate:"required"`
		Port     int    `yaml:"port" default:"5432"`
		Database string `yaml:"database" default:"ibpulse"`
		User     string `yaml:"user" default:"ibpulse"`
		Password string `yaml:"password"`
		SSLMode  string `yaml:"ssl_mode" default:"disable"`
	} `yaml:"postgres"`

	Redis struct {
		Enabled  bool          `yaml:"enabled"`
		Host     string        `yaml:"host" default:"localhost"`
		Port     int           `yaml:"port" default:"6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		Prefix   string        `yaml:"prefix" default:"ibpulse"`
		TTL      time.Duration `yaml:"ttl"` // zero = no expiry
	} `yaml:"redis"`

	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"ibpulse.daily-metrics"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`

	Reports struct {
		// Period names to precompute per symbol; empty means the full
		// built-in catalog.
		Periods []string `yaml:"periods"`
	} `yaml:"reports"`
}

// Load reads a YAML configuration file, applies struct defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Market.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("MIN_DAY_BARS"); v != "" {
		c.Market.MinDayBars = util.ParseIntDefault(v, c.Market.MinDayBars)
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		c.Postgres.Host = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		c.Postgres.Password = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

// Validate checks the configuration beyond struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if _, ok := util.ParseDate(c.Market.HistoryStart); !ok {
		return fmt.Errorf("market.full_history_start_date: invalid date %q", c.Market.HistoryStart)
	}
	return nil
}

// HistoryStartDate returns the configured first day of collected
// history. Validate guarantees the format.
func (c *Config) HistoryStartDate() time.Time {
	t, _ := util.ParseDate(c.Market.HistoryStart)
	return t
}

// ReportPeriods returns the configured period catalog, falling back to
// the built-in list.
func (c *Config) ReportPeriods() []string {
	if len(c.Reports.Periods) > 0 {
		return c.Reports.Periods
	}
	return util.AnalyticsPeriods
}
