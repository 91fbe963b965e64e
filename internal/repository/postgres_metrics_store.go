package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"IBPulse/internal/domain/models"
	applogger "IBPulse/pkg/logger"
)

const statisticsSchema = `
CREATE TABLE IF NOT EXISTS statistics (
    symbol  TEXT  NOT NULL,
    date    DATE  NOT NULL,
    metrics JSONB NOT NULL,
    PRIMARY KEY (symbol, date)
)`

// PGMetricsStore implements MetricsStore backed by Postgres. One row per
// (symbol, date); the record body lives in a jsonb column so metric keys
// can evolve without migrations.
type PGMetricsStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewPGMetricsStore(dsn string) (*PGMetricsStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return &PGMetricsStore{db: db}, nil
}

// SetLogger injects a structured logger.
func (s *PGMetricsStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *PGMetricsStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, statisticsSchema); err != nil {
		return fmt.Errorf("init statistics schema: %w", err)
	}
	return nil
}

func (s *PGMetricsStore) Store(ctx context.Context, rec *models.DailyMetricsRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}

	const q = `
        INSERT INTO statistics (symbol, date, metrics)
        VALUES ($1, $2, $3)
        ON CONFLICT (symbol, date) DO UPDATE SET metrics = EXCLUDED.metrics
    `
	if _, err := s.db.ExecContext(ctx, q, rec.Symbol, rec.Date, body); err != nil {
		if s.l != nil {
			s.l.Error("postgres store metrics error",
				applogger.String("symbol", rec.Symbol),
				applogger.String("date", rec.Date.Format("2006-01-02")),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store metrics: %w", err)
	}
	return nil
}

func (s *PGMetricsStore) Records(ctx context.Context, symbol string, from, to time.Time) ([]models.DailyMetricsRecord, error) {
	start := time.Now()
	const q = `
        SELECT date, metrics
        FROM statistics
        WHERE symbol = $1 AND date >= $2 AND date <= $3
        ORDER BY date ASC
    `
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("postgres records query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get records: %w", err)
	}
	defer rows.Close()

	out := make([]models.DailyMetricsRecord, 0, 256)
	for rows.Next() {
		var (
			date time.Time
			body []byte
		)
		if err := rows.Scan(&date, &body); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		var rec models.DailyMetricsRecord
		if err := json.Unmarshal(body, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal metrics for %s %s: %w", symbol, date.Format("2006-01-02"), err)
		}
		rec.Symbol = symbol
		rec.Date = date
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("postgres records ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *PGMetricsStore) FirstDate(ctx context.Context, symbol string) (time.Time, bool, error) {
	return s.boundaryDate(ctx, symbol, "MIN")
}

func (s *PGMetricsStore) LastDate(ctx context.Context, symbol string) (time.Time, bool, error) {
	return s.boundaryDate(ctx, symbol, "MAX")
}

func (s *PGMetricsStore) boundaryDate(ctx context.Context, symbol, agg string) (time.Time, bool, error) {
	q := fmt.Sprintf(`SELECT %s(date) FROM statistics WHERE symbol = $1`, agg)

	var date sql.NullTime
	if err := s.db.QueryRowContext(ctx, q, symbol).Scan(&date); err != nil {
		return time.Time{}, false, fmt.Errorf("boundary date: %w", err)
	}
	if !date.Valid {
		return time.Time{}, false, nil
	}
	return date.Time, true, nil
}

func (s *PGMetricsStore) OldestMetrics(ctx context.Context, symbol string) (map[string]json.RawMessage, error) {
	const q = `
        SELECT metrics
        FROM statistics
        WHERE symbol = $1
        ORDER BY date ASC
        LIMIT 1
    `
	var body []byte
	err := s.db.QueryRowContext(ctx, q, symbol).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("oldest metrics: %w", err)
	}

	keys := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, fmt.Errorf("unmarshal oldest metrics: %w", err)
	}
	return keys, nil
}

func (s *PGMetricsStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PGMetricsStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
