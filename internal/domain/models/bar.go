package models

import "time"

// Bar represents a single OHLCV minute bar for one instrument,
// timestamped in the exchange's trading timezone.
type Bar struct {
	Time   time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Scope selects which intraday horizon event detection covers.
type Scope string

const (
	ScopeSession Scope = "session"
	ScopeFullDay Scope = "full_day"
)
