package models

import "time"

// IBLevels describes the price range established during the Initial
// Balance window of one trading day.
type IBLevels struct {
	High     float64
	Low      float64
	Range    float64
	RangeUSD float64
	RangePct float64
	Volume   float64
}

// PreviousDayLevels carries the prior trading day's full-day extremes
// across the day loop. A nil pointer means no prior context.
type PreviousDayLevels struct {
	High float64
	Low  float64
}

// DailyMetricsRecord is the per-(symbol, date) behavioral fingerprint.
// JSON tags are the persisted metric key names. Pointer fields
// serialize as null when absent so that every key stays present; the
// integrity checker relies on key presence, not value.
type DailyMetricsRecord struct {
	Symbol string    `json:"-"`
	Date   time.Time `json:"-"`

	IBHigh     float64 `json:"ib_high"`
	IBLow      float64 `json:"ib_low"`
	IBRange    float64 `json:"ib_range"`
	IBRangeUSD float64 `json:"ib_range_usd"`
	IBRangePct float64 `json:"ib_range_pct"`
	IBVolume   float64 `json:"ib_vol"`

	TimeBreakHigh *string `json:"time_break_high"`
	TimeBreakLow  *string `json:"time_break_low"`
	TimeHit05x    *string `json:"time_hit_05x"`
	TimeHit1x     *string `json:"time_hit_1x"`
	TimeHit2x     *string `json:"time_hit_2x"`

	SessionHighBroken bool    `json:"session_high_broken"`
	SessionLowBroken  bool    `json:"session_low_broken"`
	SessionExt05x     bool    `json:"session_ext_05x"`
	SessionExt1x      bool    `json:"session_ext_1x"`
	SessionExt2x      bool    `json:"session_ext_2x"`
	SessionExtCoeff   float64 `json:"session_ext_coeff"`
	SessionHitPDH     bool    `json:"session_hit_pdh"`
	SessionHitPDL     bool    `json:"session_hit_pdl"`
	SessionHitIBMid   bool    `json:"session_hit_ib_mid"`

	FullHighBroken bool    `json:"full_high_broken"`
	FullLowBroken  bool    `json:"full_low_broken"`
	FullExt05x     bool    `json:"full_ext_05x"`
	FullExt1x      bool    `json:"full_ext_1x"`
	FullExt2x      bool    `json:"full_ext_2x"`
	FullExtCoeff   float64 `json:"full_ext_coeff"`
	FullHitPDH     bool    `json:"full_hit_pdh"`
	FullHitPDL     bool    `json:"full_hit_pdl"`
	FullHitIBMid   bool    `json:"full_hit_ib_mid"`

	PDH *float64 `json:"pdh"`
	PDL *float64 `json:"pdl"`

	AfterHoursHitIB bool `json:"after_hours_hit_ib"`
}

// Weekday returns the record date's weekday name, e.g. "Monday".
func (r *DailyMetricsRecord) Weekday() string { return r.Date.Weekday().String() }

// RequiredMetricKeys returns the default set of metric keys a stored
// record must carry to be considered complete. A stored row missing
// any of these triggers a full recompute for its symbol.
func RequiredMetricKeys() []string {
	return []string{
		"ib_high",
		"ib_low",
		"ib_range",
		"ib_range_usd",
		"ib_range_pct",
		"ib_vol",

		"session_high_broken",
		"session_low_broken",
		"session_ext_05x",
		"session_ext_1x",
		"session_ext_2x",
		"session_ext_coeff",
		"session_hit_pdh",
		"session_hit_pdl",
		"session_hit_ib_mid",

		"full_high_broken",
		"full_low_broken",
		"full_ext_05x",
		"full_ext_1x",
		"full_ext_2x",
		"full_ext_coeff",
		"full_hit_pdh",
		"full_hit_pdl",
		"full_hit_ib_mid",

		"pdh",
		"pdl",
		"after_hours_hit_ib",
		"time_break_high",
		"time_break_low",
		"time_hit_05x",
		"time_hit_1x",
		"time_hit_2x",
	}
}
