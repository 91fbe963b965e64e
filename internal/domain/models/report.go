package models

// WeekdayOrder is the fixed calendar order of the seasonality grids.
// Every weekday map in a report carries exactly these five keys.
var WeekdayOrder = [5]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// WeekdayChop is the two-sided (choppy) day probability for one weekday.
type WeekdayChop struct {
	TwoSidedProb  float64 `json:"two_sided_prob"`
	SessionsCount int     `json:"sessions_count"`
}

// WeekdayTargets holds extension-target hit probabilities for one weekday.
type WeekdayTargets struct {
	Hit05xProb float64 `json:"hit_05x_prob"`
	Hit1xProb  float64 `json:"hit_1x_prob"`
	Hit2xProb  float64 `json:"hit_2x_prob"`
}

// WeekdayTargetsClean is WeekdayTargets restricted to non-choppy days.
type WeekdayTargetsClean struct {
	Hit05xProb         float64 `json:"hit_05x_prob"`
	Hit1xProb          float64 `json:"hit_1x_prob"`
	Hit2xProb          float64 `json:"hit_2x_prob"`
	CleanSessionsCount int     `json:"clean_sessions_count"`
}

// TimeHeatmap maps "HH:MM" bucket starts to that bucket's share of all
// events for one event type, in percent. The grid is dense: every
// 30-minute bucket of the scope is present, zero-filled when empty.
type TimeHeatmap map[string]float64

// ScopeStats is the probability block computed independently for the
// session and full-day horizons.
type ScopeStats struct {
	BreakHighChance  float64 `json:"break_high_chance"`
	BreakLowChance   float64 `json:"break_low_chance"`
	OneSidedChance   float64 `json:"one_sided_chance"`
	TwoSidedChance   float64 `json:"two_sided_chance"`
	NoBreakoutChance float64 `json:"no_breakout_chance"`

	ProbHit05x        float64 `json:"prob_hit_05x"`
	ProbHit1x         float64 `json:"prob_hit_1x"`
	ProbHit2x         float64 `json:"prob_hit_2x"`
	AvgExtensionCoeff float64 `json:"avg_extension_coeff"`

	ProbHitPDH         float64 `json:"prob_hit_pdh"`
	ProbHitPDL         float64 `json:"prob_hit_pdl"`
	ProbPDHIfIBHBroken float64 `json:"prob_pdh_if_ibh_broken"`
	ProbPDLIfIBLBroken float64 `json:"prob_pdl_if_ibl_broken"`

	WeekdayChop         map[string]WeekdayChop         `json:"weekday_chop"`
	WeekdayTargets      map[string]WeekdayTargets      `json:"weekday_targets"`
	WeekdayTargetsClean map[string]WeekdayTargetsClean `json:"weekday_targets_clean"`

	ProbIBMidRetest float64 `json:"prob_ib_mid_retest"`

	TimeHeatmap      map[string]TimeHeatmap `json:"time_heatmap"`
	TimeHeatmapClean map[string]TimeHeatmap `json:"time_heatmap_clean"`
}

// AggregatedReport is the full probability report for one
// (symbol, period) pair. It is always rebuilt from scratch from the
// record set it covers, never patched in place.
type AggregatedReport struct {
	Symbol            string `json:"symbol"`
	TotalDaysAnalyzed int    `json:"total_days_analyzed"`
	PeriodStart       string `json:"period_start"`
	PeriodEnd         string `json:"period_end"`

	ProbReturnToIBAfterSession float64 `json:"prob_return_to_ib_after_session"`

	AvgIBRangeUSD float64 `json:"avg_ib_range_usd"`
	AvgIBRangePct float64 `json:"avg_ib_range_pct"`
	AvgIBVolume   int     `json:"avg_ib_volume"`

	Session ScopeStats `json:"session"`
	FullDay ScopeStats `json:"full_day"`
}
