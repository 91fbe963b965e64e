package analytics

import (
	"IBPulse/internal/domain/models"
	"IBPulse/pkg/util"
)

// applyBreakoutStats fills the breakout scenario probabilities for one
// scope. break_high/break_low are independent; two-sided, one-sided
// (XOR) and no-breakout are mutually exclusive and sum to 100%.
func applyBreakoutStats(st *models.ScopeStats, records []models.DailyMetricsRecord, scope models.Scope) {
	var high, low, twoSided, oneSided, none int
	for i := range records {
		f := fields(&records[i], scope)
		if f.highBroken {
			high++
		}
		if f.lowBroken {
			low++
		}
		switch {
		case f.highBroken && f.lowBroken:
			twoSided++
		case f.highBroken || f.lowBroken:
			oneSided++
		default:
			none++
		}
	}

	total := len(records)
	st.BreakHighChance = util.RoundTo(pct(high, total), 1)
	st.BreakLowChance = util.RoundTo(pct(low, total), 1)
	st.TwoSidedChance = util.RoundTo(pct(twoSided, total), 1)
	st.OneSidedChance = util.RoundTo(pct(oneSided, total), 1)
	st.NoBreakoutChance = util.RoundTo(pct(none, total), 1)
}
