package analytics

import (
	"IBPulse/internal/domain/models"
	"IBPulse/pkg/util"
)

// applyRetestStats fills the mid-range retest probability, conditional
// on a breakout having happened in the scope. No breakout days in
// range means 0%, not missing data.
func applyRetestStats(st *models.ScopeStats, records []models.DailyMetricsRecord, scope models.Scope) {
	var breakouts, retests int
	for i := range records {
		f := fields(&records[i], scope)
		if !f.highBroken && !f.lowBroken {
			continue
		}
		breakouts++
		// Extraction guarantees hitIBMid only ever fires post-breakout.
		if f.hitIBMid {
			retests++
		}
	}

	if breakouts == 0 {
		st.ProbIBMidRetest = 0
		return
	}
	st.ProbIBMidRetest = util.RoundTo(pct(retests, breakouts), 1)
}
