package analytics

import (
	"IBPulse/internal/domain/models"
	"IBPulse/pkg/util"
)

// applyPriorStats fills prior-day-level statistics for one scope.
// Rows without prior context (the first day of a run has no pdh) are
// dropped before any denominator is taken.
func applyPriorStats(st *models.ScopeStats, records []models.DailyMetricsRecord, scope models.Scope) {
	var valid, hitPDH, hitPDL int
	var ibhBroken, pdhGivenIBH int
	var iblBroken, pdlGivenIBL int

	for i := range records {
		r := &records[i]
		if r.PDH == nil {
			continue
		}
		valid++

		f := fields(r, scope)
		if f.hitPDH {
			hitPDH++
		}
		if f.hitPDL {
			hitPDL++
		}

		// Conversion rate: breakout first, then the prior level.
		if f.highBroken {
			ibhBroken++
			if f.hitPDH {
				pdhGivenIBH++
			}
		}
		if f.lowBroken {
			iblBroken++
			if f.hitPDL {
				pdlGivenIBL++
			}
		}
	}

	if valid == 0 {
		return
	}

	st.ProbHitPDH = util.RoundTo(pct(hitPDH, valid), 1)
	st.ProbHitPDL = util.RoundTo(pct(hitPDL, valid), 1)
	st.ProbPDHIfIBHBroken = util.RoundTo(pct(pdhGivenIBH, ibhBroken), 1)
	st.ProbPDLIfIBLBroken = util.RoundTo(pct(pdlGivenIBL, iblBroken), 1)
}
