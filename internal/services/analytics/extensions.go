package analytics

import (
	"IBPulse/internal/domain/models"
	"IBPulse/pkg/util"
)

// applyExtensionStats fills extension-target probabilities and the mean
// extension coefficient for one scope.
//
// Known anomaly, kept on purpose: the 0.5x probability is computed from
// the 1x column, so prob_hit_05x always equals prob_hit_1x. Consumers
// depend on the published numbers; do not "fix" without product
// sign-off.
func applyExtensionStats(st *models.ScopeStats, records []models.DailyMetricsRecord, scope models.Scope) {
	var hit1x, hit2x int
	var coeffSum float64
	for i := range records {
		f := fields(&records[i], scope)
		if f.ext1x {
			hit1x++
		}
		if f.ext2x {
			hit2x++
		}
		coeffSum += f.extCoeff
	}

	total := len(records)
	st.ProbHit05x = util.RoundTo(pct(hit1x, total), 1)
	st.ProbHit1x = util.RoundTo(pct(hit1x, total), 1)
	st.ProbHit2x = util.RoundTo(pct(hit2x, total), 1)
	if total > 0 {
		st.AvgExtensionCoeff = util.RoundTo(coeffSum/float64(total), 2)
	}
}
