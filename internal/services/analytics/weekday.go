package analytics

import (
	"IBPulse/internal/domain/models"
	"IBPulse/pkg/util"
)

// weekdayChopStats groups two-sided days by weekday. Every weekday
// Monday..Friday is present; weekdays with no rows report 0% over a
// zero sample.
func weekdayChopStats(records []models.DailyMetricsRecord, scope models.Scope) map[string]models.WeekdayChop {
	counts := make(map[string]int, 5)
	chops := make(map[string]int, 5)
	for i := range records {
		wd := records[i].Weekday()
		counts[wd]++
		if fields(&records[i], scope).chop() {
			chops[wd]++
		}
	}

	out := make(map[string]models.WeekdayChop, 5)
	for _, wd := range models.WeekdayOrder {
		out[wd] = models.WeekdayChop{
			TwoSidedProb:  util.RoundTo(pct(chops[wd], counts[wd]), 1),
			SessionsCount: counts[wd],
		}
	}
	return out
}

// weekdayTargetStats groups extension-target hit rates by weekday over
// all rows of the scope.
func weekdayTargetStats(records []models.DailyMetricsRecord, scope models.Scope) map[string]models.WeekdayTargets {
	agg := newWeekdayTargetAgg()
	for i := range records {
		agg.add(records[i].Weekday(), fields(&records[i], scope))
	}

	out := make(map[string]models.WeekdayTargets, 5)
	for _, wd := range models.WeekdayOrder {
		out[wd] = models.WeekdayTargets{
			Hit05xProb: agg.prob05x(wd),
			Hit1xProb:  agg.prob1x(wd),
			Hit2xProb:  agg.prob2x(wd),
		}
	}
	return out
}

// weekdayTargetCleanStats is weekdayTargetStats restricted to rows
// where the scope did not break both IB sides.
func weekdayTargetCleanStats(records []models.DailyMetricsRecord, scope models.Scope) map[string]models.WeekdayTargetsClean {
	agg := newWeekdayTargetAgg()
	for i := range records {
		f := fields(&records[i], scope)
		if f.chop() {
			continue
		}
		agg.add(records[i].Weekday(), f)
	}

	out := make(map[string]models.WeekdayTargetsClean, 5)
	for _, wd := range models.WeekdayOrder {
		out[wd] = models.WeekdayTargetsClean{
			Hit05xProb:         agg.prob05x(wd),
			Hit1xProb:          agg.prob1x(wd),
			Hit2xProb:          agg.prob2x(wd),
			CleanSessionsCount: agg.counts[wd],
		}
	}
	return out
}

type weekdayTargetAgg struct {
	counts map[string]int
	hit05x map[string]int
	hit1x  map[string]int
	hit2x  map[string]int
}

func newWeekdayTargetAgg() *weekdayTargetAgg {
	return &weekdayTargetAgg{
		counts: make(map[string]int, 5),
		hit05x: make(map[string]int, 5),
		hit1x:  make(map[string]int, 5),
		hit2x:  make(map[string]int, 5),
	}
}

func (a *weekdayTargetAgg) add(wd string, f scoped) {
	a.counts[wd]++
	if f.ext05x {
		a.hit05x[wd]++
	}
	if f.ext1x {
		a.hit1x[wd]++
	}
	if f.ext2x {
		a.hit2x[wd]++
	}
}

func (a *weekdayTargetAgg) prob05x(wd string) float64 {
	return util.RoundTo(pct(a.hit05x[wd], a.counts[wd]), 1)
}

func (a *weekdayTargetAgg) prob1x(wd string) float64 {
	return util.RoundTo(pct(a.hit1x[wd], a.counts[wd]), 1)
}

func (a *weekdayTargetAgg) prob2x(wd string) float64 {
	return util.RoundTo(pct(a.hit2x[wd], a.counts[wd]), 1)
}
