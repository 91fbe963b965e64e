package analytics

import (
	"errors"

	"IBPulse/internal/domain/models"
	"IBPulse/pkg/util"
)

// ErrNoData signals an empty input record set; no report can be built.
var ErrNoData = errors.New("analytics: no records in range")

// BuildReport reduces a date-bounded set of daily metrics records for
// one symbol into a full probability report. Input records are never
// mutated; the report is always rebuilt whole.
func BuildReport(symbol string, records []models.DailyMetricsRecord) (*models.AggregatedReport, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	start, end := records[0].Date, records[0].Date
	for _, r := range records[1:] {
		if r.Date.Before(start) {
			start = r.Date
		}
		if r.Date.After(end) {
			end = r.Date
		}
	}

	rep := &models.AggregatedReport{
		Symbol:            symbol,
		TotalDaysAnalyzed: len(records),
		PeriodStart:       start.Format("2006-01-02"),
		PeriodEnd:         end.Format("2006-01-02"),

		ProbReturnToIBAfterSession: reversionProb(records),
	}
	applyRangeVolumeStats(rep, records)
	rep.Session = scopeStats(records, models.ScopeSession)
	rep.FullDay = scopeStats(records, models.ScopeFullDay)

	return rep, nil
}

// scopeStats computes the full per-scope block. All denominators are
// the filtered row counts of the respective statistic, never the raw
// input size.
func scopeStats(records []models.DailyMetricsRecord, scope models.Scope) models.ScopeStats {
	var st models.ScopeStats
	applyBreakoutStats(&st, records, scope)
	applyExtensionStats(&st, records, scope)
	applyPriorStats(&st, records, scope)
	applyRetestStats(&st, records, scope)

	st.WeekdayChop = weekdayChopStats(records, scope)
	st.WeekdayTargets = weekdayTargetStats(records, scope)
	st.WeekdayTargetsClean = weekdayTargetCleanStats(records, scope)

	st.TimeHeatmap = timeHeatmaps(records, scope, false)
	st.TimeHeatmapClean = timeHeatmaps(records, scope, true)
	return st
}

// scoped is one record's field group for a given scope, so every
// statistic is written once and parameterized by the scope enum.
type scoped struct {
	highBroken bool
	lowBroken  bool
	ext05x     bool
	ext1x      bool
	ext2x      bool
	extCoeff   float64
	hitPDH     bool
	hitPDL     bool
	hitIBMid   bool
}

func fields(r *models.DailyMetricsRecord, scope models.Scope) scoped {
	if scope == models.ScopeSession {
		return scoped{
			highBroken: r.SessionHighBroken,
			lowBroken:  r.SessionLowBroken,
			ext05x:     r.SessionExt05x,
			ext1x:      r.SessionExt1x,
			ext2x:      r.SessionExt2x,
			extCoeff:   r.SessionExtCoeff,
			hitPDH:     r.SessionHitPDH,
			hitPDL:     r.SessionHitPDL,
			hitIBMid:   r.SessionHitIBMid,
		}
	}
	return scoped{
		highBroken: r.FullHighBroken,
		lowBroken:  r.FullLowBroken,
		ext05x:     r.FullExt05x,
		ext1x:      r.FullExt1x,
		ext2x:      r.FullExt2x,
		extCoeff:   r.FullExtCoeff,
		hitPDH:     r.FullHitPDH,
		hitPDL:     r.FullHitPDL,
		hitIBMid:   r.FullHitIBMid,
	}
}

// chop reports a two-sided (choppy) day for the scope.
func (s scoped) chop() bool { return s.highBroken && s.lowBroken }

func reversionProb(records []models.DailyMetricsRecord) float64 {
	hits := 0
	for i := range records {
		if records[i].AfterHoursHitIB {
			hits++
		}
	}
	return util.RoundTo(pct(hits, len(records)), 1)
}

func applyRangeVolumeStats(rep *models.AggregatedReport, records []models.DailyMetricsRecord) {
	var usd, p, vol float64
	for i := range records {
		usd += records[i].IBRangeUSD
		p += records[i].IBRangePct
		vol += records[i].IBVolume
	}
	n := float64(len(records))
	rep.AvgIBRangeUSD = util.RoundTo(usd/n, 2)
	rep.AvgIBRangePct = util.RoundTo(p/n, 3)
	rep.AvgIBVolume = int(vol / n)
}

// pct is count/total in percent; 0 when the denominator is empty.
func pct(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
