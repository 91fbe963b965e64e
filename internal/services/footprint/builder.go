package footprint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"IBPulse/internal/domain/models"
	domrepo "IBPulse/internal/domain/repository"
	applogger "IBPulse/pkg/logger"
)

// ErrUnorderedBars signals non-chronological input. The builder never
// repairs misordered timestamps; the operation fails as a whole.
var ErrUnorderedBars = errors.New("footprint: bars not in chronological order")

// DefaultMinDayBars is the minimum bar count below which a day is
// treated as a data-quality gap and skipped.
const DefaultMinDayBars = 30

// Builder turns multi-day bar input into one DailyMetricsRecord per
// tradable day, threading the previous day's extremes through the loop.
// The day loop is strictly sequential: each iteration's prior-day
// context is the previous iteration's output.
type Builder struct {
	ib         models.TimeWindow
	session    models.TimeWindow
	minDayBars int
	sink       domrepo.MetricsSink
	metrics    domrepo.Metrics
	l          *applogger.Logger
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithMinDayBars overrides the minimum bars-per-day threshold.
func WithMinDayBars(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.minDayBars = n
		}
	}
}

// WithSink attaches a sink that receives each record as it is built.
func WithSink(s domrepo.MetricsSink) BuilderOption {
	return func(b *Builder) { b.sink = s }
}

// WithMetrics attaches an operational metrics recorder.
func WithMetrics(m domrepo.Metrics) BuilderOption {
	return func(b *Builder) { b.metrics = m }
}

// WithLogger attaches a structured logger.
func WithLogger(l *applogger.Logger) BuilderOption {
	return func(b *Builder) { b.l = l }
}

// NewBuilder creates a Builder for the given IB and active-session
// windows.
func NewBuilder(ib, session models.TimeWindow, opts ...BuilderOption) *Builder {
	b := &Builder{
		ib:         ib,
		session:    session,
		minDayBars: DefaultMinDayBars,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RunParams describes one builder invocation for one instrument.
type RunParams struct {
	Symbol string
	// Bars must be chronological and already normalized to the
	// exchange's trading timezone.
	Bars []models.Bar
	// From/To clip the calendar-day range; zero values leave the
	// corresponding side unbounded. Days outside the range (picked up
	// through timezone shift at the edges) are dropped.
	From time.Time
	To   time.Time
	// Seed resumes a partial run with the last known previous-day
	// levels. Nil means no prior context.
	Seed *models.PreviousDayLevels
}

// RunResult is the outcome of a builder run.
type RunResult struct {
	Records []models.DailyMetricsRecord
	// Carried is the previous-day accumulator after the last processed
	// day, suitable as the Seed of a follow-up run.
	Carried *models.PreviousDayLevels
	Skipped int
}

// Run walks calendar days in ascending order and builds one record per
// tradable day, handing each to the sink before moving on. A day that
// cannot produce IB levels is skipped without breaking the previous-day
// chain from the last successfully processed day.
func (b *Builder) Run(ctx context.Context, p RunParams) (*RunResult, error) {
	days, err := groupByDay(p.Bars)
	if err != nil {
		return nil, err
	}

	res := &RunResult{Carried: p.Seed}
	for _, day := range days {
		date := dateOnly(day[0].Time)

		if !p.From.IsZero() && date.Before(dateOnly(p.From)) {
			continue
		}
		if !p.To.IsZero() && date.After(dateOnly(p.To)) {
			continue
		}

		rec, ok := b.BuildDay(p.Symbol, date, day, res.Carried)
		if !ok {
			res.Skipped++
			continue
		}

		if b.sink != nil {
			if err := b.sink.Store(ctx, rec); err != nil {
				return nil, fmt.Errorf("store record %s %s: %w", p.Symbol, date.Format("2006-01-02"), err)
			}
		}
		res.Records = append(res.Records, *rec)

		// Promote only after a successful build: "yesterday" is always
		// the immediately prior processed day, never a skipped one.
		high, low, _ := sliceExtremes(day)
		res.Carried = &models.PreviousDayLevels{High: high, Low: low}

		if b.metrics != nil {
			b.metrics.RecordDayProcessed(p.Symbol)
		}
	}

	if b.l != nil {
		b.l.Info("footprint run complete",
			applogger.String("symbol", p.Symbol),
			applogger.Int("records", len(res.Records)),
			applogger.Int("skipped", res.Skipped),
		)
	}
	return res, nil
}

// BuildDay turns one calendar day of bars into a metrics record.
// ok is false when the day must be skipped: weekend, too few bars, or
// an empty IB window. Skips are data-quality gaps, not errors.
func (b *Builder) BuildDay(symbol string, date time.Time, dayBars []models.Bar, prev *models.PreviousDayLevels) (*models.DailyMetricsRecord, bool) {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		b.skip(symbol, "weekend")
		return nil, false
	}

	if len(dayBars) < b.minDayBars {
		b.skip(symbol, "short_day")
		return nil, false
	}

	levels, ok := ExtractIBLevels(dayBars, b.ib)
	if !ok {
		b.skip(symbol, "empty_ib_window")
		return nil, false
	}

	postIBFull := barsAfter(dayBars, b.ib.End)
	postIBSession := barsAtOrBefore(postIBFull, b.session.End)
	afterHours := barsAfter(dayBars, b.session.End)

	sess := DetectScopeEvents(models.ScopeSession, postIBSession, levels, prev)
	full := DetectScopeEvents(models.ScopeFullDay, postIBFull, levels, prev)
	times := FindEventTimes(postIBFull, levels)

	rec := &models.DailyMetricsRecord{
		Symbol: symbol,
		Date:   date,

		IBHigh:     levels.High,
		IBLow:      levels.Low,
		IBRange:    levels.Range,
		IBRangeUSD: levels.RangeUSD,
		IBRangePct: levels.RangePct,
		IBVolume:   levels.Volume,

		TimeBreakHigh: times.BreakHigh,
		TimeBreakLow:  times.BreakLow,
		TimeHit05x:    times.Hit05x,
		TimeHit1x:     times.Hit1x,
		TimeHit2x:     times.Hit2x,

		SessionHighBroken: sess.Breakout.HighBroken,
		SessionLowBroken:  sess.Breakout.LowBroken,
		SessionExt05x:     sess.Extensions.Hit05x,
		SessionExt1x:      sess.Extensions.Hit1x,
		SessionExt2x:      sess.Extensions.Hit2x,
		SessionExtCoeff:   sess.Extensions.Coeff,
		SessionHitPDH:     sess.Priors.HitPDH,
		SessionHitPDL:     sess.Priors.HitPDL,
		SessionHitIBMid:   sess.MidRetest,

		FullHighBroken: full.Breakout.HighBroken,
		FullLowBroken:  full.Breakout.LowBroken,
		FullExt05x:     full.Extensions.Hit05x,
		FullExt1x:      full.Extensions.Hit1x,
		FullExt2x:      full.Extensions.Hit2x,
		FullExtCoeff:   full.Extensions.Coeff,
		FullHitPDH:     full.Priors.HitPDH,
		FullHitPDL:     full.Priors.HitPDL,
		FullHitIBMid:   full.MidRetest,

		PDH: full.Priors.PDH,
		PDL: full.Priors.PDL,

		AfterHoursHitIB: DetectReversion(afterHours, levels),
	}
	return rec, true
}

// SeedFromDay derives previous-day levels from one completed day's
// bars, for resuming a run where an earlier one left off.
func SeedFromDay(dayBars []models.Bar) *models.PreviousDayLevels {
	if len(dayBars) == 0 {
		return nil
	}
	high, low, _ := sliceExtremes(dayBars)
	return &models.PreviousDayLevels{High: high, Low: low}
}

func (b *Builder) skip(symbol, reason string) {
	if b.metrics != nil {
		b.metrics.RecordDaySkipped(symbol, reason)
	}
}

// groupByDay splits chronological bars into per-calendar-day runs,
// failing fast on out-of-order timestamps.
func groupByDay(bars []models.Bar) ([][]models.Bar, error) {
	var days [][]models.Bar
	for i, b := range bars {
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return nil, ErrUnorderedBars
		}
		if i == 0 || !sameDay(b.Time, bars[i-1].Time) {
			days = append(days, nil)
		}
		days[len(days)-1] = append(days[len(days)-1], b)
	}
	return days, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// dateOnly normalizes a timestamp to its calendar date at midnight UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func barsAfter(bars []models.Bar, boundary models.DayTime) []models.Bar {
	out := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		if models.DayTimeOf(b.Time).After(boundary) {
			out = append(out, b)
		}
	}
	return out
}

func barsAtOrBefore(bars []models.Bar, boundary models.DayTime) []models.Bar {
	out := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		if !models.DayTimeOf(b.Time).After(boundary) {
			out = append(out, b)
		}
	}
	return out
}
