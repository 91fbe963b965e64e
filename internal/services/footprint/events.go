package footprint

import (
	"IBPulse/internal/domain/models"
	"IBPulse/pkg/util"
)

// BreakoutFlags reports whether the IB extremes were broken after the
// IB window closed.
type BreakoutFlags struct {
	HighBroken bool
	LowBroken  bool
}

// ExtensionHits reports which extension targets were reached and the
// furthest move expressed in IB-range multiples.
type ExtensionHits struct {
	Hit05x bool
	Hit1x  bool
	Hit2x  bool
	Coeff  float64
}

// PriorInteraction reports interaction with the previous day's extremes.
// PDH/PDL are nil on the first day of a run (no prior context).
type PriorInteraction struct {
	PDH    *float64
	PDL    *float64
	HitPDH bool
	HitPDL bool
}

// EventTimes holds the first-touch timestamps as HH:MM, nil when the
// event never occurred.
type EventTimes struct {
	BreakHigh *string
	BreakLow  *string
	Hit05x    *string
	Hit1x     *string
	Hit2x     *string
}

// ScopeEvents bundles the per-scope flags the builder stamps into a
// record, tagged with the scope they were computed for.
type ScopeEvents struct {
	Scope      models.Scope
	Breakout   BreakoutFlags
	Extensions ExtensionHits
	Priors     PriorInteraction
	MidRetest  bool
}

// DetectScopeEvents runs the full event battery once for a given scope.
// postIB must hold only bars strictly after the IB window end, already
// clipped to the scope's horizon.
func DetectScopeEvents(scope models.Scope, postIB []models.Bar, ib models.IBLevels, prev *models.PreviousDayLevels) ScopeEvents {
	return ScopeEvents{
		Scope:      scope,
		Breakout:   DetectBreakout(postIB, ib),
		Extensions: DetectExtensions(postIB, ib),
		Priors:     DetectPriorInteraction(postIB, prev),
		MidRetest:  DetectMidRetest(postIB, ib),
	}
}

// DetectBreakout checks whether any post-IB bar traded beyond the IB
// extremes. An empty slice means no breakout.
func DetectBreakout(postIB []models.Bar, ib models.IBLevels) BreakoutFlags {
	var f BreakoutFlags
	for _, b := range postIB {
		if b.High > ib.High {
			f.HighBroken = true
		}
		if b.Low < ib.Low {
			f.LowBroken = true
		}
		if f.HighBroken && f.LowBroken {
			break
		}
	}
	return f
}

// DetectExtensions checks the 0.5x/1x/2x range-projection targets in
// either direction and computes the extension coefficient. A zero IB
// range or an empty slice yields a zero coefficient and no hits.
func DetectExtensions(postIB []models.Bar, ib models.IBLevels) ExtensionHits {
	high, low, ok := sliceExtremes(postIB)
	if !ok {
		return ExtensionHits{}
	}

	hits := ExtensionHits{
		Hit05x: high >= ib.High+0.5*ib.Range || low <= ib.Low-0.5*ib.Range,
		Hit1x:  high >= ib.High+ib.Range || low <= ib.Low-ib.Range,
		Hit2x:  high >= ib.High+2*ib.Range || low <= ib.Low-2*ib.Range,
	}

	if ib.Range != 0 {
		extUp := max(0, high-ib.High)
		extDown := max(0, ib.Low-low)
		hits.Coeff = util.RoundTo(max(extUp, extDown)/ib.Range, 2)
	}
	return hits
}

// FindEventTimes scans chronologically for the first bar satisfying
// each breakout and target condition. A single bar reaching both the
// upper and lower side of a target still counts as one event at that
// bar's time.
func FindEventTimes(postIB []models.Bar, ib models.IBLevels) EventTimes {
	var t EventTimes
	for _, b := range postIB {
		clock := b.Time.Format("15:04")
		if t.BreakHigh == nil && b.High > ib.High {
			t.BreakHigh = strPtr(clock)
		}
		if t.BreakLow == nil && b.Low < ib.Low {
			t.BreakLow = strPtr(clock)
		}
		if t.Hit05x == nil && (b.High >= ib.High+0.5*ib.Range || b.Low <= ib.Low-0.5*ib.Range) {
			t.Hit05x = strPtr(clock)
		}
		if t.Hit1x == nil && (b.High >= ib.High+ib.Range || b.Low <= ib.Low-ib.Range) {
			t.Hit1x = strPtr(clock)
		}
		if t.Hit2x == nil && (b.High >= ib.High+2*ib.Range || b.Low <= ib.Low-2*ib.Range) {
			t.Hit2x = strPtr(clock)
		}
	}
	return t
}

// DetectMidRetest reports whether price traded back through the IB
// midpoint at or after the first breakout candle. The breakout candle
// itself participates, which catches same-candle wick rejections.
func DetectMidRetest(postIB []models.Bar, ib models.IBLevels) bool {
	mid := (ib.High + ib.Low) / 2

	first := -1
	for i, b := range postIB {
		if b.High > ib.High || b.Low < ib.Low {
			first = i
			break
		}
	}
	if first < 0 {
		return false
	}

	for _, b := range postIB[first:] {
		if b.Low <= mid && b.High >= mid {
			return true
		}
	}
	return false
}

// DetectPriorInteraction checks whether the period's range swept the
// previous day's high or low. With no prior context both flags are
// false and the levels stay absent.
func DetectPriorInteraction(slice []models.Bar, prev *models.PreviousDayLevels) PriorInteraction {
	if prev == nil {
		return PriorInteraction{}
	}

	out := PriorInteraction{
		PDH: floatPtr(prev.High),
		PDL: floatPtr(prev.Low),
	}
	high, low, ok := sliceExtremes(slice)
	if !ok {
		return out
	}
	out.HitPDH = high >= prev.High
	out.HitPDL = low <= prev.Low
	return out
}

// DetectReversion reports whether the after-hours range overlapped the
// IB band at all. An empty slice means no reversion.
func DetectReversion(afterHours []models.Bar, ib models.IBLevels) bool {
	high, low, ok := sliceExtremes(afterHours)
	if !ok {
		return false
	}
	return low <= ib.High && high >= ib.Low
}

func sliceExtremes(bars []models.Bar) (high, low float64, ok bool) {
	for i, b := range bars {
		if i == 0 || b.High > high {
			high = b.High
		}
		if i == 0 || b.Low < low {
			low = b.Low
		}
	}
	return high, low, len(bars) > 0
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
