package footprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IBPulse/internal/domain/models"
)

// ib110 is the canonical test band: high 110, low 100, range 10.
var ib110 = models.IBLevels{High: 110, Low: 100, Range: 10}

func TestDetectBreakoutStrict(t *testing.T) {
	// Touching the extreme exactly is not a breakout.
	touch := []models.Bar{testBar(monday, 11, 0, 105, 110, 100, 105, 100)}
	f := DetectBreakout(touch, ib110)
	assert.False(t, f.HighBroken)
	assert.False(t, f.LowBroken)

	above := []models.Bar{testBar(monday, 11, 0, 105, 110.01, 104, 106, 100)}
	f = DetectBreakout(above, ib110)
	assert.True(t, f.HighBroken)
	assert.False(t, f.LowBroken)

	below := []models.Bar{testBar(monday, 11, 0, 105, 106, 99.99, 100, 100)}
	f = DetectBreakout(below, ib110)
	assert.False(t, f.HighBroken)
	assert.True(t, f.LowBroken)
}

func TestDetectBreakoutEmpty(t *testing.T) {
	f := DetectBreakout(nil, ib110)
	assert.False(t, f.HighBroken)
	assert.False(t, f.LowBroken)
}

func TestDetectExtensions(t *testing.T) {
	// High 116 reaches the upper 0.5x target (115) but not 1x (120).
	bars := []models.Bar{testBar(monday, 11, 0, 110, 116, 105, 112, 100)}

	hits := DetectExtensions(bars, ib110)
	assert.True(t, hits.Hit05x)
	assert.False(t, hits.Hit1x)
	assert.False(t, hits.Hit2x)
	assert.Equal(t, 0.6, hits.Coeff)
}

func TestDetectExtensionsDownside(t *testing.T) {
	// Low 79 is below the lower 2x target (80).
	bars := []models.Bar{testBar(monday, 11, 0, 100, 101, 79, 80, 100)}

	hits := DetectExtensions(bars, ib110)
	assert.True(t, hits.Hit05x)
	assert.True(t, hits.Hit1x)
	assert.True(t, hits.Hit2x)
	assert.Equal(t, 2.1, hits.Coeff)
}

func TestDetectExtensionsEmpty(t *testing.T) {
	hits := DetectExtensions(nil, ib110)
	assert.Equal(t, ExtensionHits{}, hits)
}

func TestDetectExtensionsZeroRange(t *testing.T) {
	ib := models.IBLevels{High: 100, Low: 100, Range: 0}
	bars := []models.Bar{testBar(monday, 11, 0, 100, 105, 95, 100, 100)}

	hits := DetectExtensions(bars, ib)
	// Any move beyond a zero-width band reaches every projection, but
	// the coefficient stays zero rather than dividing by zero.
	assert.True(t, hits.Hit05x)
	assert.Equal(t, 0.0, hits.Coeff)
}

func TestFindEventTimesFirstTouch(t *testing.T) {
	bars := []models.Bar{
		testBar(monday, 10, 45, 108, 111, 107, 110, 100),
		testBar(monday, 11, 15, 110, 116, 109, 115, 100),
		testBar(monday, 12, 0, 115, 121, 114, 120, 100),
	}

	times := FindEventTimes(bars, ib110)
	require.NotNil(t, times.BreakHigh)
	assert.Equal(t, "10:45", *times.BreakHigh)
	require.NotNil(t, times.Hit05x)
	assert.Equal(t, "11:15", *times.Hit05x)
	require.NotNil(t, times.Hit1x)
	assert.Equal(t, "12:00", *times.Hit1x)
	assert.Nil(t, times.BreakLow)
	assert.Nil(t, times.Hit2x)
}

func TestDetectMidRetest(t *testing.T) {
	mid := 105.0

	// Breakout candle at 11:00, retest candle at 13:00 straddles mid.
	bars := []models.Bar{
		testBar(monday, 11, 0, 109, 112, 108, 111, 100),
		testBar(monday, 12, 0, 111, 113, 110, 112, 100),
		testBar(monday, 13, 0, 112, 112, mid-1, mid, 100),
	}
	assert.True(t, DetectMidRetest(bars, ib110))

	// The breakout candle itself wicks through mid: counts.
	sameCandle := []models.Bar{
		testBar(monday, 11, 0, 109, 112, 104, 111, 100),
	}
	assert.True(t, DetectMidRetest(sameCandle, ib110))

	// Price through mid before any breakout does not count.
	early := []models.Bar{
		testBar(monday, 11, 0, 105, 106, 104, 105, 100),
		testBar(monday, 12, 0, 105, 112, 108, 111, 100),
	}
	assert.False(t, DetectMidRetest(early, ib110))
}

func TestDetectMidRetestNoBreakout(t *testing.T) {
	bars := []models.Bar{testBar(monday, 11, 0, 105, 108, 103, 106, 100)}
	assert.False(t, DetectMidRetest(bars, ib110))
}

func TestDetectPriorInteraction(t *testing.T) {
	prev := &models.PreviousDayLevels{High: 115, Low: 95}

	bars := []models.Bar{testBar(monday, 11, 0, 110, 115, 100, 112, 100)}
	out := DetectPriorInteraction(bars, prev)
	require.NotNil(t, out.PDH)
	assert.Equal(t, 115.0, *out.PDH)
	require.NotNil(t, out.PDL)
	assert.Equal(t, 95.0, *out.PDL)
	assert.True(t, out.HitPDH, "touching the prior high counts")
	assert.False(t, out.HitPDL)
}

func TestDetectPriorInteractionNoContext(t *testing.T) {
	bars := []models.Bar{testBar(monday, 11, 0, 110, 120, 90, 112, 100)}
	out := DetectPriorInteraction(bars, nil)
	assert.Nil(t, out.PDH)
	assert.Nil(t, out.PDL)
	assert.False(t, out.HitPDH)
	assert.False(t, out.HitPDL)
}

func TestDetectPriorInteractionEmptySlice(t *testing.T) {
	prev := &models.PreviousDayLevels{High: 115, Low: 95}
	out := DetectPriorInteraction(nil, prev)
	require.NotNil(t, out.PDH)
	assert.False(t, out.HitPDH)
	assert.False(t, out.HitPDL)
}

func TestDetectReversion(t *testing.T) {
	// After-hours range overlaps the IB band.
	inside := []models.Bar{testBar(monday, 17, 0, 108, 109, 107, 108, 100)}
	assert.True(t, DetectReversion(inside, ib110))

	// Entirely above the band.
	above := []models.Bar{testBar(monday, 17, 0, 112, 114, 111, 113, 100)}
	assert.False(t, DetectReversion(above, ib110))

	// Wick dips back to the band edge.
	wick := []models.Bar{testBar(monday, 17, 0, 112, 114, 110, 113, 100)}
	assert.True(t, DetectReversion(wick, ib110))

	assert.False(t, DetectReversion(nil, ib110))
}

func TestDetectScopeEvents(t *testing.T) {
	bars := []models.Bar{testBar(monday, 11, 0, 110, 116, 104, 112, 100)}
	ev := DetectScopeEvents(models.ScopeSession, bars, ib110, nil)

	assert.Equal(t, models.ScopeSession, ev.Scope)
	assert.True(t, ev.Breakout.HighBroken)
	assert.True(t, ev.Extensions.Hit05x)
	assert.True(t, ev.MidRetest)
	assert.Nil(t, ev.Priors.PDH)
}
