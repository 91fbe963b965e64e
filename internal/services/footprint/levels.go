package footprint

import (
	"IBPulse/internal/domain/models"
	"IBPulse/pkg/util"
)

// ExtractIBLevels computes the Initial Balance levels from one trading
// day's bars. The window filter is inclusive on both ends; volume
// aggregation deliberately shares that boundary even though breakout
// detection downstream is exclusive-start. ok is false when the IB
// window holds no bars, which tells the caller to skip the day.
func ExtractIBLevels(dayBars []models.Bar, ibWindow models.TimeWindow) (models.IBLevels, bool) {
	var (
		high, low, volume float64
		n                 int
	)
	for _, b := range dayBars {
		if !ibWindow.Contains(models.DayTimeOf(b.Time)) {
			continue
		}
		if n == 0 || b.High > high {
			high = b.High
		}
		if n == 0 || b.Low < low {
			low = b.Low
		}
		volume += b.Volume
		n++
	}
	if n == 0 {
		return models.IBLevels{}, false
	}

	rng := high - low
	open := openingPrice(dayBars, ibWindow.Start)

	// Dead market guard: a zero opening price yields 0%, not a fault.
	pct := 0.0
	if open != 0 {
		pct = rng / open * 100
	}

	return models.IBLevels{
		High:     high,
		Low:      low,
		Range:    rng,
		RangeUSD: util.RoundTo(rng, 4),
		RangePct: util.RoundTo(pct, 4),
		Volume:   volume,
	}, true
}

// openingPrice returns the open of the bar exactly at the IB window
// start, falling back to the first available bar of the day.
func openingPrice(dayBars []models.Bar, start models.DayTime) float64 {
	for _, b := range dayBars {
		if models.DayTimeOf(b.Time) == start {
			return b.Open
		}
	}
	if len(dayBars) > 0 {
		return dayBars[0].Open
	}
	return 0
}
