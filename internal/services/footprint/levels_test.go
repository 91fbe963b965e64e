package footprint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IBPulse/internal/domain/models"
)

var (
	testIB      = models.TimeWindow{Start: models.DayTime{Hour: 9, Minute: 30}, End: models.DayTime{Hour: 10, Minute: 29}}
	testSession = models.TimeWindow{Start: models.DayTime{Hour: 9, Minute: 30}, End: models.DayTime{Hour: 16, Minute: 29}}
)

// testBar builds one minute bar on the given date.
func testBar(date time.Time, hh, mm int, o, h, l, c, v float64) models.Bar {
	return models.Bar{
		Time:   time.Date(date.Year(), date.Month(), date.Day(), hh, mm, 0, 0, date.Location()),
		Symbol: "TEST",
		Open:   o,
		High:   h,
		Low:    l,
		Close:  c,
		Volume: v,
	}
}

// flatDay builds n one-minute bars from 9:30, all at one price.
func flatDay(date time.Time, price float64, n int) []models.Bar {
	bars := make([]models.Bar, 0, n)
	for i := 0; i < n; i++ {
		hh := 9 + (30+i)/60
		mm := (30 + i) % 60
		bars = append(bars, testBar(date, hh, mm, price, price, price, price, 100))
	}
	return bars
}

var monday = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func TestExtractIBLevels(t *testing.T) {
	bars := []models.Bar{
		testBar(monday, 9, 30, 100, 105, 99, 104, 1000),
		testBar(monday, 10, 0, 104, 110, 100, 108, 500),
		testBar(monday, 10, 29, 108, 108, 101, 101, 250),
		// Outside the window on both sides.
		testBar(monday, 9, 29, 95, 130, 80, 95, 999),
		testBar(monday, 10, 30, 101, 130, 80, 101, 999),
	}

	levels, ok := ExtractIBLevels(bars, testIB)
	require.True(t, ok)

	assert.Equal(t, 110.0, levels.High)
	assert.Equal(t, 99.0, levels.Low)
	assert.Equal(t, 11.0, levels.Range)
	assert.Equal(t, 11.0, levels.RangeUSD)
	assert.Equal(t, 11.0, levels.RangePct) // 11 / 100 * 100
	assert.Equal(t, 1750.0, levels.Volume)
	assert.GreaterOrEqual(t, levels.High, levels.Low)
}

func TestExtractIBLevelsEmptyWindow(t *testing.T) {
	bars := []models.Bar{
		testBar(monday, 11, 0, 100, 101, 99, 100, 100),
	}

	_, ok := ExtractIBLevels(bars, testIB)
	assert.False(t, ok)
}

func TestExtractIBLevelsNoBars(t *testing.T) {
	_, ok := ExtractIBLevels(nil, testIB)
	assert.False(t, ok)
}

func TestExtractIBLevelsZeroOpen(t *testing.T) {
	bars := []models.Bar{
		testBar(monday, 9, 30, 0, 5, 0, 3, 100),
	}

	levels, ok := ExtractIBLevels(bars, testIB)
	require.True(t, ok)
	assert.Equal(t, 0.0, levels.RangePct)
}

func TestOpeningPriceFallback(t *testing.T) {
	// No bar exactly at window start: the day's first bar supplies the
	// opening price.
	bars := []models.Bar{
		testBar(monday, 9, 31, 200, 210, 190, 205, 100),
		testBar(monday, 10, 0, 205, 210, 200, 208, 100),
	}

	levels, ok := ExtractIBLevels(bars, testIB)
	require.True(t, ok)
	assert.Equal(t, 10.0, levels.RangePct) // (210-190) / 200 * 100
}
