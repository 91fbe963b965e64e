package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayTime(t *testing.T) {
	d, err := ParseDayTime("9:30")
	require.NoError(t, err)
	assert.Equal(t, DayTime{Hour: 9, Minute: 30}, d)

	d, err = ParseDayTime("09:30")
	require.NoError(t, err)
	assert.Equal(t, DayTime{Hour: 9, Minute: 30}, d)

	d, err = ParseDayTime("16:29")
	require.NoError(t, err)
	assert.Equal(t, "16:29", d.String())
}

func TestParseDayTimeInvalid(t *testing.T) {
	for _, s := range []string{"", "930", "24:00", "9:60", "-1:30", "a:b"} {
		_, err := ParseDayTime(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestDayTimeString(t *testing.T) {
	assert.Equal(t, "09:02", DayTime{Hour: 9, Minute: 2}.String())
}

func TestDayTimeOf(t *testing.T) {
	ts := time.Date(2024, 7, 1, 10, 29, 59, 0, time.UTC)
	assert.Equal(t, DayTime{Hour: 10, Minute: 29}, DayTimeOf(ts))
}

func TestTimeWindowContains(t *testing.T) {
	w := TimeWindow{Start: DayTime{9, 30}, End: DayTime{10, 29}}

	assert.True(t, w.Contains(DayTime{9, 30}), "start is inclusive")
	assert.True(t, w.Contains(DayTime{10, 29}), "end is inclusive")
	assert.True(t, w.Contains(DayTime{10, 0}))
	assert.False(t, w.Contains(DayTime{9, 29}))
	assert.False(t, w.Contains(DayTime{10, 30}))
}

func TestTimeWindowIsAfter(t *testing.T) {
	w := TimeWindow{Start: DayTime{9, 30}, End: DayTime{10, 29}}

	assert.False(t, w.IsAfter(DayTime{10, 29}), "boundary bar is not post-window")
	assert.True(t, w.IsAfter(DayTime{10, 30}))
}

func TestRecordWeekday(t *testing.T) {
	r := DailyMetricsRecord{Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "Monday", r.Weekday())
}
