package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"IBPulse/internal/domain/models"
	"IBPulse/internal/services/footprint"
)

var (
	histStart = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) // Monday
	monday    = histStart
	tuesday   = time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)
)

var (
	testIB      = models.TimeWindow{Start: models.DayTime{Hour: 9, Minute: 30}, End: models.DayTime{Hour: 10, Minute: 29}}
	testSession = models.TimeWindow{Start: models.DayTime{Hour: 9, Minute: 30}, End: models.DayTime{Hour: 16, Minute: 29}}
)

func bar(date time.Time, hh, mm int, o, h, l, c, v float64) models.Bar {
	return models.Bar{
		Time:   time.Date(date.Year(), date.Month(), date.Day(), hh, mm, 0, 0, time.UTC),
		Symbol: "TEST",
		Open:   o, High: h, Low: l, Close: c, Volume: v,
	}
}

// tradingDay builds 60 flat bars from 9:30 with one in-window push to ibHigh.
func tradingDay(date time.Time, price, ibHigh float64) []models.Bar {
	bars := make([]models.Bar, 0, 60)
	for i := 0; i < 60; i++ {
		hh := 9 + (30+i)/60
		mm := (30 + i) % 60
		bars = append(bars, bar(date, hh, mm, price, price, price, price, 100))
	}
	bars[10].High = ibHigh
	return bars
}

type fakeBarSource struct {
	bars  []models.Bar
	calls int
	from  time.Time
	to    time.Time
}

func (s *fakeBarSource) Bars(_ context.Context, _ string, from, to time.Time) ([]models.Bar, error) {
	s.calls++
	s.from, s.to = from, to

	out := make([]models.Bar, 0, len(s.bars))
	for _, b := range s.bars {
		if !b.Time.Before(from) && !b.Time.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBarSource) Health(context.Context) error { return nil }
func (s *fakeBarSource) Close() error                 { return nil }

type memStore struct {
	recs        map[string]map[time.Time]models.DailyMetricsRecord
	initCalled  bool
	oldestExtra func(map[string]json.RawMessage) // mutates the oldest row's keys
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[string]map[time.Time]models.DailyMetricsRecord)}
}

func (s *memStore) Init(context.Context) error {
	s.initCalled = true
	return nil
}

func (s *memStore) Store(_ context.Context, rec *models.DailyMetricsRecord) error {
	if s.recs[rec.Symbol] == nil {
		s.recs[rec.Symbol] = make(map[time.Time]models.DailyMetricsRecord)
	}
	s.recs[rec.Symbol][rec.Date] = *rec
	return nil
}

func (s *memStore) dates(symbol string) []time.Time {
	out := make([]time.Time, 0, len(s.recs[symbol]))
	for d := range s.recs[symbol] {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (s *memStore) Records(_ context.Context, symbol string, from, to time.Time) ([]models.DailyMetricsRecord, error) {
	var out []models.DailyMetricsRecord
	for _, d := range s.dates(symbol) {
		if !d.Before(from) && !d.After(to) {
			out = append(out, s.recs[symbol][d])
		}
	}
	return out, nil
}

func (s *memStore) FirstDate(_ context.Context, symbol string) (time.Time, bool, error) {
	dates := s.dates(symbol)
	if len(dates) == 0 {
		return time.Time{}, false, nil
	}
	return dates[0], true, nil
}

func (s *memStore) LastDate(_ context.Context, symbol string) (time.Time, bool, error) {
	dates := s.dates(symbol)
	if len(dates) == 0 {
		return time.Time{}, false, nil
	}
	return dates[len(dates)-1], true, nil
}

func (s *memStore) OldestMetrics(_ context.Context, symbol string) (map[string]json.RawMessage, error) {
	dates := s.dates(symbol)
	if len(dates) == 0 {
		return nil, nil
	}
	rec := s.recs[symbol][dates[0]]
	body, err := json.Marshal(&rec)
	if err != nil {
		return nil, err
	}
	keys := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, err
	}
	if s.oldestExtra != nil {
		s.oldestExtra(keys)
	}
	return keys, nil
}

func (s *memStore) Health(context.Context) error { return nil }
func (s *memStore) Close() error                 { return nil }

func newRefresher(src *fakeBarSource, store *memStore, now time.Time) *StatsRefresher {
	builder := footprint.NewBuilder(testIB, testSession, footprint.WithSink(store))
	u := NewStatsRefresher(src, store, builder, nil, nil, []string{"TEST"}, nil, histStart, time.UTC)
	u.now = func() time.Time { return now }
	return u
}

func TestRefreshFullRecalcOnEmptyStore(t *testing.T) {
	src := &fakeBarSource{bars: append(tradingDay(monday, 100, 110), tradingDay(tuesday, 100, 112)...)}
	store := newMemStore()

	// Now is Wednesday: Monday and Tuesday are complete.
	u := newRefresher(src, store, wednesday)
	require.NoError(t, u.RefreshAll(context.Background()))

	assert.True(t, store.initCalled)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, histStart, src.from, "full recalc loads from history start")

	dates := store.dates("TEST")
	require.Len(t, dates, 2)
	assert.Equal(t, monday, dates[0])
	assert.Equal(t, tuesday, dates[1])

	// Second day carries the first day's extremes.
	rec := store.recs["TEST"][tuesday]
	require.NotNil(t, rec.PDH)
	assert.Equal(t, 110.0, *rec.PDH)
}

func TestRefreshSkipsWhenUpToDate(t *testing.T) {
	src := &fakeBarSource{bars: tradingDay(monday, 100, 110)}
	store := newMemStore()

	u := newRefresher(src, store, tuesday)
	require.NoError(t, u.RefreshAll(context.Background()))
	require.Equal(t, 1, src.calls)

	// Store now covers Monday; a second run on Tuesday has nothing to do.
	require.NoError(t, u.Refresh(context.Background(), "TEST"))
	assert.Equal(t, 1, src.calls, "no bars loaded when up to date")
}

func TestRefreshAppendsFromLastDate(t *testing.T) {
	src := &fakeBarSource{bars: tradingDay(monday, 100, 110)}
	store := newMemStore()

	u := newRefresher(src, store, tuesday)
	require.NoError(t, u.RefreshAll(context.Background()))

	// Tuesday's bars arrive; on Wednesday the run appends one day.
	src.bars = append(src.bars, tradingDay(tuesday, 100, 112)...)
	u.now = func() time.Time { return wednesday }
	require.NoError(t, u.Refresh(context.Background(), "TEST"))

	dates := store.dates("TEST")
	require.Len(t, dates, 2)

	// The appended day keeps its previous-day context even though the
	// run started after Monday.
	rec := store.recs["TEST"][tuesday]
	require.NotNil(t, rec.PDH)
	assert.Equal(t, 110.0, *rec.PDH)
	assert.Equal(t, monday, src.from.In(time.UTC), "append loads one extra day for prior context")
}

func TestRefreshFullRecalcOnMissingKeys(t *testing.T) {
	src := &fakeBarSource{bars: tradingDay(monday, 100, 110)}
	store := newMemStore()

	u := newRefresher(src, store, tuesday)
	require.NoError(t, u.RefreshAll(context.Background()))
	require.Equal(t, 1, src.calls)

	// An old row without pdh marks the stored history as stale.
	store.oldestExtra = func(keys map[string]json.RawMessage) { delete(keys, "pdh") }
	u.now = func() time.Time { return wednesday }
	require.NoError(t, u.Refresh(context.Background(), "TEST"))

	assert.Equal(t, 2, src.calls)
	assert.Equal(t, histStart, src.from, "stale history forces a full reload")
}

func TestMissingKeys(t *testing.T) {
	have := map[string]json.RawMessage{"ib_high": nil, "ib_low": nil}
	missing := missingKeys(have, []string{"ib_high", "pdh"})
	assert.Equal(t, []string{"pdh"}, missing)

	assert.Empty(t, missingKeys(have, []string{"ib_high", "ib_low"}))
}
