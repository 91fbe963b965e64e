package util

import (
	"testing"
	"time"
)

var (
	testToday   = time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	testHistory = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
)

func TestResolvePeriodYTD(t *testing.T) {
	from, to, err := ResolvePeriod("YTD", testToday, testHistory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !from.Equal(testHistory) {
		t.Fatalf("expected history start, got %v", from)
	}
	if !to.Equal(testToday.AddDate(0, 0, -1)) {
		t.Fatalf("expected yesterday, got %v", to)
	}
}

func TestResolvePeriodLastNDays(t *testing.T) {
	from, to, err := ResolvePeriod("last_30_days", testToday, testHistory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !from.Equal(testToday.AddDate(0, 0, -30)) {
		t.Fatalf("unexpected from %v", from)
	}
	if !to.Equal(time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected to %v", to)
	}
}

func TestResolvePeriodInvalid(t *testing.T) {
	for _, name := range []string{"", "monthly", "last_x_days", "last_0_days", "last_30_weeks"} {
		if _, _, err := ResolvePeriod(name, testToday, testHistory); err == nil {
			t.Fatalf("expected error for %q", name)
		}
	}
}

func TestAnalyticsPeriodsCatalog(t *testing.T) {
	if len(AnalyticsPeriods) != 9 {
		t.Fatalf("unexpected catalog size %d", len(AnalyticsPeriods))
	}
	if AnalyticsPeriods[0] != "YTD" {
		t.Fatalf("expected YTD first, got %q", AnalyticsPeriods[0])
	}
	for _, name := range AnalyticsPeriods {
		if _, _, err := ResolvePeriod(name, testToday, testHistory); err != nil {
			t.Fatalf("catalog period %q failed to resolve: %v", name, err)
		}
	}
}
