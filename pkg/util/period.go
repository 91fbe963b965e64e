package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AnalyticsPeriods is the catalog of report periods, largest first.
// Report cache keys iterate this list.
var AnalyticsPeriods = []string{
	"YTD",
	"last_730_days",
	"last_365_days",
	"last_180_days",
	"last_90_days",
	"last_60_days",
	"last_30_days",
	"last_14_days",
	"last_7_days",
}

// ResolvePeriod resolves a period name to a [start, end] date pair.
// The end date is always yesterday, the last completed session. "YTD"
// spans the whole collected history from historyStart.
func ResolvePeriod(name string, today, historyStart time.Time) (time.Time, time.Time, error) {
	end := today.AddDate(0, 0, -1)

	if name == "YTD" {
		return historyStart, end, nil
	}

	parts := strings.Split(name, "_") // last_30_days
	if len(parts) != 3 || parts[0] != "last" || parts[2] != "days" {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown period format: %q", name)
	}
	days, err := strconv.Atoi(parts[1])
	if err != nil || days <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown period format: %q", name)
	}

	return today.AddDate(0, 0, -days), end, nil
}
