package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayTime is a wall-clock time of day with minute resolution.
type DayTime struct {
	Hour   int
	Minute int
}

// ParseDayTime parses "9:30" or "09:30" into a DayTime.
func ParseDayTime(s string) (DayTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return DayTime{}, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return DayTime{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return DayTime{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return DayTime{}, fmt.Errorf("time of day out of range: %q", s)
	}
	return DayTime{Hour: h, Minute: m}, nil
}

// DayTimeOf extracts the time of day from a timestamp.
func DayTimeOf(t time.Time) DayTime {
	return DayTime{Hour: t.Hour(), Minute: t.Minute()}
}

// Minutes returns minutes since midnight.
func (d DayTime) Minutes() int { return d.Hour*60 + d.Minute }

func (d DayTime) Before(o DayTime) bool { return d.Minutes() < o.Minutes() }

func (d DayTime) After(o DayTime) bool { return d.Minutes() > o.Minutes() }

// String formats as zero-padded HH:MM.
func (d DayTime) String() string { return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute) }

// TimeWindow is a time-of-day interval within a single calendar day.
// Invariant: Start <= End.
type TimeWindow struct {
	Start DayTime
	End   DayTime
}

// Contains reports whether t lies inside the window, inclusive on both
// ends. Level and volume aggregation use this boundary rule.
func (w TimeWindow) Contains(t DayTime) bool {
	m := t.Minutes()
	return m >= w.Start.Minutes() && m <= w.End.Minutes()
}

// IsAfter reports whether t lies strictly after the window end. A bar
// exactly on the boundary is never a post-window bar.
func (w TimeWindow) IsAfter(t DayTime) bool { return t.Minutes() > w.End.Minutes() }
