package analytics

import (
	"fmt"
	"strconv"

	"IBPulse/internal/domain/models"
	"IBPulse/pkg/util"
)

// The heatmap grid starts at the first bucket boundary after the IB
// window and ends at the scope's end-of-day boundary.
const (
	heatmapGridStart  = "10:30"
	sessionHeatmapEnd = "16:00"
	fullDayHeatmapEnd = "23:59"
)

// heatmapEvents maps event types to the record timestamps they pool.
// "breakout" merges break-high and break-low: the interesting moment is
// when the balance broke, not in which direction.
var heatmapEvents = []string{"breakout", "hit_05x", "hit_1x", "hit_2x"}

// timeHeatmaps builds the 30-minute event-time distributions for one
// scope. With clean set, rows where the scope broke both IB sides are
// excluded before pooling; when the exclusion leaves no rows the event
// grids are omitted entirely.
func timeHeatmaps(records []models.DailyMetricsRecord, scope models.Scope, clean bool) map[string]models.TimeHeatmap {
	rows := records
	if clean {
		rows = make([]models.DailyMetricsRecord, 0, len(records))
		for i := range records {
			if fields(&records[i], scope).chop() {
				continue
			}
			rows = append(rows, records[i])
		}
	}

	end := fullDayHeatmapEnd
	if scope == models.ScopeSession {
		end = sessionHeatmapEnd
	}

	out := make(map[string]models.TimeHeatmap, len(heatmapEvents))
	for _, event := range heatmapEvents {
		times := eventTimes(rows, event)
		if len(rows) == 0 {
			continue
		}
		out[event] = distribution(times, end)
	}
	return out
}

// eventTimes pools the non-absent first-touch timestamps of one event
// type across all rows.
func eventTimes(rows []models.DailyMetricsRecord, event string) []string {
	var cols []*string
	out := make([]string, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		switch event {
		case "breakout":
			cols = []*string{r.TimeBreakHigh, r.TimeBreakLow}
		case "hit_05x":
			cols = []*string{r.TimeHit05x}
		case "hit_1x":
			cols = []*string{r.TimeHit1x}
		case "hit_2x":
			cols = []*string{r.TimeHit2x}
		}
		for _, c := range cols {
			if c != nil {
				out = append(out, *c)
			}
		}
	}
	return out
}

// distribution buckets HH:MM timestamps into a dense 30-minute grid and
// reports each bucket's share of all valid timestamps. Zero-padded
// HH:MM strings compare correctly as plain strings.
func distribution(times []string, endTime string) models.TimeHeatmap {
	counts := make(map[string]int)
	total := 0
	for _, t := range times {
		if t < heatmapGridStart || t > endTime {
			continue
		}
		b, ok := bucket30m(t)
		if !ok {
			continue
		}
		counts[b]++
		total++
	}

	// Dense grid: every bucket is present even with zero events.
	endHour, _ := strconv.Atoi(endTime[:2])
	dist := make(models.TimeHeatmap)
	for h := 10; h <= endHour; h++ {
		for _, m := range []int{0, 30} {
			if h == 10 && m < 30 {
				continue
			}
			key := fmt.Sprintf("%02d:%02d", h, m)
			if key > endTime {
				break
			}
			dist[key] = util.RoundTo(pct(counts[key], total), 1)
		}
	}
	return dist
}

// bucket30m floors an HH:MM timestamp onto its 30-minute bucket start.
func bucket30m(t string) (string, bool) {
	d, err := models.ParseDayTime(t)
	if err != nil {
		return "", false
	}
	m := 0
	if d.Minute >= 30 {
		m = 30
	}
	return fmt.Sprintf("%02d:%02d", d.Hour, m), true
}
