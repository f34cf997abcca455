package schema

import (
	"sort"
	"time"
)

// DateFormat is the calendar-day key format used throughout raw logs.
const DateFormat = "2006-01-02"

// RawLog is the append-only sequence of snapshots at native fetch
// granularity, keyed by calendar day. It is the source of truth from which
// all aggregated series derive.
type RawLog struct {
	Entries []DataPoint `json:"entries"`
}

// History holds the three aggregated series persisted per family.
type History struct {
	LastUpdated string      `json:"lastUpdated"`
	Daily       []DataPoint `json:"daily"`
	Weekly      []DataPoint `json:"weekly"`
	Monthly     []DataPoint `json:"monthly"`
}

// Series returns the requested aggregated series.
func (h *History) Series(g Granularity) []DataPoint {
	switch g {
	case DailyGranularity:
		return h.Daily
	case WeeklyGranularity:
		return h.Weekly
	default:
		return h.Monthly
	}
}

// SortPointsByDate orders points ascending by their date key. Lexical
// comparison is chronologically correct because all period keys are
// zero-padded.
func SortPointsByDate(points []DataPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
}

// Upsert replaces the entry with the same date or appends a new one, then
// restores ascending date order. At most one entry per date survives.
func (l *RawLog) Upsert(point DataPoint) {
	for i := range l.Entries {
		if l.Entries[i].Date == point.Date {
			l.Entries[i] = point
			SortPointsByDate(l.Entries)
			return
		}
	}
	l.Entries = append(l.Entries, point)
	SortPointsByDate(l.Entries)
}

// FetchSummary describes the outcome of one pipeline run for reporting.
type FetchSummary struct {
	Family    Family        `json:"family"`
	Fetched   int           `json:"fetched"`
	Skipped   int           `json:"skipped"`
	Upserted  int           `json:"upserted"`
	CacheHits int           `json:"cacheHits"`
	RawCount  int           `json:"rawCount"`
	Daily     int           `json:"daily"`
	Weekly    int           `json:"weekly"`
	Monthly   int           `json:"monthly"`
	Duration  time.Duration `json:"duration"`
}

// DivergenceRow records one period where primary and secondary disagree
// beyond the configured thresholds, even when no fill occurred.
type DivergenceRow struct {
	Period     string  `json:"period"`
	Metric     Metric  `json:"metric"`
	Primary    int     `json:"primary"`
	Calibrated int     `json:"calibrated"`
	AbsDiff    int     `json:"absDiff"`
	PctDiff    float64 `json:"pctDiff"`
}

// MergeReport summarizes a merge/calibration pass. Fills counts replaced
// sentinel fields per metric; the divergence table is diagnostic only and is
// never persisted.
type MergeReport struct {
	Family      Family          `json:"family"`
	Offset      map[Metric]int  `json:"offset"`
	Fills       map[Metric]int  `json:"fills"`
	Divergences []DivergenceRow `json:"divergences"`
}

// TotalFills sums fill counts across all metrics.
func (r *MergeReport) TotalFills() int {
	total := 0
	for _, n := range r.Fills {
		total += n
	}
	return total
}
