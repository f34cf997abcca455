// Package core has core logic for aggregation, interpolation and merging.
package core

import (
	"sort"
	"time"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
)

// PeriodKeyFunc maps a point's calendar day to its aggregation bucket key.
type PeriodKeyFunc func(time.Time) string

// Retention windows for the derived series. Monthly keeps full history.
const (
	dailyRetention  = contract.DefaultDailyRetentionDays * 24 * time.Hour
	weeklyRetention = contract.DefaultWeeklyRetentionDays * 24 * time.Hour
)

// Aggregate partitions raw entries into buckets using the period key
// function and keeps the chronologically last entry of each bucket as its
// representative. The metrics are cumulative counters, so the latest sample
// best approximates the bucket's end state. Entries older than now-retention
// are excluded before bucketing; a zero retention keeps everything.
func Aggregate(entries []schema.DataPoint, keyFn PeriodKeyFunc, retention time.Duration, now time.Time) []schema.DataPoint {
	cutoff := time.Time{}
	if retention > 0 {
		cutoff = now.Add(-retention)
	}

	buckets := make(map[string]schema.DataPoint)
	for _, entry := range entries {
		day, err := time.Parse(schema.DateFormat, entry.Date)
		if err != nil {
			// Raw logs only ever hold calendar-day keys; anything else
			// cannot be bucketed.
			continue
		}
		if !cutoff.IsZero() && day.Before(cutoff) {
			continue
		}

		key := keyFn(day)
		prev, seen := buckets[key]
		if !seen || prev.Date <= entry.Date {
			rep := entry.Clone()
			buckets[key] = rep
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]schema.DataPoint, 0, len(keys))
	for _, key := range keys {
		rep := buckets[key]
		rep.Date = key
		out = append(out, rep)
	}
	return out
}

// BuildHistory regenerates the full aggregated history from a raw log.
// The output is a pure function of the raw log, "now" and the retention
// constants; "now" only affects retention cutoffs, never historical values.
func BuildHistory(log *schema.RawLog, now time.Time) *schema.History {
	return &schema.History{
		LastUpdated: now.UTC().Format(time.RFC3339),
		Daily:       Aggregate(log.Entries, contract.DayKey, dailyRetention, now),
		Weekly:      Aggregate(log.Entries, contract.WeekKey, weeklyRetention, now),
		Monthly:     Aggregate(log.Entries, contract.MonthKey, 0, now),
	}
}
