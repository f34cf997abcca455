package core

import (
	"testing"
	"time"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(date string, stars int) schema.DataPoint {
	return schema.DataPoint{Date: date, Stars: schema.IntPtr(stars), Source: schema.SourceGitHubAPI}
}

func TestAggregateLastEntryWins(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	entries := []schema.DataPoint{
		point("2024-03-18", 100),
		point("2024-03-18", 105),
		point("2024-03-19", 110),
	}

	daily := Aggregate(entries, contract.DayKey, 0, now)
	require.Len(t, daily, 2)
	assert.Equal(t, "2024-03-18", daily[0].Date)
	assert.Equal(t, 105, *daily[0].Stars)
	assert.Equal(t, "2024-03-19", daily[1].Date)
	assert.Equal(t, 110, *daily[1].Stars)
}

func TestAggregateMonthlyBuckets(t *testing.T) {
	now := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	entries := []schema.DataPoint{
		point("2024-01-05", 10),
		point("2024-01-28", 15),
		point("2024-02-14", 20),
	}

	monthly := Aggregate(entries, contract.MonthKey, 0, now)
	require.Len(t, monthly, 2)
	assert.Equal(t, "2024-01", monthly[0].Date)
	assert.Equal(t, 15, *monthly[0].Stars)
	assert.Equal(t, "2024-02", monthly[1].Date)
	assert.Equal(t, 20, *monthly[1].Stars)
}

func TestAggregateRetentionWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	entries := []schema.DataPoint{
		point("2023-12-01", 1),
		point("2024-05-20", 2),
	}

	daily := Aggregate(entries, contract.DayKey, dailyRetention, now)
	require.Len(t, daily, 1)
	assert.Equal(t, "2024-05-20", daily[0].Date)

	// Monthly series has no retention cutoff.
	monthly := Aggregate(entries, contract.MonthKey, 0, now)
	assert.Len(t, monthly, 2)
}

func TestAggregateSkipsUnparseableDates(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	entries := []schema.DataPoint{
		{Date: "not-a-date"},
		point("2024-05-20", 2),
	}
	daily := Aggregate(entries, contract.DayKey, 0, now)
	assert.Len(t, daily, 1)
}

func TestBuildHistoryIdempotent(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	log := &schema.RawLog{Entries: []schema.DataPoint{
		point("2024-03-18", 100),
		point("2024-03-19", 110),
		point("2024-03-20", 120),
	}}

	first := BuildHistory(log, now)
	second := BuildHistory(log, now)
	assert.Equal(t, first, second)

	require.Len(t, first.Daily, 3)
	require.Len(t, first.Monthly, 1)
	assert.Equal(t, "2024-03", first.Monthly[0].Date)
	assert.Equal(t, 120, *first.Monthly[0].Stars)
	assert.NotEmpty(t, first.LastUpdated)
}

func TestBuildHistoryWeeklyKeys(t *testing.T) {
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	log := &schema.RawLog{Entries: []schema.DataPoint{
		point("2024-01-02", 5),
		point("2024-01-10", 7),
	}}

	hist := BuildHistory(log, now)
	require.Len(t, hist.Weekly, 2)
	for _, p := range hist.Weekly {
		assert.Regexp(t, `^\d{4}-W\d{2}$`, p.Date)
	}
	assert.Less(t, hist.Weekly[0].Date, hist.Weekly[1].Date)
}
