package schema

import "time"

// CacheStatus holds status information about the snapshot cache store.
type CacheStatus struct {
	Backend         string
	Connected       bool
	TotalEntries    int64
	LastEntryTime   time.Time
	OldestEntryTime time.Time
	TableSizeBytes  int64
}

// RunsStatus holds status information about the run ledger store.
type RunsStatus struct {
	Backend      string
	Connected    bool
	TotalRuns    int64
	LastRunID    int64
	LastRunTime  time.Time
	OldestRun    time.Time
	TotalFetched int64
	TotalSkipped int64
}

// RunRecord is one row of the run ledger.
type RunRecord struct {
	RunID        int64
	Family       string
	StartTime    time.Time
	EndTime      *time.Time
	Fetched      int32
	Skipped      int32
	Upserted     int32
	ConfigParams *string
}
