// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"net/http"

	"github.com/communitypulse/pulse/schema"
)

// ErrNotFound signals that a fetcher could not locate the expected fields in
// the upstream JSON or markup. Callers log the miss and continue; it is never
// fatal to a run.
var ErrNotFound = errors.New("expected pattern not found in upstream response")

// Doer abstracts the HTTP client so fetch adapters can be tested without
// network access.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher produces one normalized data point for "now" from a live source.
// A broken upstream fails one adapter, never the pipeline.
type Fetcher interface {
	// Family identifies the metric family this adapter feeds.
	Family() schema.Family

	// Fetch returns a fully populated DataPoint dated today, or an error.
	// Network failures, non-2xx responses and ErrNotFound are all
	// skip-this-point conditions for the caller.
	Fetch(ctx context.Context) (*schema.DataPoint, error)
}

// HistoricalFetcher produces one data point for a specific archived moment.
// Timestamps use the web archive's compact YYYYMMDDHHMMSS form.
type HistoricalFetcher interface {
	// Family identifies the metric family this adapter feeds.
	Family() schema.Family

	// FetchAt returns the point observed at the archived timestamp, or an
	// error. A missing snapshot is reported as ErrNotFound.
	FetchAt(ctx context.Context, timestamp string) (*schema.DataPoint, error)
}

// CacheManager defines the interface for managing persistence stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetSnapshotStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for snapshot payload caching, keyed by
// source URL and archive timestamp.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for the run ledger that records every
// pipeline invocation.
type RunStore interface {
	// BeginRun creates a new run row and returns its unique ID.
	BeginRun(family schema.Family, configParams map[string]any) (int64, error)

	// EndRun updates the run row with completion data.
	EndRun(runID int64, fetched, skipped, upserted int) error

	// GetAllRuns returns every recorded run, oldest first.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetStatus returns status information about the run ledger.
	GetStatus() (schema.RunsStatus, error)

	// Close closes the underlying connection.
	Close() error
}
