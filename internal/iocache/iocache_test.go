package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/communitypulse/pulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStoreSQLiteRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewSnapshotStore("test_cache", schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	now := time.Now().Unix()
	require.NoError(t, store.Set("github|20200101120000", []byte(`{"stars":100}`), 1, now))

	value, version, ts, err := store.Get("github|20200101120000")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"stars":100}`), value)
	assert.Equal(t, 1, version)
	assert.Equal(t, now, ts)

	// Overwrites replace in place
	require.NoError(t, store.Set("github|20200101120000", []byte(`{"stars":101}`), 1, now+5))
	value, _, _, err = store.Get("github|20200101120000")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"stars":101}`), value)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(1), status.TotalEntries)
}

func TestSnapshotStoreMissingKey(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewSnapshotStore("test_cache", schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSnapshotStoreNoneBackend(t *testing.T) {
	store, err := NewSnapshotStore("test_cache", schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("key", []byte("value"), 1, 0))
	_, _, _, err = store.Get("key")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestSnapshotStoreRejectsBadTableName(t *testing.T) {
	_, err := NewSnapshotStore("bad; DROP TABLE", schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	assert.ErrorContains(t, err, "invalid table name")
}

func TestRunStoreSQLiteLifecycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(schema.GitHubFamily, map[string]any{"operation": "fetch"})
	require.NoError(t, err)
	require.Greater(t, runID, int64(0))

	require.NoError(t, store.EndRun(runID, 1, 0, 1))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.Equal(t, "github", runs[0].Family)
	assert.Equal(t, int32(1), runs[0].Fetched)
	assert.Equal(t, int32(0), runs[0].Skipped)
	require.NotNil(t, runs[0].EndTime)
	require.NotNil(t, runs[0].ConfigParams)
	assert.Contains(t, *runs[0].ConfigParams, "fetch")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, int64(1), status.TotalFetched)
}

func TestRunStoreNoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(schema.ForumFamily, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), runID)
	assert.NoError(t, store.EndRun(runID, 0, 0, 0))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestClearCacheSQLiteRemovesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewSnapshotStore("test_cache", schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing again is fine
	assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`pulse_runs`", quoteTableName("pulse_runs", schema.MySQLBackend))
	assert.Equal(t, `"pulse_runs"`, quoteTableName("pulse_runs", schema.PostgreSQLBackend))
	assert.Equal(t, `"pulse_runs"`, quoteTableName("pulse_runs", schema.SQLiteBackend))
}

func TestValidateTableName(t *testing.T) {
	assert.NoError(t, validateTableName("pulse_snapshot_cache"))
	assert.Error(t, validateTableName(""))
	assert.Error(t, validateTableName("1bad"))
	assert.Error(t, validateTableName("bad-name"))
}
