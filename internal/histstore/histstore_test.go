package histstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/communitypulse/pulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRawLogMissingFileIsEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	log, err := s.LoadRawLog(schema.GitHubFamily)
	require.NoError(t, err)
	assert.Empty(t, log.Entries)
}

func TestRawLogRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	log := &schema.RawLog{Entries: []schema.DataPoint{
		{Date: "2024-03-02", Stars: schema.IntPtr(20), Source: schema.SourceGitHubAPI},
		{Date: "2024-03-01", Stars: schema.IntPtr(10), Source: schema.SourceGitHubAPI},
	}}
	require.NoError(t, s.SaveRawLog(schema.GitHubFamily, log))

	loaded, err := s.LoadRawLog(schema.GitHubFamily)
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 2)
	assert.Equal(t, "2024-03-01", loaded.Entries[0].Date, "entries are persisted sorted")
	assert.Equal(t, 10, *loaded.Entries[0].Stars)
	assert.Nil(t, loaded.Entries[0].Forks, "unset metrics stay nil after a round trip")
}

func TestLoadRawLogMalformedFails(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "github_raw.json"), []byte("{not json"), 0o644))

	_, err := s.LoadRawLog(schema.GitHubFamily)
	assert.ErrorContains(t, err, "malformed raw log")
}

func TestHistoryRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	hist := &schema.History{
		LastUpdated: "2024-03-02T10:00:00Z",
		Daily:       []schema.DataPoint{{Date: "2024-03-02", Stars: schema.IntPtr(20)}},
		Monthly:     []schema.DataPoint{{Date: "2024-03", Stars: schema.IntPtr(20)}},
	}
	require.NoError(t, s.SaveHistory(schema.GitHubFamily, hist))

	loaded, err := s.LoadHistory(schema.GitHubFamily)
	require.NoError(t, err)
	assert.Equal(t, hist.LastUpdated, loaded.LastUpdated)
	require.Len(t, loaded.Monthly, 1)
	assert.Equal(t, 20, *loaded.Monthly[0].Stars)
	assert.Empty(t, loaded.Weekly)
}

func TestLoadHistoryMissingFileIsEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	hist, err := s.LoadHistory(schema.ForumFamily)
	require.NoError(t, err)
	assert.Empty(t, hist.Monthly)
}

func TestLoadSeriesBareArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secondary.json")
	payload := `[{"date":"2022-02","stars":90},{"date":"2022-01","stars":80}]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	points, err := LoadSeries(path)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2022-01", points[0].Date, "series is sorted on load")
}

func TestLoadSeriesHistoryObject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	payload := `{"lastUpdated":"x","monthly":[{"date":"2022-01","stars":80}]}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	points, err := LoadSeries(path)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 80, *points[0].Stars)
}

func TestLoadSeriesMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))

	_, err := LoadSeries(path)
	assert.ErrorContains(t, err, "malformed series file")
}
