package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/internal/histstore"
	"github.com/communitypulse/pulse/internal/iocache"
	"github.com/communitypulse/pulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMonthWindow(t *testing.T) {
	months, err := monthWindow("2023-11", "2024-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"}, months)

	months, err = monthWindow("2024-02", "2024-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02"}, months)

	_, err = monthWindow("2024-03", "2024-02")
	assert.Error(t, err)
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	store := &iocache.MockCacheStore{}
	point := &schema.DataPoint{Date: "2020-03-14", Stars: schema.IntPtr(100), Source: schema.SourceWayback}

	var captured []byte
	store.On("Set", "github|20200301120000", mock.Anything, snapshotCacheVersion, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).([]byte) }).
		Return(nil)
	storeSnapshot(store, schema.GitHubFamily, "20200301120000", point)
	store.AssertExpectations(t)

	store.On("Get", "github|20200301120000").Return(captured, snapshotCacheVersion, int64(0), nil)
	cached, ok := cachedSnapshot(store, schema.GitHubFamily, "20200301120000")
	require.True(t, ok)
	assert.Equal(t, "2020-03-14", cached.Date)
	assert.Equal(t, 100, *cached.Stars)
}

func TestSnapshotCacheVersionMismatch(t *testing.T) {
	store := &iocache.MockCacheStore{}
	store.On("Get", "github|20200301120000").Return([]byte(`{}`), snapshotCacheVersion+1, int64(0), nil)

	_, ok := cachedSnapshot(store, schema.GitHubFamily, "20200301120000")
	assert.False(t, ok)
}

func TestExecuteInterpolateEndToEnd(t *testing.T) {
	dataDir := t.TempDir()
	anchorsPath := filepath.Join(dataDir, "anchors.yaml")
	anchorsYAML := `anchors:
  - date: "2020-01"
    stars: 100
    source: wayback
  - date: "2020-04"
    stars: 400
    source: wayback
`
	require.NoError(t, os.WriteFile(anchorsPath, []byte(anchorsYAML), 0o644))

	cfg := &contract.Config{
		DataDir:     dataDir,
		Family:      schema.GitHubFamily,
		AnchorsFile: anchorsPath,
		Output:      schema.TextOut,
	}
	require.NoError(t, ExecuteInterpolate(cfg))

	hist, err := histstore.NewStore(dataDir).LoadHistory(schema.GitHubFamily)
	require.NoError(t, err)
	require.Len(t, hist.Monthly, 4)
	assert.Equal(t, "2020-02", hist.Monthly[1].Date)
	assert.Equal(t, 200, *hist.Monthly[1].Stars)
	assert.Equal(t, schema.SourceInterpolated, hist.Monthly[1].Source)
	assert.NotEmpty(t, hist.LastUpdated)
}

func TestExecuteMergeEndToEnd(t *testing.T) {
	dataDir := t.TempDir()
	store := histstore.NewStore(dataDir)

	primary := &schema.History{Monthly: []schema.DataPoint{
		{Date: "2022-01", Stars: schema.IntPtr(0), Source: schema.SourceGitHubAPI},
		{Date: "2022-02", Stars: schema.IntPtr(150), Source: schema.SourceGitHubAPI},
	}}
	require.NoError(t, store.SaveHistory(schema.GitHubFamily, primary))

	secondaryPath := filepath.Join(dataDir, "secondary.json")
	secondary := `[{"date":"2022-01","stars":42,"source":"wayback"},{"date":"2022-02","stars":151,"source":"wayback"}]`
	require.NoError(t, os.WriteFile(secondaryPath, []byte(secondary), 0o644))

	cfg := &contract.Config{
		DataDir:       dataDir,
		Family:        schema.GitHubFamily,
		SecondaryFile: secondaryPath,
		Output:        schema.TextOut,
		DivergeAbs:    contract.DefaultDivergeAbs,
		DivergePct:    contract.DefaultDivergePct,
	}
	require.NoError(t, ExecuteMerge(cfg))

	merged, err := store.LoadHistory(schema.GitHubFamily)
	require.NoError(t, err)
	require.Len(t, merged.Monthly, 2)
	assert.Equal(t, 42, *merged.Monthly[0].Stars)
	assert.Contains(t, merged.Monthly[0].SourceDetail, "+wayback")
	assert.Equal(t, 150, *merged.Monthly[1].Stars)
}

func TestExecuteMergeNoHistory(t *testing.T) {
	cfg := &contract.Config{
		DataDir: t.TempDir(),
		Family:  schema.GitHubFamily,
		Output:  schema.TextOut,
	}
	err := ExecuteMerge(cfg)
	assert.ErrorContains(t, err, "no monthly history")
}
