package parquet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/communitypulse/pulse/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	rowSchema := parquet.SchemaOf(new(HistoryRow))
	require.NotNil(t, rowSchema)

	expectedColumns := []string{
		"family",
		"granularity",
		"period",
		"stars",
		"forks",
		"open_issues",
		"subscribers",
		"events",
		"creators",
		"templates",
		"source",
		"source_detail",
	}

	for _, colName := range expectedColumns {
		col, ok := rowSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestRunStructTags(t *testing.T) {
	rowSchema := parquet.SchemaOf(new(Run))
	require.NotNil(t, rowSchema)

	expectedColumns := []string{
		"run_id",
		"family",
		"start_time",
		"end_time",
		"fetched",
		"skipped",
		"upserted",
		"config_params",
	}

	for _, colName := range expectedColumns {
		col, ok := rowSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestConvertHistory(t *testing.T) {
	hist := &schema.History{
		Daily: []schema.DataPoint{
			{Date: "2024-03-18", Stars: schema.IntPtr(100), Source: schema.SourceGitHubAPI},
		},
		Monthly: []schema.DataPoint{
			{Date: "2024-03", Stars: schema.IntPtr(100), Source: schema.SourceGitHubAPI, SourceDetail: "github-api+wayback"},
		},
	}

	rows := ConvertHistory(schema.GitHubFamily, hist)
	require.Len(t, rows, 2)

	assert.Equal(t, "github", rows[0].Family)
	assert.Equal(t, "daily", rows[0].Granularity)
	assert.Equal(t, "2024-03-18", rows[0].Period)
	require.NotNil(t, rows[0].Stars)
	assert.Equal(t, int32(100), *rows[0].Stars)
	assert.Nil(t, rows[0].Forks)
	assert.Nil(t, rows[0].SourceDetail)

	assert.Equal(t, "monthly", rows[1].Granularity)
	require.NotNil(t, rows[1].SourceDetail)
	assert.Equal(t, "github-api+wayback", *rows[1].SourceDetail)
}

func TestWriteHistoryParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "history.parquet")

	hist := &schema.History{
		Monthly: []schema.DataPoint{
			{Date: "2024-01", Stars: schema.IntPtr(10), Source: schema.SourceGitHubAPI},
			{Date: "2024-02", Stars: schema.IntPtr(20), Source: schema.SourceGitHubAPI},
		},
	}
	rows := ConvertHistory(schema.GitHubFamily, hist)

	require.NoError(t, WriteHistoryParquet(rows, outputPath))
	assert.FileExists(t, outputPath)
}

func TestConvertAndWriteRuns(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")

	end := time.Now()
	params := `{"operation":"fetch"}`
	records := []schema.RunRecord{
		{RunID: 1, Family: "github", StartTime: end.Add(-time.Minute), EndTime: &end, Fetched: 1, Upserted: 1, ConfigParams: &params},
		{RunID: 2, Family: "forum", StartTime: end},
	}

	runs := ConvertRunRecords(records)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(1), runs[0].RunID)
	assert.NotNil(t, runs[0].EndTime)
	assert.Nil(t, runs[1].EndTime)

	require.NoError(t, WriteRunsParquet(runs, outputPath))
	assert.FileExists(t, outputPath)
}
