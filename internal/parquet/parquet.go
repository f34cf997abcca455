// Package parquet exports aggregated history series and the run ledger to
// Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/communitypulse/pulse/schema"
	"github.com/parquet-go/parquet-go"
)

// HistoryRow is one aggregated data point flattened for columnar export.
type HistoryRow struct {
	// Family is the metric family this row belongs to
	Family string `parquet:"family,snappy"`

	// Granularity is daily, weekly, or monthly
	Granularity string `parquet:"granularity,snappy"`

	// Period is the bucket key (YYYY-MM-DD, YYYY-Wnn, or YYYY-MM)
	Period string `parquet:"period,snappy"`

	// Metric counters (all nullable since each family fills a subset)
	Stars       *int32 `parquet:"stars,optional,snappy"`
	Forks       *int32 `parquet:"forks,optional,snappy"`
	OpenIssues  *int32 `parquet:"open_issues,optional,snappy"`
	Topics      *int32 `parquet:"topics,optional,snappy"`
	Posts       *int32 `parquet:"posts,optional,snappy"`
	Users       *int32 `parquet:"users,optional,snappy"`
	ActiveUsers *int32 `parquet:"active_users,optional,snappy"`
	Followers   *int32 `parquet:"followers,optional,snappy"`
	Subscribers *int32 `parquet:"subscribers,optional,snappy"`
	Events      *int32 `parquet:"events,optional,snappy"`
	Creators    *int32 `parquet:"creators,optional,snappy"`
	Templates   *int32 `parquet:"templates,optional,snappy"`

	// Source identifies the origin of the representative entry
	Source string `parquet:"source,snappy"`

	// SourceDetail carries the provenance trail for merged entries (nullable)
	SourceDetail *string `parquet:"source_detail,optional,snappy"`
}

// Run is one run-ledger row flattened for columnar export.
type Run struct {
	// RunID is the unique identifier for this pipeline run
	RunID int64 `parquet:"run_id,snappy"`

	// Family is the metric family the run operated on
	Family string `parquet:"family,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable for interrupted runs)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// Fetched, Skipped, and Upserted are the run's point counts
	Fetched  int32 `parquet:"fetched,snappy"`
	Skipped  int32 `parquet:"skipped,snappy"`
	Upserted int32 `parquet:"upserted,snappy"`

	// ConfigParams contains the JSON-encoded run parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// WriteHistoryParquet writes a slice of HistoryRow structs to a Parquet file.
func WriteHistoryParquet(data []HistoryRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

func writeParquet[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertHistory flattens every granularity of a family's history into
// HistoryRow records for Parquet export.
func ConvertHistory(family schema.Family, hist *schema.History) []HistoryRow {
	var rows []HistoryRow
	granularities := []struct {
		name   schema.Granularity
		points []schema.DataPoint
	}{
		{schema.DailyGranularity, hist.Daily},
		{schema.WeeklyGranularity, hist.Weekly},
		{schema.MonthlyGranularity, hist.Monthly},
	}
	for _, g := range granularities {
		for _, p := range g.points {
			rows = append(rows, convertPoint(family, g.name, p))
		}
	}
	return rows
}

func convertPoint(family schema.Family, granularity schema.Granularity, p schema.DataPoint) HistoryRow {
	row := HistoryRow{
		Family:      string(family),
		Granularity: string(granularity),
		Period:      p.Date,
		Stars:       toInt32(p.Stars),
		Forks:       toInt32(p.Forks),
		OpenIssues:  toInt32(p.OpenIssues),
		Topics:      toInt32(p.Topics),
		Posts:       toInt32(p.Posts),
		Users:       toInt32(p.Users),
		ActiveUsers: toInt32(p.ActiveUsers),
		Followers:   toInt32(p.Followers),
		Subscribers: toInt32(p.Subscribers),
		Events:      toInt32(p.Events),
		Creators:    toInt32(p.Creators),
		Templates:   toInt32(p.Templates),
		Source:      p.Source,
	}
	if p.SourceDetail != "" {
		detail := p.SourceDetail
		row.SourceDetail = &detail
	}
	return row
}

// ConvertRunRecords converts schema.RunRecord rows to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	runs := make([]Run, 0, len(records))
	for _, r := range records {
		runs = append(runs, Run{
			RunID:        r.RunID,
			Family:       r.Family,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			Fetched:      r.Fetched,
			Skipped:      r.Skipped,
			Upserted:     r.Upserted,
			ConfigParams: r.ConfigParams,
		})
	}
	return runs
}

func toInt32(v *int) *int32 {
	if v == nil {
		return nil
	}
	converted := int32(*v)
	return &converted
}
