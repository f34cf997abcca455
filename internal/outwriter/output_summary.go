package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteFetchSummaries outputs per-family run summaries, dispatching based on
// the output format configured.
func WriteFetchSummaries(cfg *contract.Config, summaries []schema.FetchSummary) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONSummaries(cfg, summaries); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVSummaries(cfg, summaries); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := printSummaryTable(cfg, summaries); err != nil {
			return fmt.Errorf("error writing summary table output: %w", err)
		}
	}
	return nil
}

func printJSONSummaries(cfg *contract.Config, summaries []schema.FetchSummary) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, summaries)
	}, "Wrote JSON run summaries")
}

func printCSVSummaries(cfg *contract.Config, summaries []schema.FetchSummary) error {
	header := []string{
		"family",
		"fetched",
		"skipped",
		"upserted",
		"cache_hits",
		"raw_count",
		"daily",
		"weekly",
		"monthly",
		"duration_ms",
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, s := range summaries {
				row := []string{
					string(s.Family),
					strconv.Itoa(s.Fetched),
					strconv.Itoa(s.Skipped),
					strconv.Itoa(s.Upserted),
					strconv.Itoa(s.CacheHits),
					strconv.Itoa(s.RawCount),
					strconv.Itoa(s.Daily),
					strconv.Itoa(s.Weekly),
					strconv.Itoa(s.Monthly),
					strconv.FormatInt(s.Duration.Milliseconds(), 10),
				}
				if err := csvWriter.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV run summaries")
}

func printSummaryTable(cfg *contract.Config, summaries []schema.FetchSummary) error {
	table := tablewriter.NewWriter(os.Stdout)

	headers := []string{"Family", "Fetched", "Skipped", "Upserted", "Cache", "Raw", "Daily", "Weekly", "Monthly"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	var total time.Duration
	for _, s := range summaries {
		total += s.Duration
		row := []string{
			string(s.Family),
			strconv.Itoa(s.Fetched),
			strconv.Itoa(s.Skipped),
			strconv.Itoa(s.Upserted),
			strconv.Itoa(s.CacheHits),
			strconv.Itoa(s.RawCount),
			strconv.Itoa(s.Daily),
			strconv.Itoa(s.Weekly),
			strconv.Itoa(s.Monthly),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Completed %d families in %v. Cache backend: %s\n", len(summaries), total.Round(time.Millisecond), cfg.CacheBackend)
	return nil
}

// WriteInterpolateSummary reports an interpolation pass. The monthly series
// itself lands in the history file; this is just the operator-facing recap.
func WriteInterpolateSummary(cfg *contract.Config, anchors, synthesized int) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]int{"anchors": anchors, "synthesized": synthesized})
		}, "Wrote JSON interpolation summary")
	}
	fmt.Printf("Interpolated %s monthly series: %d anchors, %d synthesized points\n", cfg.Family, anchors, synthesized)
	return nil
}
