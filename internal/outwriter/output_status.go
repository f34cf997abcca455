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

// WriteCacheStatus outputs snapshot cache status information.
func WriteCacheStatus(cfg *contract.Config, status schema.CacheStatus) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON cache status")
	}

	fmt.Printf("Snapshot cache backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	fmt.Printf("Total entries: %d\n", status.TotalEntries)
	if !status.LastEntryTime.IsZero() {
		fmt.Printf("Last entry: %s\n", status.LastEntryTime.Format(time.RFC3339))
	}
	if !status.OldestEntryTime.IsZero() {
		fmt.Printf("Oldest entry: %s\n", status.OldestEntryTime.Format(time.RFC3339))
	}
	if status.TableSizeBytes > 0 {
		fmt.Printf("Approximate size: %d bytes\n", status.TableSizeBytes)
	}
	return nil
}

// WriteRunsStatus outputs run ledger status information.
func WriteRunsStatus(cfg *contract.Config, status schema.RunsStatus) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON runs status")
	}

	fmt.Printf("Run ledger backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	if status.LastRunID > 0 {
		fmt.Printf("Last run: #%d at %s\n", status.LastRunID, status.LastRunTime.Format(time.RFC3339))
	}
	fmt.Printf("Lifetime fetched: %d, skipped: %d\n", status.TotalFetched, status.TotalSkipped)
	return nil
}

// WriteRuns outputs the run ledger, dispatching based on the output format
// configured.
func WriteRuns(cfg *contract.Config, runs []schema.RunRecord) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON run ledger")
	case schema.CSVOut:
		header := []string{"run_id", "family", "start_time", "end_time", "fetched", "skipped", "upserted"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for _, run := range runs {
					end := ""
					if run.EndTime != nil {
						end = run.EndTime.Format(time.RFC3339)
					}
					record := []string{
						strconv.FormatInt(run.RunID, 10),
						run.Family,
						run.StartTime.Format(time.RFC3339),
						end,
						strconv.FormatInt(int64(run.Fetched), 10),
						strconv.FormatInt(int64(run.Skipped), 10),
						strconv.FormatInt(int64(run.Upserted), 10),
					}
					if err := csvWriter.Write(record); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV run ledger")
	default:
		return printRunsTable(cfg, runs)
	}
}

func printRunsTable(cfg *contract.Config, runs []schema.RunRecord) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Run", "Family", "Started", "Ended", "Fetched", "Skipped", "Upserted", "Params"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxDetail := GetMaxTableDetailWidth(cfg)
	var data [][]string
	for _, run := range runs {
		end := "-"
		if run.EndTime != nil {
			end = run.EndTime.Format(time.RFC3339)
		}
		params := "-"
		if run.ConfigParams != nil {
			params = truncateCell(*run.ConfigParams, maxDetail)
		}
		data = append(data, []string{
			strconv.FormatInt(run.RunID, 10),
			run.Family,
			run.StartTime.Format(time.RFC3339),
			end,
			strconv.FormatInt(int64(run.Fetched), 10),
			strconv.FormatInt(int64(run.Skipped), 10),
			strconv.FormatInt(int64(run.Upserted), 10),
			params,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("%d recorded runs\n", len(runs))
	return nil
}
