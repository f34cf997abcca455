package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteMergeReport outputs a merge/calibration report, dispatching based on
// the output format configured. The divergence table is diagnostic only.
func WriteMergeReport(cfg *contract.Config, report *schema.MergeReport) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONMergeReport(cfg, report); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVMergeReport(cfg, report); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := printMergeReportTable(cfg, report); err != nil {
			return fmt.Errorf("error writing merge report output: %w", err)
		}
	}
	return nil
}

func printJSONMergeReport(cfg *contract.Config, report *schema.MergeReport) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, report)
	}, "Wrote JSON merge report")
}

func printCSVMergeReport(cfg *contract.Config, report *schema.MergeReport) error {
	header := []string{"period", "metric", "primary", "calibrated", "abs_diff", "pct_diff", "label"}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, row := range report.Divergences {
				record := []string{
					row.Period,
					string(row.Metric),
					strconv.Itoa(row.Primary),
					strconv.Itoa(row.Calibrated),
					strconv.Itoa(row.AbsDiff),
					fmt.Sprintf("%.2f", row.PctDiff),
					contract.GetPlainDivergenceLabel(row, cfg.DivergeAbs, cfg.DivergePct),
				}
				if err := csvWriter.Write(record); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV merge report")
}

func printMergeReportTable(cfg *contract.Config, report *schema.MergeReport) error {
	for _, metric := range schema.AllMetrics {
		if offset, ok := report.Offset[metric]; ok {
			fmt.Printf("Calibration offset for %s: %+d\n", metric, offset)
		}
	}
	fillLabel := contract.FilledTag
	if cfg.UseColors {
		fillLabel = contract.FilledColor.Sprint(contract.FilledTag)
	}
	for _, metric := range schema.AllMetrics {
		if fills, ok := report.Fills[metric]; ok && fills > 0 {
			fmt.Printf("%s %s: %d sentinel fields from secondary\n", fillLabel, metric, fills)
		}
	}

	if len(report.Divergences) == 0 {
		fmt.Printf("Merge for %s complete: %d fields filled, no divergences beyond thresholds\n", report.Family, report.TotalFills())
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Period", "Metric", "Primary", "Calibrated", "AbsDiff", "PctDiff", "Label"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, row := range report.Divergences {
		label := contract.GetPlainDivergenceLabel(row, cfg.DivergeAbs, cfg.DivergePct)
		if cfg.UseColors {
			label = contract.GetColorDivergenceLabel(row, cfg.DivergeAbs, cfg.DivergePct)
		}
		data = append(data, []string{
			row.Period,
			string(row.Metric),
			strconv.Itoa(row.Primary),
			strconv.Itoa(row.Calibrated),
			strconv.Itoa(row.AbsDiff),
			fmt.Sprintf("%.2f%%", row.PctDiff),
			label,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Merge for %s complete: %d fields filled, %d divergences beyond thresholds\n", report.Family, report.TotalFills(), len(report.Divergences))
	return nil
}
