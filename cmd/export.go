package cmd

import (
	"github.com/communitypulse/pulse/core"
	"github.com/communitypulse/pulse/internal/contract"
	"github.com/spf13/cobra"
)

// exportCmd exports histories and the run ledger to Parquet files.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export histories and the run ledger to Parquet for analytics",
	Long: `Export aggregated history data to Parquet format for use with analytics tools.

Exports two datasets:
- History rows - one row per family, granularity and period with all metric columns
- Runs - metadata about each recorded pipeline run

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter. Without --family, all families are exported.

Examples:
  # Export everything
  pulse export --output-file pulse-data

  # Use with DuckDB for analysis
  pulse export --output-file data
  duckdb -c "SELECT * FROM read_parquet('data.history.parquet') LIMIT 10"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExport(cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run export", err)
		}
	},
}
