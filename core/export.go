package core

import (
	"errors"
	"fmt"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/internal/histstore"
	"github.com/communitypulse/pulse/internal/parquet"
	"github.com/communitypulse/pulse/schema"
)

// ExecuteExport flattens aggregated histories and the run ledger to Parquet
// files next to the configured output path.
func ExecuteExport(cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	families := []schema.Family{cfg.Family}
	if cfg.Family == "" {
		families = schema.AllFamilies
	}

	store := histstore.NewStore(cfg.DataDir)
	var rows []parquet.HistoryRow
	for _, family := range families {
		hist, err := store.LoadHistory(family)
		if err != nil {
			return err
		}
		rows = append(rows, parquet.ConvertHistory(family, hist)...)
	}
	if len(rows) == 0 {
		return errors.New("no history data found to export")
	}

	historyFile := cfg.OutputFile + ".history.parquet"
	if err := parquet.WriteHistoryParquet(rows, historyFile); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	fmt.Printf("Exported %d history rows to: %s\n", len(rows), historyFile)

	runStore := mgr.GetRunStore()
	if runStore == nil {
		return nil
	}
	records, err := runStore.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	runsFile := cfg.OutputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(records), runsFile); err != nil {
		return fmt.Errorf("failed to write run ledger: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(records), runsFile)

	return nil
}
