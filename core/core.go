// Package core implements the pipeline operations behind each command:
// live fetches, historical backfills, interpolation, and source merging.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/internal/fetch"
	"github.com/communitypulse/pulse/internal/histstore"
	"github.com/communitypulse/pulse/internal/outwriter"
	"github.com/communitypulse/pulse/schema"
)

// ExecuteFetch runs a live snapshot fetch for one family, or for every
// family when none is selected. A failed fetch skips that family's point and
// never aborts the run; only broken on-disk state is fatal.
func ExecuteFetch(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	families := []schema.Family{cfg.Family}
	if cfg.Family == "" {
		families = schema.AllFamilies
	}

	store := histstore.NewStore(cfg.DataDir)
	doer := fetch.NewDoer()

	summaries := make([]schema.FetchSummary, 0, len(families))
	for _, family := range families {
		summary, err := fetchFamily(ctx, cfg, family, store, doer, mgr.GetRunStore())
		if err != nil {
			return err
		}
		summaries = append(summaries, summary)
	}

	return outwriter.WriteFetchSummaries(cfg, summaries)
}

func fetchFamily(ctx context.Context, cfg *contract.Config, family schema.Family, store *histstore.Store, doer contract.Doer, runs contract.RunStore) (schema.FetchSummary, error) {
	start := time.Now()
	summary := schema.FetchSummary{Family: family}

	runID, err := beginRun(runs, family, map[string]any{"operation": "fetch"})
	if err != nil {
		return summary, err
	}
	defer func() {
		endRun(runs, runID, &summary)
		summary.Duration = time.Since(start)
	}()

	fetcher, err := fetch.New(family, cfg, doer)
	if err != nil {
		return summary, err
	}

	point, err := fetcher.Fetch(ctx)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("skipping %s point", family), err)
		summary.Skipped = 1
		return summary, nil
	}
	summary.Fetched = 1

	log, err := store.LoadRawLog(family)
	if err != nil {
		return summary, err
	}
	log.Upsert(*point)
	summary.Upserted = 1
	if err := store.SaveRawLog(family, log); err != nil {
		return summary, err
	}

	hist := BuildHistory(log, time.Now())
	if err := store.SaveHistory(family, hist); err != nil {
		return summary, err
	}

	summary.RawCount = len(log.Entries)
	summary.Daily = len(hist.Daily)
	summary.Weekly = len(hist.Weekly)
	summary.Monthly = len(hist.Monthly)
	return summary, nil
}

// ExecuteInterpolate densifies a family's monthly series from an external
// anchors file, replacing the persisted monthly history wholesale.
func ExecuteInterpolate(cfg *contract.Config) error {
	anchors, err := LoadAnchors(cfg.AnchorsFile)
	if err != nil {
		return err
	}

	series, err := Interpolate(anchors, schema.FamilyMetrics[cfg.Family])
	if err != nil {
		return err
	}

	store := histstore.NewStore(cfg.DataDir)
	hist, err := store.LoadHistory(cfg.Family)
	if err != nil {
		return err
	}
	hist.Monthly = series
	hist.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := store.SaveHistory(cfg.Family, hist); err != nil {
		return err
	}

	return outwriter.WriteInterpolateSummary(cfg, len(anchors), len(series)-len(anchors))
}

// ExecuteMerge reconciles a secondary monthly series into the family's
// persisted monthly history and prints the divergence report.
func ExecuteMerge(cfg *contract.Config) error {
	store := histstore.NewStore(cfg.DataDir)
	hist, err := store.LoadHistory(cfg.Family)
	if err != nil {
		return err
	}
	if len(hist.Monthly) == 0 {
		return fmt.Errorf("no monthly history for family %s under %s", cfg.Family, cfg.DataDir)
	}

	secondary, err := histstore.LoadSeries(cfg.SecondaryFile)
	if err != nil {
		return err
	}

	merged, report, err := Merge(hist.Monthly, secondary, schema.FamilyMetrics[cfg.Family], cfg.CalibrationPeriod, cfg.DivergeAbs, cfg.DivergePct)
	if err != nil {
		return err
	}
	report.Family = cfg.Family

	hist.Monthly = merged
	hist.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	if err := store.SaveHistory(cfg.Family, hist); err != nil {
		return err
	}

	return outwriter.WriteMergeReport(cfg, report)
}

// beginRun records the start of a pipeline run. A nil or failing run ledger
// degrades to an untracked run rather than blocking the pipeline.
func beginRun(runs contract.RunStore, family schema.Family, params map[string]any) (int64, error) {
	if runs == nil {
		return 0, nil
	}
	runID, err := runs.BeginRun(family, params)
	if err != nil {
		contract.LogWarn("run ledger unavailable", err)
		return 0, nil
	}
	return runID, nil
}

func endRun(runs contract.RunStore, runID int64, summary *schema.FetchSummary) {
	if runs == nil || runID == 0 {
		return
	}
	if err := runs.EndRun(runID, summary.Fetched, summary.Skipped, summary.Upserted); err != nil {
		contract.LogWarn("failed to record run completion", err)
	}
}
