package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/internal/fetch"
	"github.com/communitypulse/pulse/internal/histstore"
	"github.com/communitypulse/pulse/internal/outwriter"
	"github.com/communitypulse/pulse/schema"
)

// snapshotCacheVersion tags cached snapshot payloads so a format change can
// invalidate old rows.
const snapshotCacheVersion = 1

// sleepFn is stubbed in tests.
var sleepFn = time.Sleep

// ExecuteBackfill walks the configured month window oldest-first, replaying
// one archived snapshot per month. Each network iteration is followed by a
// fixed cooperative delay; cached snapshots skip both the network and the
// delay. A missing or unparseable snapshot skips that month and moves on.
func ExecuteBackfill(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	fetcher, err := fetch.NewHistorical(cfg.Family, cfg, fetch.NewDoer())
	if err != nil {
		return err
	}

	store := histstore.NewStore(cfg.DataDir)
	log, err := store.LoadRawLog(cfg.Family)
	if err != nil {
		return err
	}

	start := time.Now()
	summary := schema.FetchSummary{Family: cfg.Family}
	snapshots := mgr.GetSnapshotStore()
	runs := mgr.GetRunStore()

	runID, err := beginRun(runs, cfg.Family, map[string]any{
		"operation": "backfill",
		"from":      cfg.BackfillFrom,
		"to":        cfg.BackfillTo,
	})
	if err != nil {
		return err
	}

	months, err := monthWindow(cfg.BackfillFrom, cfg.BackfillTo)
	if err != nil {
		return err
	}

	for i, month := range months {
		if err := ctx.Err(); err != nil {
			return err
		}

		timestamp, err := contract.MonthKeyToCompact(month)
		if err != nil {
			return err
		}

		point, cached := cachedSnapshot(snapshots, cfg.Family, timestamp)
		if cached {
			summary.CacheHits++
		} else {
			point, err = fetcher.FetchAt(ctx, timestamp)
			if err != nil {
				contract.LogWarn(fmt.Sprintf("skipping %s snapshot near %s", cfg.Family, month), err)
				summary.Skipped++
			} else {
				storeSnapshot(snapshots, cfg.Family, timestamp, point)
			}
			if i < len(months)-1 {
				sleepFn(cfg.FetchDelay)
			}
		}
		if point == nil {
			continue
		}

		summary.Fetched++
		log.Upsert(*point)
		summary.Upserted++
	}

	if err := store.SaveRawLog(cfg.Family, log); err != nil {
		return err
	}
	hist := BuildHistory(log, time.Now())
	if err := store.SaveHistory(cfg.Family, hist); err != nil {
		return err
	}

	summary.RawCount = len(log.Entries)
	summary.Daily = len(hist.Daily)
	summary.Weekly = len(hist.Weekly)
	summary.Monthly = len(hist.Monthly)
	summary.Duration = time.Since(start)
	endRun(runs, runID, &summary)

	return outwriter.WriteFetchSummaries(cfg, []schema.FetchSummary{summary})
}

// monthWindow expands an inclusive from/to month-key range.
func monthWindow(from, to string) ([]string, error) {
	gap, err := contract.MonthsBetween(from, to)
	if err != nil {
		return nil, err
	}
	if gap < 0 {
		return nil, fmt.Errorf("window start %s is after end %s", from, to)
	}
	months := make([]string, 0, gap+1)
	for m := 0; m <= gap; m++ {
		month, err := contract.AddMonthKey(from, m)
		if err != nil {
			return nil, err
		}
		months = append(months, month)
	}
	return months, nil
}

// snapshotKey names one cached archived snapshot.
func snapshotKey(family schema.Family, timestamp string) string {
	return fmt.Sprintf("%s|%s", family, timestamp)
}

// cachedSnapshot returns a previously fetched point for this family and
// archive timestamp, if one is cached. Cache trouble is treated as a miss.
func cachedSnapshot(snapshots contract.CacheStore, family schema.Family, timestamp string) (*schema.DataPoint, bool) {
	if snapshots == nil {
		return nil, false
	}
	payload, version, _, err := snapshots.Get(snapshotKey(family, timestamp))
	if err != nil || version != snapshotCacheVersion {
		return nil, false
	}
	var point schema.DataPoint
	if err := json.Unmarshal(payload, &point); err != nil {
		return nil, false
	}
	return &point, true
}

func storeSnapshot(snapshots contract.CacheStore, family schema.Family, timestamp string, point *schema.DataPoint) {
	if snapshots == nil {
		return
	}
	payload, err := json.Marshal(point)
	if err != nil {
		return
	}
	if err := snapshots.Set(snapshotKey(family, timestamp), payload, snapshotCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("failed to cache snapshot", err)
	}
}
