package cmd

import (
	"errors"

	"github.com/communitypulse/pulse/core"
	"github.com/communitypulse/pulse/internal/contract"
	"github.com/spf13/cobra"
)

// backfillCmd reconstructs monthly history from archived snapshots.
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Reconstruct monthly history from archived web snapshots",
	Long: `Replay archived snapshots to rebuild monthly observations for past periods.

For each month in the inclusive --from/--to window, the closest archived
snapshot of the source page is located and scraped for counts. Scraped
snapshots are cached in the snapshot cache, so re-running a window only
hits the network for months not seen before.

Only families with an archival source support backfill:
  github - stars, forks and open issues scraped from archived repo pages
  reddit - subscriber counts scraped from archived subreddit pages

A month with no usable snapshot is skipped with a warning. A fixed delay
separates consecutive network requests; cache hits skip the delay.

Requires: --family, --from and --to

Examples:
  # Rebuild two years of GitHub history
  pulse backfill --family github --github-owner myorg --github-repo myrepo --from 2022-01 --to 2023-12

  # Rebuild subreddit history with a gentler request cadence
  pulse backfill --family reddit --subreddit example --from 2023-01 --to 2023-06 --delay-ms 5000`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.Family == "" {
			contract.LogFatal("Cannot run backfill", errors.New("--family is required"))
		}
		if cfg.BackfillFrom == "" || cfg.BackfillTo == "" {
			contract.LogFatal("Cannot run backfill", errors.New("--from and --to are required"))
		}
		if err := core.ExecuteBackfill(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run backfill", err)
		}
	},
}
