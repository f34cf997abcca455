package cmd

import (
	"github.com/communitypulse/pulse/core"
	"github.com/communitypulse/pulse/internal/contract"
	"github.com/spf13/cobra"
)

// fetchCmd polls live sources and folds the results into the histories.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Poll live sources and fold today's counts into the histories",
	Long: `Poll each configured metric family once and persist the results.

For every family this command:
- Fetches the current counts from the live source
- Appends the observation to the family's raw log (one entry per day, last write wins)
- Rebuilds the daily, weekly and monthly series from the raw log
- Records the run in the run ledger when one is configured

A family whose source is unreachable is skipped with a warning; the other
families still run. Use --family to restrict the run to one family.

Examples:
  # Fetch every configured family
  pulse fetch --github-owner myorg --github-repo myrepo --forum-url https://forum.example.org

  # Fetch a single family
  pulse fetch --family bluesky --bluesky-handle example.bsky.social

  # Slow down between requests
  pulse fetch --delay-ms 2500`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFetch(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run fetch", err)
		}
	},
}
