package cmd

import (
	"errors"

	"github.com/communitypulse/pulse/core"
	"github.com/communitypulse/pulse/internal/contract"
	"github.com/spf13/cobra"
)

// mergeCmd reconciles a secondary monthly series into the primary history.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Reconcile a secondary monthly series into the primary history",
	Long: `Fill gaps in the primary monthly history from a secondary series.

The secondary series (typically produced by backfill or interpolate) only
ever fills months where the primary has no value; a primary observation is
never overwritten. Filled values carry a source tag naming where they came
from, so provenance survives in the stored history.

With --calibration, the value difference between the two series in that
month is learned per metric and applied to every fill, compensating for a
systematic offset between the sources. Months where both series have a
value are compared and reported as divergences when they differ by more
than the configured thresholds.

Requires: --family and --secondary

Examples:
  # Fill gaps from an archived series
  pulse merge --family github --secondary data/github-wayback.json

  # Calibrate against a month where both series overlap
  pulse merge --family reddit --secondary old-subs.json --calibration 2021-06

  # Tighten divergence reporting
  pulse merge --family github --secondary archive.json --diverge-abs 10 --diverge-pct 2.5`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.Family == "" {
			contract.LogFatal("Cannot run merge", errors.New("--family is required"))
		}
		if cfg.SecondaryFile == "" {
			contract.LogFatal("Cannot run merge", errors.New("--secondary is required"))
		}
		if err := core.ExecuteMerge(cfg); err != nil {
			contract.LogFatal("Cannot run merge", err)
		}
	},
}
