package cmd

import (
	"errors"

	"github.com/communitypulse/pulse/core"
	"github.com/communitypulse/pulse/internal/contract"
	"github.com/spf13/cobra"
)

// interpolateCmd fills monthly gaps between hand-curated anchor values.
var interpolateCmd = &cobra.Command{
	Use:   "interpolate",
	Short: "Fill monthly gaps between hand-curated anchor values",
	Long: `Generate a dense monthly series from a sparse set of anchor observations.

Anchors are hand-curated data points (press releases, archived screenshots,
old reports) listed in a YAML file in ascending month order. Every month
between two consecutive anchors is filled by linear interpolation, rounded
to the nearest whole count. Metrics absent from both surrounding anchors
stay absent in the filled months.

The generated series replaces the family's persisted monthly history, so
run this before folding in live observations, not after.

Requires: --family and --anchors

Example anchors file:
  anchors:
    - date: 2019-06
      subscribers: 1200
    - date: 2020-01
      subscribers: 5400

Examples:
  # Densify early subreddit history
  pulse interpolate --family reddit --anchors reddit-anchors.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.Family == "" {
			contract.LogFatal("Cannot run interpolate", errors.New("--family is required"))
		}
		if cfg.AnchorsFile == "" {
			contract.LogFatal("Cannot run interpolate", errors.New("--anchors is required"))
		}
		if err := core.ExecuteInterpolate(cfg); err != nil {
			contract.LogFatal("Cannot run interpolate", err)
		}
	},
}
