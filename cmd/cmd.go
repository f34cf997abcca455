// Package cmd defines the command-line interface for pulse.
package cmd

import (
	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(interpolateCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data-dir", contract.DefaultDataDir, "Directory holding raw logs and history files")
	rootCmd.PersistentFlags().String("family", "", "Restrict the run to a single metric family (github, forum, bluesky, reddit, events, creators)")
	rootCmd.PersistentFlags().String("github-owner", "", "GitHub repository owner")
	rootCmd.PersistentFlags().String("github-repo", "", "GitHub repository name")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub API token (prefer PULSE_GITHUB_TOKEN env var)")
	rootCmd.PersistentFlags().String("forum-url", "", "Discourse forum base URL")
	rootCmd.PersistentFlags().String("bluesky-handle", "", "Bluesky actor handle")
	rootCmd.PersistentFlags().String("subreddit", "", "Subreddit name without the /r/ prefix")
	rootCmd.PersistentFlags().String("events-url", "", "Community events page URL with JSON-LD markup")
	rootCmd.PersistentFlags().String("creators-url", "", "Creators leaderboard raw file URL ({rev} placeholder allowed)")
	rootCmd.PersistentFlags().Int("delay-ms", contract.DefaultFetchDelayMS, "Delay between network requests in milliseconds")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Snapshot cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run ledger backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for the run ledger (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of backfillCmd to Viper
	backfillCmd.Flags().String("from", "", "First month to reconstruct (YYYY-MM, inclusive)")
	backfillCmd.Flags().String("to", "", "Last month to reconstruct (YYYY-MM, inclusive)")
	if err := viper.BindPFlags(backfillCmd.Flags()); err != nil {
		contract.LogFatal("Error binding backfill flags", err)
	}

	// Bind all flags of interpolateCmd to Viper
	interpolateCmd.Flags().String("anchors", "", "Path to the YAML anchors file")
	if err := viper.BindPFlags(interpolateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding interpolate flags", err)
	}

	// Bind all flags of mergeCmd to Viper
	mergeCmd.Flags().String("secondary", "", "Path to the secondary monthly series file")
	mergeCmd.Flags().String("calibration", "", "Calibration period as a month key (YYYY-MM)")
	mergeCmd.Flags().Int("diverge-abs", contract.DefaultDivergeAbs, "Absolute difference threshold for divergence reporting")
	mergeCmd.Flags().Float64("diverge-pct", contract.DefaultDivergePct, "Percentage difference threshold for divergence reporting")
	if err := viper.BindPFlags(mergeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding merge flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
