package cmd

import (
	"fmt"

	"github.com/communitypulse/pulse/internal/contract"
	"github.com/communitypulse/pulse/internal/iocache"
	"github.com/communitypulse/pulse/internal/outwriter"
	"github.com/communitypulse/pulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsSetup loads minimal configuration needed for run ledger operations.
// This is used by commands that need ledger access without full shared setup.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get ledger-related config values
	backendStr := viper.GetString("runs-backend")
	connStr := viper.GetString("runs-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize stores with the loaded config (no snapshot cache for ledger commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run ledger: %w", err)
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.Width = viper.GetInt("width")
	cacheManager = iocache.Manager

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for ledger commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func runsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get ledger-related config values
	backendStr := viper.GetString("runs-backend")
	connStr := viper.GetString("runs-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRunsDBFilePath()
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr

	return nil
}

// runsMigrateSetupWrapper wraps runsMigrateSetup to provide PreRunE.
func runsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsMigrateSetup()
}

// runsCmd focused on run ledger management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the pipeline run ledger",
	Long: `Manage the ledger that records every fetch and backfill run.

When enabled, Pulse records each run with:
- The family and operation that ran
- Start and end timestamps
- Fetched, skipped and upserted counts
- The configuration parameters in effect

This makes pipeline activity auditable and enables export for reporting.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run ledger statistics
  list    - List recorded runs
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Check ledger status
  PULSE_RUNS_BACKEND=sqlite pulse runs status

  # List recorded runs as JSON
  PULSE_RUNS_BACKEND=sqlite pulse runs list --output json`,
}

// runsClearCmd clears the run ledger.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded pipeline runs",
	Long: `Delete all stored run records from the configured backend.

WARNING: This action cannot be undone. Consider exporting data first.

Use this when:
- Resetting run history
- Database storage is full
- Testing ledger features

Examples:
  # Export before clearing
  pulse export --output-file backup
  PULSE_RUNS_BACKEND=sqlite pulse runs clear`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearRuns(cfg.RunsBackend, contract.GetRunsDBFilePath(), cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear run ledger", err)
		}
		fmt.Println("Run ledger cleared successfully.")
	},
}

// runsStatusCmd shows run ledger status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run ledger statistics and connection details",
	Long: `Show detailed information about the pipeline run ledger.

Displays:
- Backend type and connection status
- Total number of recorded runs
- Last and oldest run timestamps
- Total fetched and upserted counts across all runs

Use this to:
- Verify run tracking is enabled and working
- Monitor pipeline activity over time
- Debug ledger connection issues

Examples:
  # Check run ledger status
  PULSE_RUNS_BACKEND=sqlite pulse runs status`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := cacheManager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run ledger status", err)
		}
		if err := outwriter.WriteRunsStatus(cfg, status); err != nil {
			contract.LogFatal("Failed to write run ledger status", err)
		}
	},
}

// runsListCmd lists recorded runs.
var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded pipeline runs",
	Long: `Print every recorded run, oldest first.

Each run shows its family, start and end time, fetched, skipped and
upserted counts, and the configuration parameters it ran with. Use
--output json or --output csv for machine-readable listings.

Examples:
  # Human-readable table
  PULSE_RUNS_BACKEND=sqlite pulse runs list

  # Feed into jq
  PULSE_RUNS_BACKEND=sqlite pulse runs list --output json | jq '.[].family'`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runs, err := cacheManager.GetRunStore().GetAllRuns()
		if err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
		if err := outwriter.WriteRuns(cfg, runs); err != nil {
			contract.LogFatal("Failed to write runs", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run ledger.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run ledger store.

Migrations allow:
- Upgrading to new schema versions when Pulse is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  PULSE_RUNS_BACKEND=sqlite pulse runs migrate

  # Migrate to specific version
  PULSE_RUNS_BACKEND=sqlite pulse runs migrate --target-version 1

  # Rollback to initial state
  PULSE_RUNS_BACKEND=sqlite pulse runs migrate --target-version 0`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunsBackend, cfg.RunsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
