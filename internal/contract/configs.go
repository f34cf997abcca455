package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/communitypulse/pulse/schema"
)

// Default values for configuration.
const (
	DefaultDataDir      = "data"
	DefaultFetchDelayMS = 1000
	MinFetchDelayMS     = 250
	MaxFetchDelayMS     = 10000

	DefaultDivergeAbs = 25
	DefaultDivergePct = 5.0

	// Retention windows applied by the aggregator.
	DefaultDailyRetentionDays  = 90
	DefaultWeeklyRetentionDays = 730
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// Config holds the runtime configuration for a pipeline run.
// This struct remains the "final, validated" config.
type Config struct {
	DataDir string
	Family  schema.Family

	// Live source targets
	GitHubOwner   string
	GitHubRepo    string
	GitHubToken   string // Please use env var as this is plaintext
	ForumURL      string
	BlueskyHandle string
	Subreddit     string
	EventsURL     string
	CreatorsURL   string // raw file URL template with a {rev} placeholder

	FetchDelay time.Duration

	Output     schema.OutputMode
	OutputFile string
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	// Backfill window, inclusive month keys
	BackfillFrom string
	BackfillTo   string

	// Interpolation anchors
	AnchorsFile string

	// Merge inputs
	SecondaryFile     string
	CalibrationPeriod string
	DivergeAbs        int
	DivergePct        float64

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	DataDir        string `mapstructure:"data-dir"`
	Family         string `mapstructure:"family"`
	GitHubOwner    string `mapstructure:"github-owner"`
	GitHubRepo     string `mapstructure:"github-repo"`
	GitHubToken    string `mapstructure:"github-token"`
	ForumURL       string `mapstructure:"forum-url"`
	BlueskyHandle  string `mapstructure:"bluesky-handle"`
	Subreddit      string `mapstructure:"subreddit"`
	EventsURL      string `mapstructure:"events-url"`
	CreatorsURL    string `mapstructure:"creators-url"`
	DelayMS        int    `mapstructure:"delay-ms"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Color          string `mapstructure:"color"`
	Width          int    `mapstructure:"width"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	RunsBackend    string `mapstructure:"runs-backend"`
	RunsDBConnect  string `mapstructure:"runs-db-connect"`

	// --- Fields from backfillCmd.Flags() ---
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`

	// --- Fields from interpolateCmd.Flags() ---
	Anchors string `mapstructure:"anchors"`

	// --- Fields from mergeCmd.Flags() ---
	Secondary   string  `mapstructure:"secondary"`
	Calibration string  `mapstructure:"calibration"`
	DivergeAbs  int     `mapstructure:"diverge-abs"`
	DivergePct  float64 `mapstructure:"diverge-pct"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processBackfillWindow(cfg, input); err != nil {
		return err
	}
	if err := processMergeInputs(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.GitHubOwner = strings.TrimSpace(input.GitHubOwner)
	cfg.GitHubRepo = strings.TrimSpace(input.GitHubRepo)
	cfg.GitHubToken = input.GitHubToken
	cfg.ForumURL = strings.TrimRight(strings.TrimSpace(input.ForumURL), "/")
	cfg.BlueskyHandle = strings.TrimSpace(input.BlueskyHandle)
	cfg.Subreddit = strings.TrimSpace(input.Subreddit)
	cfg.EventsURL = strings.TrimSpace(input.EventsURL)
	cfg.CreatorsURL = strings.TrimSpace(input.CreatorsURL)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.AnchorsFile = strings.TrimSpace(input.Anchors)

	// --- 1. DataDir ---
	cfg.DataDir = strings.TrimSpace(input.DataDir)
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}

	// --- 2. Family Validation ---
	// "all" is an alias for the empty selector
	if strings.EqualFold(input.Family, "all") {
		input.Family = ""
	}
	if input.Family != "" {
		cfg.Family = schema.Family(strings.ToLower(input.Family))
		if _, ok := schema.ValidFamilies[cfg.Family]; !ok {
			return fmt.Errorf("invalid family '%s'. must be github, forum, bluesky, reddit, events, creators", input.Family)
		}
	}

	// --- 3. Fetch Delay Validation ---
	if input.DelayMS < MinFetchDelayMS || input.DelayMS > MaxFetchDelayMS {
		return fmt.Errorf("delay-ms must be between %d and %d (received %d)", MinFetchDelayMS, MaxFetchDelayMS, input.DelayMS)
	}
	cfg.FetchDelay = time.Duration(input.DelayMS) * time.Millisecond

	// --- 4. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates snapshot cache and run ledger backends.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Snapshot Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Run Ledger Backend Validation ---
	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
			return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
		}
		cfg.RunsDBConnect = input.RunsDBConnect
		if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
			return err
		}

		// Cache and run ledger must not share one SQLite file.
		if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunsBackend == schema.SQLiteBackend {
			cachePath := cfg.CacheDBConnect
			if cachePath == "" {
				cachePath = GetCacheDBFilePath()
			}
			runsPath := cfg.RunsDBConnect
			if runsPath == "" {
				runsPath = GetRunsDBFilePath()
			}
			if cachePath == runsPath {
				return fmt.Errorf("cache and run ledger must use different SQLite database files. Both resolve to %q", cachePath)
			}
		}
	}

	return nil
}

// processBackfillWindow validates the inclusive backfill month range.
func processBackfillWindow(cfg *Config, input *ConfigRawInput) error {
	cfg.BackfillFrom = strings.TrimSpace(input.From)
	cfg.BackfillTo = strings.TrimSpace(input.To)

	if cfg.BackfillFrom == "" && cfg.BackfillTo == "" {
		return nil
	}
	if cfg.BackfillFrom == "" || cfg.BackfillTo == "" {
		return fmt.Errorf("backfill requires both --from and --to month keys")
	}

	gap, err := MonthsBetween(cfg.BackfillFrom, cfg.BackfillTo)
	if err != nil {
		return err
	}
	if gap < 0 {
		return fmt.Errorf("backfill window start %s is after end %s", cfg.BackfillFrom, cfg.BackfillTo)
	}
	return nil
}

// processMergeInputs validates merge parameters and divergence thresholds.
func processMergeInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.SecondaryFile = strings.TrimSpace(input.Secondary)
	cfg.CalibrationPeriod = strings.TrimSpace(input.Calibration)

	if cfg.CalibrationPeriod != "" {
		if _, _, err := ParseMonthKey(cfg.CalibrationPeriod); err != nil {
			return fmt.Errorf("invalid calibration period: %w", err)
		}
	}

	cfg.DivergeAbs = input.DivergeAbs
	if cfg.DivergeAbs <= 0 {
		cfg.DivergeAbs = DefaultDivergeAbs
	}
	cfg.DivergePct = input.DivergePct
	if cfg.DivergePct <= 0 {
		cfg.DivergePct = DefaultDivergePct
	}
	return nil
}
