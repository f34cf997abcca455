package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/communitypulse/pulse/schema"
	"github.com/fatih/color"
)

// Divergence label constants.
const (
	MajorValue = "Major" // beyond both thresholds
	MinorValue = "Minor" // beyond one threshold
	FilledTag  = "Filled"
)

// Color variables for console output.
var (
	MajorColor  = color.New(color.FgRed, color.Bold) // strong disagreement between sources
	MinorColor  = color.New(color.FgYellow)          // mild disagreement, informational
	FilledColor = color.New(color.FgCyan)            // sentinel field filled from secondary
)

// GetPlainDivergenceLabel classifies a divergence row against the configured
// thresholds. This is the core logic shared by CSV, JSON, and table printing.
func GetPlainDivergenceLabel(row schema.DivergenceRow, absThreshold int, pctThreshold float64) string {
	if row.AbsDiff >= absThreshold && row.PctDiff >= pctThreshold {
		return MajorValue
	}
	return MinorValue
}

// GetColorDivergenceLabel returns a colored label for console table output.
func GetColorDivergenceLabel(row schema.DivergenceRow, absThreshold int, pctThreshold float64) string {
	text := GetPlainDivergenceLabel(row, absThreshold, pctThreshold)
	if text == MajorValue {
		return MajorColor.Sprint(text)
	}
	return MinorColor.Sprint(text)
}

// FormatMetricValue renders an optional metric for table output, using "-"
// for values that were never measured.
func FormatMetricValue(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// SelectOutputFile returns the appropriate file handle for output based on
// the provided path, falling back to os.Stdout when empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// GetCacheDBFilePath returns the path to the SQLite DB file for snapshot
// cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pulse_cache.db"
	}
	return filepath.Join(homeDir, ".pulse_cache.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for the run
// ledger.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pulse_runs.db"
	}
	return filepath.Join(homeDir, ".pulse_runs.db")
}
