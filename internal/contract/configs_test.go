package contract

import (
	"testing"
	"time"

	"github.com/communitypulse/pulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes all validation.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Family:       "github",
		GitHubOwner:  "acme",
		GitHubRepo:   "widgets",
		DelayMS:      DefaultFetchDelayMS,
		Output:       "text",
		Color:        "yes",
		CacheBackend: "sqlite",
		RunsBackend:  "none",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, schema.GitHubFamily, cfg.Family)
	assert.Equal(t, time.Second, cfg.FetchDelay)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultDivergeAbs, cfg.DivergeAbs)
	assert.Equal(t, DefaultDivergePct, cfg.DivergePct)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateAllFamilyAlias(t *testing.T) {
	input := validInput()
	input.Family = "all"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Empty(t, cfg.Family)
}

func TestProcessAndValidateRejectsBadFamily(t *testing.T) {
	input := validInput()
	input.Family = "myspace"
	err := ProcessAndValidate(&Config{}, input)
	assert.ErrorContains(t, err, "invalid family")
}

func TestProcessAndValidateRejectsBadDelay(t *testing.T) {
	input := validInput()
	input.DelayMS = 50
	err := ProcessAndValidate(&Config{}, input)
	assert.ErrorContains(t, err, "delay-ms")

	input.DelayMS = MaxFetchDelayMS + 1
	err = ProcessAndValidate(&Config{}, input)
	assert.ErrorContains(t, err, "delay-ms")
}

func TestProcessAndValidateRejectsBadOutput(t *testing.T) {
	input := validInput()
	input.Output = "xml"
	err := ProcessAndValidate(&Config{}, input)
	assert.ErrorContains(t, err, "invalid output format")
}

func TestProcessAndValidateBackfillWindow(t *testing.T) {
	input := validInput()
	input.From = "2021-03"
	input.To = "2022-01"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "2021-03", cfg.BackfillFrom)
	assert.Equal(t, "2022-01", cfg.BackfillTo)

	input.To = ""
	err := ProcessAndValidate(&Config{}, input)
	assert.ErrorContains(t, err, "both --from and --to")

	input.To = "2020-01"
	err = ProcessAndValidate(&Config{}, input)
	assert.ErrorContains(t, err, "is after end")
}

func TestProcessAndValidateCalibration(t *testing.T) {
	input := validInput()
	input.Calibration = "2022-06"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "2022-06", cfg.CalibrationPeriod)

	input.Calibration = "June 2022"
	err := ProcessAndValidate(&Config{}, input)
	assert.ErrorContains(t, err, "invalid calibration period")
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))

	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@host/db"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/pulse"))

	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=pulse"))
}

func TestSQLiteFilesMustDiffer(t *testing.T) {
	input := validInput()
	input.CacheBackend = "sqlite"
	input.CacheDBConnect = "/tmp/pulse.db"
	input.RunsBackend = "sqlite"
	input.RunsDBConnect = "/tmp/pulse.db"

	err := ProcessAndValidate(&Config{}, input)
	assert.ErrorContains(t, err, "different SQLite database files")
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Family: schema.ForumFamily, DataDir: "d"}
	clone := cfg.Clone()
	clone.Family = schema.GitHubFamily
	assert.Equal(t, schema.ForumFamily, cfg.Family)
}
