//go:build basic

// Package integration contains integration tests for pulse.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// historyFile mirrors the persisted history layout for assertions.
type historyFile struct {
	LastUpdated string      `json:"lastUpdated"`
	Monthly     []pointFile `json:"monthly"`
}

// pointFile mirrors the persisted data point layout for assertions.
type pointFile struct {
	Date         string `json:"date"`
	Stars        *int   `json:"stars"`
	Subscribers  *int   `json:"subscribers"`
	Source       string `json:"source"`
	SourceDetail string `json:"sourceDetail"`
}

// runPulse executes the shared pulse binary and returns its combined output.
func runPulse(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getPulseBinary(), args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

// TestInterpolatePipeline runs interpolate end to end and verifies that the
// persisted monthly series is dense between the anchors.
func TestInterpolatePipeline(t *testing.T) {
	workDir := t.TempDir()
	anchorsPath := filepath.Join(workDir, "anchors.yaml")
	anchors := `anchors:
  - date: 2020-01
    subscribers: 100
  - date: 2020-04
    subscribers: 400
`
	require.NoError(t, os.WriteFile(anchorsPath, []byte(anchors), 0o644))

	output, err := runPulse(t, workDir,
		"interpolate", "--family", "reddit", "--anchors", anchorsPath,
		"--data-dir", filepath.Join(workDir, "data"), "--cache-backend", "none")
	require.NoError(t, err, "output: %s", output)

	raw, err := os.ReadFile(filepath.Join(workDir, "data", "reddit.json"))
	require.NoError(t, err)

	var hist historyFile
	require.NoError(t, json.Unmarshal(raw, &hist))
	require.Len(t, hist.Monthly, 4)

	require.NotNil(t, hist.Monthly[1].Subscribers)
	assert.Equal(t, "2020-02", hist.Monthly[1].Date)
	assert.Equal(t, 200, *hist.Monthly[1].Subscribers)
	assert.Equal(t, "interpolated", hist.Monthly[1].Source)

	require.NotNil(t, hist.Monthly[2].Subscribers)
	assert.Equal(t, 300, *hist.Monthly[2].Subscribers)
}

// TestMergePipeline seeds a gappy primary history and verifies that merge
// fills the gap from the secondary series without touching real values.
func TestMergePipeline(t *testing.T) {
	workDir := t.TempDir()
	dataDir := filepath.Join(workDir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	primary := `{"lastUpdated":"2024-03-01T00:00:00Z","daily":[],"weekly":[],"monthly":[
  {"date":"2024-01","source":"github-api"},
  {"date":"2024-02","stars":150,"source":"github-api"}
]}`
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "github.json"), []byte(primary), 0o644))

	secondary := `[
  {"date":"2024-01","stars":42,"source":"wayback"},
  {"date":"2024-02","stars":151,"source":"wayback"}
]`
	secondaryPath := filepath.Join(workDir, "secondary.json")
	require.NoError(t, os.WriteFile(secondaryPath, []byte(secondary), 0o644))

	output, err := runPulse(t, workDir,
		"merge", "--family", "github", "--secondary", secondaryPath,
		"--data-dir", dataDir, "--cache-backend", "none", "--output", "json")
	require.NoError(t, err, "output: %s", output)

	raw, err := os.ReadFile(filepath.Join(dataDir, "github.json"))
	require.NoError(t, err)

	var hist historyFile
	require.NoError(t, json.Unmarshal(raw, &hist))
	require.Len(t, hist.Monthly, 2)

	// Gap filled from the secondary with provenance recorded
	require.NotNil(t, hist.Monthly[0].Stars)
	assert.Equal(t, 42, *hist.Monthly[0].Stars)
	assert.Contains(t, hist.Monthly[0].SourceDetail, "wayback")

	// Real observation untouched
	require.NotNil(t, hist.Monthly[1].Stars)
	assert.Equal(t, 150, *hist.Monthly[1].Stars)
}

// TestExportPipeline verifies that export produces a Parquet history file.
func TestExportPipeline(t *testing.T) {
	workDir := t.TempDir()
	dataDir := filepath.Join(workDir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	history := `{"lastUpdated":"2024-03-01T00:00:00Z","daily":[],"weekly":[],"monthly":[
  {"date":"2024-01","stars":1200,"source":"github-api"},
  {"date":"2024-02","stars":1340,"source":"github-api"}
]}`
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "github.json"), []byte(history), 0o644))

	outputBase := filepath.Join(workDir, "pulse-data")
	output, err := runPulse(t, workDir,
		"export", "--family", "github", "--output-file", outputBase,
		"--data-dir", dataDir, "--cache-backend", "none")
	require.NoError(t, err, "output: %s", output)

	assert.FileExists(t, outputBase+".history.parquet")
}

// TestVersionCommand sanity checks the version output.
func TestVersionCommand(t *testing.T) {
	output, err := runPulse(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, output, "pulse CLI")
	assert.Contains(t, output, "Version:")
	assert.Contains(t, output, "Families: github, forum, bluesky, reddit, events, creators")
}
