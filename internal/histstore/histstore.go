// Package histstore persists raw logs and aggregated histories as JSON files.
//
// Each metric family owns a <family>_raw.json raw log and a <family>.json
// history under the data directory. Every save rewrites the whole file; the
// one-scheduled-run-at-a-time operating model makes locking unnecessary.
package histstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/communitypulse/pulse/schema"
)

// Store reads and writes the per-family JSON files under one data directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the given data directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// RawLogPath returns the raw log file path for a family.
func (s *Store) RawLogPath(family schema.Family) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_raw.json", family))
}

// HistoryPath returns the aggregated history file path for a family.
func (s *Store) HistoryPath(family schema.Family) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.json", family))
}

// LoadRawLog reads a family's raw log. A missing file is an empty log;
// malformed JSON fails fast.
func (s *Store) LoadRawLog(family schema.Family) (*schema.RawLog, error) {
	data, err := os.ReadFile(s.RawLogPath(family))
	if errors.Is(err, fs.ErrNotExist) {
		return &schema.RawLog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read raw log for %s: %w", family, err)
	}

	var log schema.RawLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("malformed raw log %s: %w", s.RawLogPath(family), err)
	}
	schema.SortPointsByDate(log.Entries)
	return &log, nil
}

// SaveRawLog rewrites a family's raw log wholesale.
func (s *Store) SaveRawLog(family schema.Family, log *schema.RawLog) error {
	schema.SortPointsByDate(log.Entries)
	return s.writeJSON(s.RawLogPath(family), log)
}

// LoadHistory reads a family's aggregated history. A missing file is an
// empty history; malformed JSON fails fast.
func (s *Store) LoadHistory(family schema.Family) (*schema.History, error) {
	data, err := os.ReadFile(s.HistoryPath(family))
	if errors.Is(err, fs.ErrNotExist) {
		return &schema.History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history for %s: %w", family, err)
	}

	var hist schema.History
	if err := json.Unmarshal(data, &hist); err != nil {
		return nil, fmt.Errorf("malformed history %s: %w", s.HistoryPath(family), err)
	}
	return &hist, nil
}

// SaveHistory rewrites a family's aggregated history wholesale.
func (s *Store) SaveHistory(family schema.Family, hist *schema.History) error {
	return s.writeJSON(s.HistoryPath(family), hist)
}

// LoadSeries reads a standalone series file used as secondary merge input.
// The file may hold either a bare array of points or a full history object,
// in which case the monthly series is used.
func LoadSeries(path string) ([]schema.DataPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read series file %s: %w", path, err)
	}

	var points []schema.DataPoint
	if err := json.Unmarshal(data, &points); err == nil {
		schema.SortPointsByDate(points)
		return points, nil
	}

	var hist schema.History
	if err := json.Unmarshal(data, &hist); err != nil {
		return nil, fmt.Errorf("malformed series file %s: %w", path, err)
	}
	points = hist.Monthly
	schema.SortPointsByDate(points)
	return points, nil
}

// writeJSON marshals v with indentation and rewrites the target file.
func (s *Store) writeJSON(path string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", s.dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
