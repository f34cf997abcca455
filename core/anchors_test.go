package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAnchors(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anchors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAnchors(t *testing.T) {
	path := writeAnchors(t, `anchors:
  - date: "2019-06"
    subscribers: 1200
    source: wayback
  - date: "2019-09"
    subscribers: 2400
`)

	anchors, err := LoadAnchors(path)
	require.NoError(t, err)
	require.Len(t, anchors, 2)
	assert.Equal(t, "2019-06", anchors[0].Date)
	assert.Equal(t, 1200, *anchors[0].Subscribers)
	assert.Equal(t, "wayback", anchors[0].Source)
	assert.Nil(t, anchors[0].Stars)
	assert.Equal(t, 2400, *anchors[1].Subscribers)
}

func TestLoadAnchorsRejectsUnordered(t *testing.T) {
	path := writeAnchors(t, `anchors:
  - date: "2019-09"
    subscribers: 2400
  - date: "2019-06"
    subscribers: 1200
`)
	_, err := LoadAnchors(path)
	assert.ErrorContains(t, err, "strictly ascending")
}

func TestLoadAnchorsRejectsBadMonthKey(t *testing.T) {
	path := writeAnchors(t, `anchors:
  - date: "June 2019"
    subscribers: 1200
`)
	_, err := LoadAnchors(path)
	assert.Error(t, err)
}

func TestLoadAnchorsEmptyFile(t *testing.T) {
	path := writeAnchors(t, `anchors: []`)
	_, err := LoadAnchors(path)
	assert.ErrorContains(t, err, "no anchor records")
}

func TestLoadAnchorsMissingFile(t *testing.T) {
	_, err := LoadAnchors(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
