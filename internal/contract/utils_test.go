package contract

import (
	"testing"

	"github.com/communitypulse/pulse/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetPlainDivergenceLabel(t *testing.T) {
	major := schema.DivergenceRow{AbsDiff: 100, PctDiff: 12.0}
	minor := schema.DivergenceRow{AbsDiff: 100, PctDiff: 2.0}

	assert.Equal(t, MajorValue, GetPlainDivergenceLabel(major, 25, 5.0))
	assert.Equal(t, MinorValue, GetPlainDivergenceLabel(minor, 25, 5.0))
}

func TestFormatMetricValue(t *testing.T) {
	assert.Equal(t, "-", FormatMetricValue(nil))
	assert.Equal(t, "0", FormatMetricValue(schema.IntPtr(0)))
	assert.Equal(t, "1234", FormatMetricValue(schema.IntPtr(1234)))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestDBFilePathsDiffer(t *testing.T) {
	assert.NotEqual(t, GetCacheDBFilePath(), GetRunsDBFilePath())
}
