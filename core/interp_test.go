package core

import (
	"testing"

	"github.com/communitypulse/pulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolateLinear(t *testing.T) {
	anchors := []schema.DataPoint{
		{Date: "2020-01", Stars: schema.IntPtr(100), Source: schema.SourceWayback},
		{Date: "2020-04", Stars: schema.IntPtr(400), Source: schema.SourceWayback},
	}

	series, err := Interpolate(anchors, []schema.Metric{schema.MetricStars})
	require.NoError(t, err)
	require.Len(t, series, 4)

	assert.Equal(t, "2020-01", series[0].Date)
	assert.Equal(t, 100, *series[0].Stars)
	assert.Equal(t, schema.SourceWayback, series[0].Source)

	assert.Equal(t, "2020-02", series[1].Date)
	assert.Equal(t, 200, *series[1].Stars)
	assert.Equal(t, schema.SourceInterpolated, series[1].Source)

	assert.Equal(t, "2020-03", series[2].Date)
	assert.Equal(t, 300, *series[2].Stars)

	assert.Equal(t, "2020-04", series[3].Date)
	assert.Equal(t, 400, *series[3].Stars)
}

func TestInterpolateRounding(t *testing.T) {
	anchors := []schema.DataPoint{
		{Date: "2021-01", Stars: schema.IntPtr(0)},
		{Date: "2021-04", Stars: schema.IntPtr(10)},
	}
	series, err := Interpolate(anchors, []schema.Metric{schema.MetricStars})
	require.NoError(t, err)
	require.Len(t, series, 4)
	assert.Equal(t, 3, *series[1].Stars)
	assert.Equal(t, 7, *series[2].Stars)
}

func TestInterpolateNilEndpointStaysNil(t *testing.T) {
	anchors := []schema.DataPoint{
		{Date: "2020-01", Stars: schema.IntPtr(100), Forks: schema.IntPtr(10)},
		{Date: "2020-03", Stars: schema.IntPtr(300)},
	}
	series, err := Interpolate(anchors, []schema.Metric{schema.MetricStars, schema.MetricForks})
	require.NoError(t, err)
	require.Len(t, series, 3)

	assert.Equal(t, 200, *series[1].Stars)
	assert.Nil(t, series[1].Forks)
}

func TestInterpolateCrossYearBoundary(t *testing.T) {
	anchors := []schema.DataPoint{
		{Date: "2020-11", Stars: schema.IntPtr(100)},
		{Date: "2021-02", Stars: schema.IntPtr(400)},
	}
	series, err := Interpolate(anchors, []schema.Metric{schema.MetricStars})
	require.NoError(t, err)
	require.Len(t, series, 4)
	assert.Equal(t, "2020-12", series[1].Date)
	assert.Equal(t, "2021-01", series[2].Date)
	assert.Equal(t, 300, *series[2].Stars)
}

func TestInterpolateRejectsUnorderedAnchors(t *testing.T) {
	anchors := []schema.DataPoint{
		{Date: "2020-04", Stars: schema.IntPtr(400)},
		{Date: "2020-01", Stars: schema.IntPtr(100)},
	}
	_, err := Interpolate(anchors, []schema.Metric{schema.MetricStars})
	assert.ErrorContains(t, err, "strictly ascending")
}

func TestInterpolateEmptyAndSingle(t *testing.T) {
	series, err := Interpolate(nil, []schema.Metric{schema.MetricStars})
	require.NoError(t, err)
	assert.Empty(t, series)

	single := []schema.DataPoint{{Date: "2020-01", Stars: schema.IntPtr(1)}}
	series, err = Interpolate(single, []schema.Metric{schema.MetricStars})
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "2020-01", series[0].Date)
}

func TestInterpolateDoesNotMutateAnchors(t *testing.T) {
	anchors := []schema.DataPoint{
		{Date: "2020-01", Stars: schema.IntPtr(100)},
		{Date: "2020-03", Stars: schema.IntPtr(300)},
	}
	_, err := Interpolate(anchors, []schema.Metric{schema.MetricStars})
	require.NoError(t, err)
	assert.Equal(t, 100, *anchors[0].Stars)
	assert.Equal(t, "", anchors[0].Source)
}
