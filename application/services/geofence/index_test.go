package geofence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/entities"
)

var campus = entities.GeoFence{
	Name:      "Main Block",
	Latitude:  12.9716,
	Longitude: 77.5946,
	Radius:    100,
	Active:    true,
}

func TestHaversineDistance(t *testing.T) {
	// one degree of latitude along a meridian
	d := HaversineDistance(Coordinate{Latitude: 0, Longitude: 0}, Coordinate{Latitude: 1, Longitude: 0})
	assert.InDelta(t, 111_194.93, d, 0.5)
	assert.Equal(t, 0.0, HaversineDistance(Coordinate{Latitude: 10, Longitude: 10}, Coordinate{Latitude: 10, Longitude: 10}))
}

func TestEvaluate(t *testing.T) {
	center := Coordinate{Latitude: campus.Latitude, Longitude: campus.Longitude}
	far := Coordinate{Latitude: campus.Latitude + 0.01, Longitude: campus.Longitude}

	tests := []struct {
		name   string
		fence  entities.GeoFence
		point  *Coordinate
		reason apperrors.Reason
	}{
		{name: "center passes", fence: campus, point: &center},
		{name: "missing point", fence: campus, point: nil, reason: apperrors.LocationUnavailable},
		{name: "far point", fence: campus, point: &far, reason: apperrors.OutsideFence},
		{name: "inactive fence ignores distance", fence: func() entities.GeoFence { f := campus; f.Active = false; return f }(), point: &far},
		{name: "inactive fence ignores missing point", fence: func() entities.GeoFence { f := campus; f.Active = false; return f }(), point: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Evaluate(tt.fence, tt.point)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.HasReason(err, tt.reason), "got %v", err)
		})
	}
}

func TestEvaluateBoundaryIsInclusive(t *testing.T) {
	point := Coordinate{Latitude: campus.Latitude + 0.0005, Longitude: campus.Longitude}
	fence := campus
	fence.Radius = HaversineDistance(Coordinate{Latitude: fence.Latitude, Longitude: fence.Longitude}, point)

	assert.NoError(t, Evaluate(fence, &point))

	fence.Radius -= 0.01
	err := Evaluate(fence, &point)
	failure := apperrors.AsFailure(err)
	require.NotNil(t, failure)
	assert.Equal(t, apperrors.OutsideFence, failure.Reason)
	require.NotNil(t, failure.Measurement)
	assert.Greater(t, *failure.Measurement, fence.Radius)
}
