package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkAttendanceCoordinate(t *testing.T) {
	lat, lon := 6.5244, 3.3792

	tests := []struct {
		name string
		body MarkAttendanceDTO
		want bool
	}{
		{name: "both axes", body: MarkAttendanceDTO{Latitude: &lat, Longitude: &lon}, want: true},
		{name: "latitude only", body: MarkAttendanceDTO{Latitude: &lat}, want: false},
		{name: "no location", body: MarkAttendanceDTO{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coordinate := tt.body.Coordinate()
			if !tt.want {
				assert.Nil(t, coordinate)
				return
			}
			require.NotNil(t, coordinate)
			assert.Equal(t, lat, coordinate.Latitude)
			assert.Equal(t, lon, coordinate.Longitude)
		})
	}
}
