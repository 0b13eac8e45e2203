package geofence

import (
	"math"

	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/entities"
)

const EarthRadiusMeters = 6_371_000.0

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Great-circle distance between a and b in meters.
func HaversineDistance(a Coordinate, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Evaluate returns nil when point may mark attendance inside fence.
// Inactive fences accept everything, including a missing point. The radius
// is inclusive.
func Evaluate(fence entities.GeoFence, point *Coordinate) error {
	if !fence.Active {
		return nil
	}
	if point == nil {
		return apperrors.NewFailure(apperrors.LocationUnavailable, "no coordinates supplied")
	}
	distance := HaversineDistance(Coordinate{Latitude: fence.Latitude, Longitude: fence.Longitude}, *point)
	if distance <= fence.Radius {
		return nil
	}
	return apperrors.NewMeasuredFailure(apperrors.OutsideFence, distance,
		"%.1fm from %s, allowed radius is %.0fm", distance, fence.Name, fence.Radius)
}
