package location

import (
	"github.com/golang/geo/s2"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points. s2 computes
// the central angle with the haversine formula.
func DistanceKm(a, b domain.Geo) float64 {
	from := s2.LatLngFromDegrees(a.Lat, a.Lon)
	to := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return from.Distance(to).Radians() * EarthRadiusKm
}
