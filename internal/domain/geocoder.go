package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geo returns the result's coordinates.
func (r GeocodingResult) Geo() Geo {
	return Geo{Lat: r.Lat, Lon: r.Lon}
}

// Geocoder turns free-text place names into coordinates.
type Geocoder interface {
	// ForwardGeocode converts a place name to coordinates. A zero result
	// with a nil error means the provider found no match.
	ForwardGeocode(ctx context.Context, place string) (GeocodingResult, error)
}
