package http_test

import (
	"context"
	"time"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
)

const (
	time2s = 2 * time.Second
	tick   = 5 * time.Millisecond
)

type errorString string

func (e errorString) Error() string { return string(e) }

// londonTypo geocodes "Londn" to central London and nothing else.
type londonTypo struct{}

func (londonTypo) ForwardGeocode(_ context.Context, place string) (domain.GeocodingResult, error) {
	if place == "Londn" {
		return domain.GeocodingResult{Lat: 51.5072, Lon: -0.1276, PlaceName: "London"}, nil
	}
	return domain.GeocodingResult{}, nil
}
