// Package location resolves free-text city names to the region whose season
// table applies to them.
package location

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
)

// ErrNotFound means the input could not be mapped to a supported location.
var ErrNotFound = errors.New("location not found")

const (
	// MaxFuzzyDistance caps the edit distance accepted for name matches.
	MaxFuzzyDistance = 3

	// minFuzzyLen keeps short inputs from matching unrelated short keys.
	minFuzzyLen = 4

	// DefaultMaxNearestKm bounds the nearest-city fallback.
	DefaultMaxNearestKm = 50.0
)

// Method records how a city was resolved.
type Method string

const (
	MethodExact   Method = "exact"
	MethodFuzzy   Method = "fuzzy"
	MethodNearest Method = "nearest"
)

// Resolution is the outcome of a successful lookup.
type Resolution struct {
	Query      string               `json:"query"` // normalized input
	Location   domain.KnownLocation `json:"location"`
	Method     Method               `json:"method"`
	DistanceKm float64              `json:"distance_km"`
}

// Region returns the region code of the matched location.
func (r Resolution) Region() string {
	return r.Location.Region
}

// Resolver maps city names to known locations. It is safe for concurrent use.
type Resolver struct {
	locations     []domain.KnownLocation
	byKey         map[string]domain.KnownLocation
	geocoder      domain.Geocoder
	fuzzyDistance int
	maxNearestKm  float64
	logger        *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithGeocoder enables the nearest-city fallback. A nil geocoder leaves it off.
func WithGeocoder(g domain.Geocoder) Option {
	return func(r *Resolver) {
		r.geocoder = g
	}
}

// WithFuzzyDistance sets the maximum edit distance for name matches.
// Zero, the default, disables fuzzy matching; values above MaxFuzzyDistance
// are capped. A fuzzy match also needs a geocoder to confirm it.
func WithFuzzyDistance(d int) Option {
	return func(r *Resolver) {
		r.fuzzyDistance = min(max(d, 0), MaxFuzzyDistance)
	}
}

// WithMaxNearestKm bounds how far a geocoded input may be from a known city.
func WithMaxNearestKm(km float64) Option {
	return func(r *Resolver) {
		if km > 0 {
			r.maxNearestKm = km
		}
	}
}

// WithLogger sets the logger used for geocoding warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver builds a resolver over locations. Keys are expected to be
// normalized, as returned by ParseLocations or Known.
func NewResolver(locations []domain.KnownLocation, opts ...Option) *Resolver {
	r := &Resolver{
		locations:    locations,
		byKey:        make(map[string]domain.KnownLocation, len(locations)),
		maxNearestKm: DefaultMaxNearestKm,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, l := range locations {
		r.byKey[l.Key] = l
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Locations lists the known locations with their geohash cells.
func (r *Resolver) Locations() []Listing {
	out := make([]Listing, len(r.locations))
	for i, l := range r.locations {
		out[i] = NewListing(l)
	}
	return out
}

// Resolve maps a city name to a known location: exact key match first, then
// a fuzzy name match the geocoder places within maxNearestKm of the matched
// city, then the nearest known city to the geocoded input. Without a
// geocoder only exact matches resolve. Returns ErrNotFound when nothing
// applies.
func (r *Resolver) Resolve(ctx context.Context, city string) (Resolution, error) {
	key := Normalize(city)
	if key == "" {
		return Resolution{}, ErrNotFound
	}

	if l, ok := r.byKey[key]; ok {
		return Resolution{Query: key, Location: l, Method: MethodExact}, nil
	}

	if r.geocoder == nil {
		return Resolution{}, ErrNotFound
	}

	place := strings.TrimSpace(city)
	geo, ok := r.geocode(ctx, place)
	if !ok {
		return Resolution{}, ErrNotFound
	}

	if l, ok := r.fuzzyMatch(key); ok {
		if km := DistanceKm(geo, l.Geo()); km <= r.maxNearestKm {
			return Resolution{Query: key, Location: l, Method: MethodFuzzy, DistanceKm: km}, nil
		}
		r.logger.Debug("fuzzy match rejected by geocoder", "city", place, "candidate", l.Key)
	}

	return r.nearest(key, place, geo)
}

// geocode forward geocodes the raw input. Geocoder failures and empty
// results both report ok=false.
func (r *Resolver) geocode(ctx context.Context, place string) (domain.Geo, bool) {
	result, err := r.geocoder.ForwardGeocode(ctx, place)
	if err != nil {
		r.logger.Warn("forward geocoding failed", "city", place, "error", err)
		return domain.Geo{}, false
	}
	if result.Geo().IsZero() {
		return domain.Geo{}, false
	}
	return result.Geo(), true
}

// fuzzyMatch returns the key with the smallest edit distance within the
// configured bound. Ties go to the first key in sorted order.
func (r *Resolver) fuzzyMatch(key string) (domain.KnownLocation, bool) {
	if r.fuzzyDistance == 0 || utf8.RuneCountInString(key) < minFuzzyLen {
		return domain.KnownLocation{}, false
	}

	best := -1
	bestDist := r.fuzzyDistance + 1
	for i, l := range r.locations {
		d := levenshtein.ComputeDistance(key, l.Key)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return domain.KnownLocation{}, false
	}
	return r.locations[best], true
}

// nearest picks the closest known location to geo within maxNearestKm.
func (r *Resolver) nearest(key, place string, geo domain.Geo) (Resolution, error) {
	best := -1
	bestKm := math.Inf(1)
	for i, l := range r.locations {
		km := DistanceKm(geo, l.Geo())
		if km < bestKm {
			best, bestKm = i, km
		}
	}
	if best < 0 || bestKm > r.maxNearestKm {
		r.logger.Debug("geocoded city is not near a known location",
			"city", place,
			"distance_km", bestKm,
		)
		return Resolution{}, ErrNotFound
	}

	return Resolution{
		Query:      key,
		Location:   r.locations[best],
		Method:     MethodNearest,
		DistanceKm: bestKm,
	}, nil
}
