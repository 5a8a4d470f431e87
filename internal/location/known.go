package location

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
)

//go:embed locations.yaml
var locationsYAML []byte

// geohashPrecision of 6 gives cells of roughly 1.2km x 0.6km.
const geohashPrecision = 6

// Known returns the compiled-in set of supported cities, sorted by key.
// The slice is shared; callers must not modify it.
var Known = sync.OnceValue(func() []domain.KnownLocation {
	locs, err := ParseLocations(locationsYAML)
	if err != nil {
		panic(fmt.Sprintf("location: embedded locations.yaml: %v", err))
	}
	return locs
})

// ParseLocations decodes a YAML list of known locations, normalizing keys and
// rejecting duplicates or entries without a region.
func ParseLocations(data []byte) ([]domain.KnownLocation, error) {
	var locs []domain.KnownLocation
	if err := yaml.Unmarshal(data, &locs); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}

	seen := make(map[string]bool, len(locs))
	for i := range locs {
		locs[i].Key = Normalize(locs[i].Key)
		locs[i].Region = strings.ToUpper(strings.TrimSpace(locs[i].Region))
		if locs[i].Key == "" || locs[i].Region == "" {
			return nil, fmt.Errorf("location %d: key and region are required", i)
		}
		if seen[locs[i].Key] {
			return nil, fmt.Errorf("duplicate location %q", locs[i].Key)
		}
		seen[locs[i].Key] = true
	}

	sort.Slice(locs, func(i, j int) bool { return locs[i].Key < locs[j].Key })
	return locs, nil
}

// Normalize lowercases a city name, trims it and collapses inner whitespace.
func Normalize(city string) string {
	return strings.Join(strings.Fields(strings.ToLower(city)), " ")
}

// Listing is a known location as exposed to API clients.
type Listing struct {
	domain.KnownLocation
	Geohash string `json:"geohash"`
}

// NewListing annotates a location with its geohash cell.
func NewListing(l domain.KnownLocation) Listing {
	return Listing{
		KnownLocation: l,
		Geohash:       geohash.EncodeWithPrecision(l.Latitude, l.Longitude, geohashPrecision),
	}
}
