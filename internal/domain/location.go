package domain

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsZero reports whether no coordinates are set.
func (g Geo) IsZero() bool {
	return g.Lat == 0 && g.Lon == 0
}

// KnownLocation is a supported city and the region whose table it reads.
type KnownLocation struct {
	Key       string  `json:"key" yaml:"key"` // normalized city name
	Region    string  `json:"region" yaml:"region"`
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
}

// Geo returns the location's coordinates.
func (l KnownLocation) Geo() Geo {
	return Geo{Lat: l.Latitude, Lon: l.Longitude}
}
