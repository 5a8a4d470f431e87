package season

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
	"github.com/couchcryptid/seasonal-produce/internal/location"
	"github.com/couchcryptid/seasonal-produce/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubSource serves fixed bytes. With gate set, Fetch signals started and
// blocks until gate is closed.
type stubSource struct {
	data    atomic.Pointer[[]byte]
	err     atomic.Pointer[error]
	calls   atomic.Int32
	started chan struct{}
	gate    chan struct{}
}

func newStubSource(data []byte) *stubSource {
	s := &stubSource{}
	s.setData(data)
	return s
}

func (s *stubSource) setData(data []byte) { s.data.Store(&data) }

func (s *stubSource) setErr(err error) {
	if err == nil {
		s.err.Store(nil)
		return
	}
	s.err.Store(&err)
}

func (s *stubSource) Fetch(_ context.Context) ([]byte, error) {
	s.calls.Add(1)
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}
	if err := s.err.Load(); err != nil {
		return nil, *err
	}
	return *s.data.Load(), nil
}

func (s *stubSource) Describe() string { return "stub" }

// produceRecords covers June with four items across three categories and
// leaves February, September, and October empty.
var produceRecords = []domain.SeasonRecord{
	{Row: 2, Name: "Strawberries", Category: "fruit", SeasonStart: "Jun", SeasonEnd: "Aug"},
	{Row: 3, Name: "Asparagus", Category: "veg", SeasonStart: "Apr", SeasonEnd: "Jun"},
	{Row: 4, Name: "Elderflower", Category: "forage", SeasonStart: "May", SeasonEnd: "Jun"},
	{Row: 5, Name: "Cherries", Category: "fruit", SeasonStart: "Jun", SeasonEnd: "Jul"},
	{Row: 6, Name: "Wild Garlic", Category: "forage", SeasonStart: "Mar", SeasonEnd: "May"},
	{Row: 7, Name: "Leeks", Category: "veg", SeasonStart: "Nov", SeasonEnd: "Jan"},
}

func produceJSON(t *testing.T) []byte {
	t.Helper()
	table, _ := domain.BuildTable(domain.DefaultRegion, produceRecords, discardLogger())
	data, err := json.Marshal(table)
	require.NoError(t, err)
	return data
}

// freezeClock pins domain.Now to the given date for the duration of the test.
func freezeClock(t *testing.T, year int, month time.Month, day int) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(year, month, day, 12, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func newTestCatalog(src Source) (*Catalog, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	return NewCatalog(src, []string{domain.DefaultRegion}, discardLogger(), m), m
}

// placeGeocoder answers ForwardGeocode from a fixed table of places; unknown
// places yield a zero result.
type placeGeocoder map[string]domain.GeocodingResult

func (g placeGeocoder) ForwardGeocode(_ context.Context, place string) (domain.GeocodingResult, error) {
	return g[place], nil
}

var testPlaces = placeGeocoder{
	"Londn":  {Lat: 51.5072, Lon: -0.1276, PlaceName: "London"},
	"Lindon": {Lat: 40.3433, Lon: -111.7208, PlaceName: "Lindon"},
}

func newTestService(src Source) (*Service, *Catalog, *observability.Metrics) {
	catalog, m := newTestCatalog(src)
	resolver := location.NewResolver(location.Known(),
		location.WithFuzzyDistance(1),
		location.WithGeocoder(testPlaces),
	)
	return NewService(resolver, catalog, discardLogger(), m), catalog, m
}
