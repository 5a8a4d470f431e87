// Package observability defines the Prometheus metrics of the service and its
// offline builder.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "inseason"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	Queries     *prometheus.CounterVec // labels: outcome={ok,empty,missing_city,unsupported_city,bad_date,load_error,loading,malformed}
	Resolutions *prometheus.CounterVec // labels: method={exact,fuzzy,nearest}

	// Season table metrics.
	TableLoads        *prometheus.CounterVec // labels: outcome={success,error,busy}
	TableLoadDuration prometheus.Histogram
	TableLoaded       prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge

	// Builder metrics.
	BuildRecords *prometheus.CounterVec // labels: result={read,placed,skipped}
	TableWrites  *prometheus.CounterVec // labels: loader, outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Queries,
		m.Resolutions,
		m.TableLoads,
		m.TableLoadDuration,
		m.TableLoaded,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
		m.BuildRecords,
		m.TableWrites,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Season queries by outcome.",
		}, []string{"outcome"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "city_resolutions_total",
			Help:      "Successful city resolutions by method.",
		}, []string{"method"}),
		TableLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "season_table_loads_total",
			Help:      "Season table load attempts by outcome.",
		}, []string{"outcome"}),
		TableLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "season_table_load_duration_seconds",
			Help:      "Duration of a season table fetch and decode.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		TableLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "season_table_loaded",
			Help:      "1 once a season table is cached, 0 before.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when nearest-city geocoding is enabled, 0 otherwise.",
		}),
		BuildRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_records_total",
			Help:      "Spreadsheet records seen by the table builder, by result.",
		}, []string{"result"}),
		TableWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_writes_total",
			Help:      "Season table writes by loader and outcome.",
		}, []string{"loader", "outcome"}),
	}
}
