package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
	"github.com/couchcryptid/seasonal-produce/internal/location"
	"github.com/couchcryptid/seasonal-produce/internal/season"
)

// QueryService answers season queries.
type QueryService interface {
	Query(ctx context.Context, q season.Query) (season.Result, error)
}

// TableCatalog owns the cached season table.
type TableCatalog interface {
	sharedobs.ReadinessChecker
	Load(ctx context.Context) (domain.SeasonTable, error)
	Cached() (domain.SeasonTable, time.Time, bool)
}

// LocationLister lists the supported locations.
type LocationLister interface {
	Locations() []location.Listing
}

// Options configures the optional static routes.
type Options struct {
	// ArtifactPath serves the season table file at /produce_data.json. When
	// empty, the cached table is served instead.
	ArtifactPath string
	// ImagesDir serves produce images under /images/ when set.
	ImagesDir string
}

// Server exposes the search page, the JSON API, and health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	service    QueryService
	catalog    TableCatalog
	locations  LocationLister
	opts       Options
	logger     *slog.Logger
}

// NewServer creates an HTTP server with all routes registered.
func NewServer(addr string, svc QueryService, catalog TableCatalog, locations LocationLister, opts Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service:   svc,
		catalog:   catalog,
		locations: locations,
		opts:      opts,
		logger:    logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/season", s.handleSeason)
	mux.HandleFunc("GET /api/locations", s.handleLocations)
	mux.HandleFunc("POST /api/season-table/reload", s.handleReload)
	mux.HandleFunc("GET /produce_data.json", s.handleArtifact)
	if opts.ImagesDir != "" {
		mux.Handle("GET /images/", http.StripPrefix("/images/", http.FileServer(http.Dir(opts.ImagesDir))))
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(catalog))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
