// Package season answers "what is in season" queries: it resolves a city to a
// region, reads the cached season table, and groups the month's produce by
// category for rendering.
package season

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
	"github.com/couchcryptid/seasonal-produce/internal/location"
	"github.com/couchcryptid/seasonal-produce/internal/observability"
)

// DateLayout is the preferred date format for query parameters.
const DateLayout = "2006-01-02"

// Resolver maps a city name to a known location.
type Resolver interface {
	Resolve(ctx context.Context, city string) (location.Resolution, error)
}

// Query is one lookup request. A zero Date means today.
type Query struct {
	City string
	Date time.Time
}

// Result is a successful lookup. Empty is set when the month bucket holds no
// items; Groups is then empty as well.
type Result struct {
	City       string              `json:"city"`
	Region     string              `json:"region"`
	Date       string              `json:"date"`
	Month      int                 `json:"month"`
	MonthName  string              `json:"month_name"`
	Resolution location.Resolution `json:"resolution"`
	Groups     []Group             `json:"groups"`
	Empty      bool                `json:"empty"`
}

// Service runs season queries against a catalog.
type Service struct {
	resolver Resolver
	catalog  *Catalog
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewService wires a resolver and catalog into a query service.
func NewService(resolver Resolver, catalog *Catalog, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		resolver: resolver,
		catalog:  catalog,
		logger:   logger,
		metrics:  metrics,
	}
}

// Query resolves the city, loads the table if needed, and returns the
// produce in season for the query month grouped by category.
func (s *Service) Query(ctx context.Context, q Query) (Result, error) {
	result, err := s.query(ctx, q)

	outcome := "ok"
	switch {
	case err != nil:
		outcome, _, _ = Describe(err)
	case result.Empty:
		outcome = "empty"
	}
	s.metrics.Queries.WithLabelValues(outcome).Inc()

	return result, err
}

func (s *Service) query(ctx context.Context, q Query) (Result, error) {
	city := strings.TrimSpace(q.City)
	if city == "" {
		return Result{}, ErrMissingCity
	}

	res, err := s.resolver.Resolve(ctx, city)
	if err != nil {
		if errors.Is(err, location.ErrNotFound) {
			s.logger.Debug("unsupported city", "city", city)
			return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedCity, city)
		}
		return Result{}, fmt.Errorf("resolve city: %w", err)
	}
	s.metrics.Resolutions.WithLabelValues(string(res.Method)).Inc()

	table, err := s.catalog.Table(ctx)
	if err != nil {
		return Result{}, err
	}

	date := q.Date
	if date.IsZero() {
		date = domain.Now()
	}
	month := domain.MonthOf(date)

	items, err := table.Bucket(res.Region(), month)
	if err != nil {
		return Result{}, err
	}

	return Result{
		City:       city,
		Region:     res.Region(),
		Date:       date.Format(DateLayout),
		Month:      month,
		MonthName:  domain.MonthName(month),
		Resolution: res,
		Groups:     GroupByCategory(items),
		Empty:      len(items) == 0,
	}, nil
}

// ParseDate parses a date parameter as YYYY-MM-DD or RFC 3339. An empty
// string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
