package season

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
	"github.com/couchcryptid/seasonal-produce/internal/observability"
)

// Source fetches the raw season table artifact.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Describe() string
}

// Catalog owns the cached season table. The table is fetched at most once
// per load; a load triggered while another is running is refused rather
// than queued.
type Catalog struct {
	source  Source
	regions []string
	logger  *slog.Logger
	metrics *observability.Metrics

	table    atomic.Pointer[domain.SeasonTable]
	loadedAt atomic.Pointer[time.Time]
	loading  atomic.Bool
}

// NewCatalog creates a catalog that decodes tables from source and requires
// each region in regions to be present.
func NewCatalog(source Source, regions []string, logger *slog.Logger, metrics *observability.Metrics) *Catalog {
	return &Catalog{
		source:  source,
		regions: regions,
		logger:  logger,
		metrics: metrics,
	}
}

// Load fetches and decodes the table, replacing any cached copy on success.
// A failed load keeps the previous table, if any, and returns a *LoadError.
func (c *Catalog) Load(ctx context.Context) (domain.SeasonTable, error) {
	if !c.loading.CompareAndSwap(false, true) {
		c.metrics.TableLoads.WithLabelValues("busy").Inc()
		return nil, ErrLoadInProgress
	}
	defer c.loading.Store(false)

	start := domain.Now()
	table, err := c.fetch(ctx)
	c.metrics.TableLoadDuration.Observe(domain.Now().Sub(start).Seconds())
	if err != nil {
		c.metrics.TableLoads.WithLabelValues("error").Inc()
		c.logger.Error("season table load failed", "source", c.source.Describe(), "error", err)
		return nil, &LoadError{Cause: err}
	}

	now := domain.Now()
	c.table.Store(&table)
	c.loadedAt.Store(&now)
	c.metrics.TableLoads.WithLabelValues("success").Inc()
	c.metrics.TableLoaded.Set(1)
	c.logger.Info("season table loaded",
		"source", c.source.Describe(),
		"regions", table.Regions(),
		"duration", now.Sub(start),
	)
	return table, nil
}

func (c *Catalog) fetch(ctx context.Context) (domain.SeasonTable, error) {
	data, err := c.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return domain.DecodeSeasonTable(data, c.regions)
}

// Table returns the cached table, loading it first if nothing is cached.
func (c *Catalog) Table(ctx context.Context) (domain.SeasonTable, error) {
	if t := c.table.Load(); t != nil {
		return *t, nil
	}
	return c.Load(ctx)
}

// Cached returns the cached table and when it was loaded.
func (c *Catalog) Cached() (domain.SeasonTable, time.Time, bool) {
	t := c.table.Load()
	if t == nil {
		return nil, time.Time{}, false
	}
	var at time.Time
	if p := c.loadedAt.Load(); p != nil {
		at = *p
	}
	return *t, at, true
}

// Loading reports whether a load is currently running.
func (c *Catalog) Loading() bool {
	return c.loading.Load()
}

// CheckReadiness reports ready once a table has been cached.
func (c *Catalog) CheckReadiness(_ context.Context) error {
	if c.table.Load() == nil {
		if c.loading.Load() {
			return ErrLoadInProgress
		}
		return errors.New("season table not loaded")
	}
	return nil
}
