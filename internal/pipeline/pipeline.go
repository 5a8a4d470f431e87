// Package pipeline runs the offline table build: extract season records from
// a spreadsheet, transform them into a month-indexed season table, and load
// the table into one or more destinations.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
	"github.com/couchcryptid/seasonal-produce/internal/observability"
)

// RecordExtractor reads the raw season records.
type RecordExtractor interface {
	ReadRecords(ctx context.Context) ([]domain.SeasonRecord, error)
}

// TableLoader writes a finished season table to a destination.
type TableLoader interface {
	Name() string
	LoadTable(ctx context.Context, table domain.SeasonTable) error
}

// ErrNoRecords is returned when the extractor yields nothing to build from.
var ErrNoRecords = errors.New("no season records found")

const (
	defaultAttempts = 3
	initialBackoff  = 200 * time.Millisecond
	maxBackoff      = 5 * time.Second
)

// Pipeline orchestrates one extract-transform-load run.
type Pipeline struct {
	extractor RecordExtractor
	loaders   []TableLoader
	region    string
	attempts  int
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline building region from e and writing to each loader in order.
func New(e RecordExtractor, region string, logger *slog.Logger, metrics *observability.Metrics, loaders ...TableLoader) *Pipeline {
	return &Pipeline{
		extractor: e,
		loaders:   loaders,
		region:    region,
		attempts:  defaultAttempts,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes the build. Record-level problems are logged and skipped; a
// loader that still fails after retries aborts the run.
func (p *Pipeline) Run(ctx context.Context) (domain.SeasonTable, domain.BuildStats, error) {
	start := time.Now()

	records, err := p.extractor.ReadRecords(ctx)
	if err != nil {
		return nil, domain.BuildStats{}, fmt.Errorf("extract records: %w", err)
	}
	if len(records) == 0 {
		return nil, domain.BuildStats{}, ErrNoRecords
	}

	table, stats := Transform(p.region, records, p.logger, p.metrics)

	for _, l := range p.loaders {
		if err := p.load(ctx, l, table); err != nil {
			return table, stats, err
		}
	}

	p.logger.Info("season table built",
		"region", p.region,
		"records", stats.Records,
		"placed", stats.Placed,
		"skipped", stats.Skipped,
		"loaders", len(p.loaders),
		"duration", time.Since(start),
	)
	return table, stats, nil
}

// load writes the table with one loader, retrying with exponential backoff.
func (p *Pipeline) load(ctx context.Context, l TableLoader, table domain.SeasonTable) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if err = l.LoadTable(ctx, table); err == nil {
			p.metrics.TableWrites.WithLabelValues(l.Name(), "success").Inc()
			return nil
		}
		p.metrics.TableWrites.WithLabelValues(l.Name(), "error").Inc()
		p.logger.Error("load table failed", "loader", l.Name(), "attempt", attempt, "error", err)

		if attempt == p.attempts || !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return fmt.Errorf("load table (%s): %w", l.Name(), err)
}
