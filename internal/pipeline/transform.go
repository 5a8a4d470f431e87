package pipeline

import (
	"log/slog"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
	"github.com/couchcryptid/seasonal-produce/internal/observability"
)

// Transform builds the season table for region and records the build counts.
func Transform(region string, records []domain.SeasonRecord, logger *slog.Logger, metrics *observability.Metrics) (domain.SeasonTable, domain.BuildStats) {
	table, stats := domain.BuildTable(region, records, logger)

	metrics.BuildRecords.WithLabelValues("read").Add(float64(stats.Records))
	metrics.BuildRecords.WithLabelValues("placed").Add(float64(stats.Placed))
	metrics.BuildRecords.WithLabelValues("skipped").Add(float64(stats.Skipped))
	return table, stats
}
