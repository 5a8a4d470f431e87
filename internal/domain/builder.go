package domain

import (
	"log/slog"
	"strings"
)

// DefaultRegion is the region code the builder writes when none is given.
const DefaultRegion = "UK"

// SeasonRecord is one spreadsheet row describing a produce season.
type SeasonRecord struct {
	Row         int    `json:"row,omitempty"` // 1-based sheet row, for diagnostics
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	SeasonStart string `json:"season_start"`
	SeasonEnd   string `json:"season_end"`
}

// BuildStats summarizes a BuildTable run.
type BuildStats struct {
	Records int // rows read
	Placed  int // item placements across all month buckets
	Skipped int // rows dropped with a warning
}

// BuildTable expands season records into a single-region table. Rows with no
// name or an unrecognized month are skipped with a warning; the build carries on.
func BuildTable(region string, records []SeasonRecord, logger *slog.Logger) (SeasonTable, BuildStats) {
	if region == "" {
		region = DefaultRegion
	}
	rs := NewRegionSeasons()
	stats := BuildStats{Records: len(records)}

	for _, rec := range records {
		months, item, ok := expandRecord(rec, logger)
		if !ok {
			stats.Skipped++
			continue
		}
		for _, m := range months {
			rs.Add(m, item)
		}
		stats.Placed += len(months)
	}

	return SeasonTable{region: rs}, stats
}

// expandRecord validates a record and returns the months it covers.
func expandRecord(rec SeasonRecord, logger *slog.Logger) ([]int, ProduceItem, bool) {
	if strings.TrimSpace(rec.Name) == "" {
		logger.Warn("row missing name field, skipping", "row", rec.Row)
		return nil, ProduceItem{}, false
	}

	start, errStart := ParseMonth(rec.SeasonStart)
	end, errEnd := ParseMonth(rec.SeasonEnd)
	if errStart != nil || errEnd != nil {
		logger.Warn("invalid month in row, skipping",
			"row", rec.Row,
			"name", rec.Name,
			"season_start", rec.SeasonStart,
			"season_end", rec.SeasonEnd,
		)
		return nil, ProduceItem{}, false
	}

	item, err := NewProduceItem(rec.Name, rec.Category)
	if err != nil {
		logger.Warn("category not recognized, using unknown",
			"row", rec.Row,
			"name", rec.Name,
			"error", err,
		)
	}

	return MonthRange(start, end), item, true
}
