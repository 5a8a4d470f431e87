// Package spreadsheet reads seasonal produce records from CSV or XLSX sheets.
//
// The first non-blank row is the header. Columns are matched by name,
// case-insensitively: name, category (optional), season_start, season_end.
package spreadsheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
)

// ErrUnsupportedFormat is returned for files that are neither .csv nor .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

const (
	colName        = "name"
	colCategory    = "category"
	colSeasonStart = "season_start"
	colSeasonEnd   = "season_end"
)

// Reader loads records from a spreadsheet file on disk.
type Reader struct {
	path  string
	sheet string
}

// NewReader returns a reader for path. For XLSX files, sheet selects the
// worksheet; empty means the first sheet.
func NewReader(path, sheet string) *Reader {
	return &Reader{path: path, sheet: sheet}
}

// ReadRecords reads every data row of the sheet.
func (r *Reader) ReadRecords(_ context.Context) ([]domain.SeasonRecord, error) {
	switch strings.ToLower(filepath.Ext(r.path)) {
	case ".csv":
		f, err := os.Open(r.path)
		if err != nil {
			return nil, fmt.Errorf("open csv: %w", err)
		}
		defer f.Close() //nolint:errcheck // read-only
		return ParseCSV(f)
	case ".xlsx", ".xlsm":
		return ReadXLSX(r.path, r.sheet)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, r.path)
	}
}

// Describe names the input for logs.
func (r *Reader) Describe() string {
	if r.sheet != "" {
		return r.path + "#" + r.sheet
	}
	return r.path
}

// ParseCSV reads records from CSV data.
func ParseCSV(in io.Reader) ([]domain.SeasonRecord, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return RecordsFromRows(rows)
}

// ReadXLSX reads records from one worksheet of an XLSX workbook.
func ReadXLSX(path, sheet string) ([]domain.SeasonRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return RecordsFromRows(rows)
}

// RecordsFromRows maps raw rows to records using the header row. Row numbers
// are 1-based positions in rows. Blank rows are skipped.
func RecordsFromRows(rows [][]string) ([]domain.SeasonRecord, error) {
	headerAt := -1
	for i, row := range rows {
		if !isBlank(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, errors.New("sheet has no header row")
	}

	cols, err := columnIndex(rows[headerAt])
	if err != nil {
		return nil, err
	}

	var records []domain.SeasonRecord
	for i := headerAt + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		records = append(records, domain.SeasonRecord{
			Row:         i + 1,
			Name:        cell(row, cols[colName]),
			Category:    cell(row, cols[colCategory]),
			SeasonStart: cell(row, cols[colSeasonStart]),
			SeasonEnd:   cell(row, cols[colSeasonEnd]),
		})
	}
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, 4)
	for i, h := range header {
		key := normalizeHeader(h)
		switch key {
		case colName, colCategory, colSeasonStart, colSeasonEnd:
			if _, seen := cols[key]; !seen {
				cols[key] = i
			}
		}
	}
	if _, ok := cols[colCategory]; !ok {
		cols[colCategory] = -1
	}
	for _, required := range []string{colName, colSeasonStart, colSeasonEnd} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing %q column in header", required)
		}
	}
	return cols, nil
}

// normalizeHeader lowercases a header and maps spaces and hyphens to
// underscores, so "Season Start" matches season_start.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
