package spreadsheet

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
)

var sheetRows = [][]string{
	{"Name", "Category", "Season_Start", "Season End"},
	{"Strawberries", "fruit", "Jun", "Aug"},
	{"Leeks", "veg", "Nov", "Feb"},
	{"", "", "", ""},
	{"Nettles", "", "Mar", "May"},
}

var wantRecords = []domain.SeasonRecord{
	{Row: 2, Name: "Strawberries", Category: "fruit", SeasonStart: "Jun", SeasonEnd: "Aug"},
	{Row: 3, Name: "Leeks", Category: "veg", SeasonStart: "Nov", SeasonEnd: "Feb"},
	{Row: 5, Name: "Nettles", Category: "", SeasonStart: "Mar", SeasonEnd: "May"},
}

func writeXLSX(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // test cleanup

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		for j, v := range row {
			if v == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, name, v))
		}
	}

	path := filepath.Join(t.TempDir(), "produce.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func toCSV(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestParseCSV(t *testing.T) {
	records, err := ParseCSV(strings.NewReader(toCSV(sheetRows)))
	require.NoError(t, err)

	if diff := cmp.Diff(wantRecords, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReadXLSX_FirstSheet(t *testing.T) {
	path := writeXLSX(t, "Sheet1", sheetRows)

	records, err := NewReader(path, "").ReadRecords(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(wantRecords, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVAndXLSXAgree(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "produce.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(toCSV(sheetRows)), 0o600))
	xlsxPath := writeXLSX(t, "Sheet1", sheetRows)

	fromCSV, err := NewReader(csvPath, "").ReadRecords(context.Background())
	require.NoError(t, err)
	fromXLSX, err := NewReader(xlsxPath, "").ReadRecords(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fromCSV, fromXLSX)
}

func TestReadXLSX_NamedSheet(t *testing.T) {
	path := writeXLSX(t, "Produce", sheetRows)

	records, err := ReadXLSX(path, "Produce")
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = ReadXLSX(path, "Missing")
	require.Error(t, err)
}

func TestRecordsFromRows_HeaderOnlyAndLeadingBlanks(t *testing.T) {
	records, err := RecordsFromRows([][]string{{}, {"name", "season_start", "season_end"}})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordsFromRows_OptionalCategoryAndShortRows(t *testing.T) {
	records, err := RecordsFromRows([][]string{
		{"season_end", "season_start", "name"},
		{"Dec", "Oct"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.SeasonRecord{Row: 2, SeasonStart: "Oct", SeasonEnd: "Dec"}, records[0])
}

func TestRecordsFromRows_MissingColumn(t *testing.T) {
	_, err := RecordsFromRows([][]string{{"name", "category", "season_start"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"season_end"`)

	_, err = RecordsFromRows(nil)
	require.Error(t, err)
}

func TestReader_UnsupportedFormat(t *testing.T) {
	_, err := NewReader("produce.ods", "").ReadRecords(context.Background())
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
