package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/seasonal-produce/internal/domain"
)

const sheet = `Name,Category,Season Start,Season End
Strawberries,fruit,Jun,Aug
Asparagus,veg,Apr,Jun
`

func writeFixture(t *testing.T, dir string, records []domain.SeasonRecord) (artifact, sheetPath string) {
	t.Helper()
	table, _ := domain.BuildTable("UK", records, slog.New(slog.NewTextHandler(io.Discard, nil)))
	data, err := json.Marshal(table)
	require.NoError(t, err)

	artifact = filepath.Join(dir, "produce_data.json")
	sheetPath = filepath.Join(dir, "sheet.csv")
	require.NoError(t, os.WriteFile(artifact, data, 0o600))
	require.NoError(t, os.WriteFile(sheetPath, []byte(sheet), 0o600))
	return artifact, sheetPath
}

func TestRun_Passes(t *testing.T) {
	artifact, sheetPath := writeFixture(t, t.TempDir(), []domain.SeasonRecord{
		{Name: "Strawberries", Category: "fruit", SeasonStart: "Jun", SeasonEnd: "Aug"},
		{Name: "Asparagus", Category: "veg", SeasonStart: "Apr", SeasonEnd: "Jun"},
	})

	var out bytes.Buffer
	code := run(&out, artifact, []string{"UK"}, sheetPath, "UK")

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "All validations passed.")
	assert.Contains(t, out.String(), "note: UK Jan has no produce")
}

func TestRun_SheetDrift(t *testing.T) {
	artifact, sheetPath := writeFixture(t, t.TempDir(), []domain.SeasonRecord{
		{Name: "Strawberries", Category: "fruit", SeasonStart: "Jun", SeasonEnd: "Jul"},
		{Name: "Asparagus", Category: "veg", SeasonStart: "Apr", SeasonEnd: "Jun"},
	})

	var out bytes.Buffer
	code := run(&out, artifact, []string{"UK"}, sheetPath, "UK")

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "UK Aug differs")
	assert.NotContains(t, out.String(), "UK Jul differs")
}

func TestRun_MissingRegion(t *testing.T) {
	artifact, _ := writeFixture(t, t.TempDir(), nil)

	var out bytes.Buffer
	code := run(&out, artifact, []string{"UK", "IE"}, "", "UK")

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Invalid data format: missing IE data")
	assert.NotContains(t, out.String(), "Phase 2", "later phases are skipped")
}

func TestSplitRegions(t *testing.T) {
	assert.Equal(t, []string{"UK", "IE"}, splitRegions(" uk, ,ie "))
	assert.Nil(t, splitRegions(""))
}
