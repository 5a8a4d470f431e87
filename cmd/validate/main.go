// Command validate checks a season table artifact before it is deployed: the
// JSON decodes, every required region has twelve month buckets, item
// categories are known, and, when a sheet is given, the artifact matches a
// fresh build of that sheet.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -artifact produce_data.json \
//	  -regions UK \
//	  -sheet data/uk_seasonal_produce.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/couchcryptid/seasonal-produce/internal/adapter/spreadsheet"
	"github.com/couchcryptid/seasonal-produce/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	artifact := flag.String("artifact", "produce_data.json", "season table artifact to check")
	regions := flag.String("regions", "UK", "comma-separated regions that must be present")
	sheet := flag.String("sheet", "", "optional season sheet the artifact was built from")
	sheetRegion := flag.String("sheet-region", "UK", "region the sheet describes")
	flag.Parse()

	os.Exit(run(os.Stdout, *artifact, splitRegions(*regions), *sheet, strings.ToUpper(*sheetRegion)))
}

func run(out io.Writer, artifactPath string, required []string, sheetPath, sheetRegion string) int {
	fmt.Fprintln(out, "=== Season Table Validation ===")
	fmt.Fprintln(out)

	data, err := os.ReadFile(artifactPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: read artifact: %v\n", err)
		return 1
	}

	table, decode := validateDecode(data, required)
	phases := []*phase{decode}
	if decode.passed() {
		phases = append(phases, validateCompleteness(table))
		if sheetPath != "" {
			phases = append(phases, validateAgainstSheet(table, sheetPath, sheetRegion))
		}
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.notes) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
		for _, n := range p.notes {
			fmt.Fprintf(out, "  note: %s\n", n)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func splitRegions(s string) []string {
	var regions []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.ToUpper(strings.TrimSpace(r)); r != "" {
			regions = append(regions, r)
		}
	}
	return regions
}

// ── Phase 1: Decode ──

func validateDecode(data []byte, required []string) (domain.SeasonTable, *phase) {
	p := &phase{name: "Phase 1: Decode (artifact JSON)"}
	table, err := domain.DecodeSeasonTable(data, required)
	if err != nil {
		p.errorf("%v", err)
		return nil, p
	}
	return table, p
}

// ── Phase 2: Completeness ──
// Empty months are legal but worth surfacing; unknown categories and blank
// names indicate a bad sheet.

func validateCompleteness(table domain.SeasonTable) *phase {
	p := &phase{name: "Phase 2: Completeness (buckets and items)"}
	for _, region := range table.Regions() {
		for month := range domain.MonthsPerYear {
			items, err := table.Bucket(region, month)
			if err != nil {
				p.errorf("%v", err)
				continue
			}
			if len(items) == 0 {
				p.notef("%s %s has no produce", region, domain.MonthName(month))
			}
			checkItems(p, region, month, items)
		}
	}
	return p
}

func checkItems(p *phase, region string, month int, items []domain.ProduceItem) {
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		where := fmt.Sprintf("%s %s item %d", region, domain.MonthName(month), i)
		if strings.TrimSpace(item.Name) == "" {
			p.errorf("%s: empty name", where)
		}
		if item.Category == domain.CategoryUnknown {
			p.errorf("%s (%s): unknown category", where, item.Name)
		}
		if seen[item.Name] {
			p.notef("%s: %q listed twice", where, item.Name)
		}
		seen[item.Name] = true
	}
}

// ── Phase 3: Sheet Parity ──
// Rebuilds the region from the sheet and compares it with the artifact.

func validateAgainstSheet(table domain.SeasonTable, sheetPath, region string) *phase {
	p := &phase{name: "Phase 3: Sheet Parity (rebuild vs artifact)"}

	records, err := spreadsheet.NewReader(sheetPath, "").ReadRecords(context.Background())
	if err != nil {
		p.errorf("read sheet: %v", err)
		return p
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rebuilt, stats := domain.BuildTable(region, records, logger)
	if stats.Skipped > 0 {
		p.notef("%d of %d sheet rows skipped during rebuild", stats.Skipped, stats.Records)
	}

	want, ok := rebuilt[region]
	if !ok {
		p.errorf("rebuild produced no %s region", region)
		return p
	}
	got, ok := table[region]
	if !ok {
		p.errorf("artifact has no %s region", region)
		return p
	}

	for month := range domain.MonthsPerYear {
		if diff := cmp.Diff(want[month], got[month], cmpopts.EquateEmpty()); diff != "" {
			p.errorf("%s %s differs (-sheet +artifact):\n%s", region, domain.MonthName(month), diff)
		}
	}
	return p
}
