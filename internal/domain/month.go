package domain

import (
	"fmt"
	"strings"
	"time"
)

// MonthsPerYear is the number of buckets in every region's table.
const MonthsPerYear = 12

var monthAbbrevs = [MonthsPerYear]string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

// ParseMonth resolves a month name to its 0-based index. It accepts the
// three-letter abbreviations used in the sheet ("Jan".."Dec") and full
// English month names, case-insensitively. "Sept" is accepted for September.
func ParseMonth(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "sept" {
		return int(time.September) - 1, nil
	}
	for i, abbrev := range monthAbbrevs {
		if s == abbrev || s == strings.ToLower(time.Month(i+1).String()) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unrecognized month %q", s)
}

// MonthName returns the abbreviation for a 0-based month index.
func MonthName(month int) string {
	if month < 0 || month >= MonthsPerYear {
		return ""
	}
	return time.Month(month + 1).String()[:3]
}

// MonthOf returns the 0-based calendar month of t.
func MonthOf(t time.Time) int {
	return int(t.Month()) - 1
}

// MonthRange expands an inclusive season range into month indexes, walking
// forward from start modulo 12 until end. start == end yields exactly one
// month. Both bounds must be valid indexes.
func MonthRange(start, end int) []int {
	if start < 0 || start >= MonthsPerYear || end < 0 || end >= MonthsPerYear {
		return nil
	}
	if start == end {
		return []int{start}
	}

	span := (end-start+MonthsPerYear)%MonthsPerYear + 1
	months := make([]int, 0, span)
	for i := range span {
		months = append(months, (start+i)%MonthsPerYear)
	}
	return months
}
