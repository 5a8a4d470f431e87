package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrMalformedTable reports a lookup against a region or month the table does not hold.
var ErrMalformedTable = errors.New("malformed season table")

// ParseError wraps a JSON syntax or type error found while decoding the artifact.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "JSON parse error: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// FormatError reports a structurally invalid artifact: a required region or
// one of its month buckets is missing or not an array.
type FormatError struct {
	Region string
	Month  int // -1 when the whole region is missing
}

func (e *FormatError) Error() string {
	if e.Month < 0 {
		return fmt.Sprintf("Invalid data format: missing %s data", e.Region)
	}
	return fmt.Sprintf("Invalid data format: missing month %d", e.Month)
}

// RegionSeasons holds the twelve month buckets of one region.
type RegionSeasons [MonthsPerYear][]ProduceItem

// NewRegionSeasons returns a region with every bucket allocated and empty.
func NewRegionSeasons() *RegionSeasons {
	var rs RegionSeasons
	for i := range rs {
		rs[i] = []ProduceItem{}
	}
	return &rs
}

// Add appends an item to a month bucket.
func (rs *RegionSeasons) Add(month int, item ProduceItem) {
	rs[month] = append(rs[month], item)
}

// MarshalJSON writes the buckets as an object keyed "0".."11" in month order.
func (rs *RegionSeasons) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, bucket := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		if bucket == nil {
			bucket = []ProduceItem{}
		}
		items, err := json.Marshal(bucket)
		if err != nil {
			return nil, fmt.Errorf("marshal month %d: %w", i, err)
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(i)))
		buf.WriteByte(':')
		buf.Write(items)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the "0".."11" object form, requiring every bucket.
func (rs *RegionSeasons) UnmarshalJSON(data []byte) error {
	decoded, err := decodeRegion("", data)
	if err != nil {
		return err
	}
	*rs = *decoded
	return nil
}

// SeasonTable maps a region code to its month buckets.
type SeasonTable map[string]*RegionSeasons

// Regions returns the region codes in sorted order.
func (t SeasonTable) Regions() []string {
	regions := make([]string, 0, len(t))
	for r := range t {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// Bucket returns the items in season for region during month.
func (t SeasonTable) Bucket(region string, month int) ([]ProduceItem, error) {
	rs, ok := t[region]
	if !ok || rs == nil {
		return nil, fmt.Errorf("%w: no data for region %q", ErrMalformedTable, region)
	}
	if month < 0 || month >= MonthsPerYear || rs[month] == nil {
		return nil, fmt.Errorf("%w: region %q has no bucket for month %d", ErrMalformedTable, region, month)
	}
	return rs[month], nil
}

// Merge returns a new table holding the regions of t and other. Regions
// present in both are taken from other.
func (t SeasonTable) Merge(other SeasonTable) SeasonTable {
	merged := make(SeasonTable, len(t)+len(other))
	for r, rs := range t {
		merged[r] = rs
	}
	for r, rs := range other {
		merged[r] = rs
	}
	return merged
}

// DecodeSeasonTable parses the JSON artifact and checks that every region in
// required is present with all twelve month buckets.
func DecodeSeasonTable(data []byte, required []string) (SeasonTable, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	for _, region := range required {
		if !isPresent(raw[region]) {
			return nil, &FormatError{Region: region, Month: -1}
		}
	}

	table := make(SeasonTable, len(raw))
	for _, region := range sortedKeys(raw) {
		if !isPresent(raw[region]) {
			continue
		}
		rs, err := decodeRegion(region, raw[region])
		if err != nil {
			return nil, err
		}
		table[region] = rs
	}
	return table, nil
}

func decodeRegion(region string, data []byte) (*RegionSeasons, error) {
	// A region that is not an object has no month buckets at all.
	var months map[string]json.RawMessage
	if err := json.Unmarshal(data, &months); err != nil {
		months = nil
	}

	rs := NewRegionSeasons()
	for i := range MonthsPerYear {
		bucket := bytes.TrimSpace(months[strconv.Itoa(i)])
		if len(bucket) == 0 || bucket[0] != '[' {
			return nil, &FormatError{Region: region, Month: i}
		}
		var items []ProduceItem
		if err := json.Unmarshal(bucket, &items); err != nil {
			return nil, &ParseError{Err: fmt.Errorf("region %s month %d: %w", region, i, err)}
		}
		if items != nil {
			rs[i] = items
		}
	}
	return rs, nil
}

func isPresent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
