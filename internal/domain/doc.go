// Package domain models seasonal produce data.
//
// # Data Source
//
// Seasonal data is maintained by hand in a spreadsheet with one row per
// produce item:
//
//	name | category | season_start | season_end
//	Apples | fruit | Sep | Dec
//
// The category column is optional. Month columns hold English month
// abbreviations ("Jan".."Dec"); full month names are accepted as well.
// The offline builder (cmd/buildtable) turns the sheet into the JSON artifact
// read by the service at runtime.
//
// # Season Ranges
//
// A season is an inclusive span of calendar months that may wrap the year
// boundary: Nov..Feb covers Nov, Dec, Jan and Feb. Expansion walks forward
// from the start month modulo 12 until it reaches the end month. A range whose
// start equals its end covers exactly one month. See [MonthRange].
//
// # Season Table
//
// The artifact is keyed by region code, then by month index 0..11 encoded as a
// JSON object key:
//
//	{ "UK": { "0": [ {"name": "Leeks", "category": "veg"} ], ..., "11": [] } }
//
// Every region carries all twelve buckets; a bucket may be empty but is never
// missing. [DecodeSeasonTable] rejects documents that break this rule.
//
// # Categories
//
// Items are tagged fruit, veg, forage or unknown. Anything else found in the
// sheet or the artifact is read as unknown.
package domain
