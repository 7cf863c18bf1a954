// Package normalize holds the field-level normalization routines shared by the
// source adapters, the integration pipeline, and the search engine: date
// coercion, entity-type inference, and the ordered fallback chains that derive
// summary fields from heterogeneous records.
package normalize

import (
	"fmt"
	"strconv"
	"time"
)

// ISODate is the canonical date layout for all normalized date fields.
const ISODate = "2006-01-02"

// Free-form layouts tried in order after the timestamp and ISO paths. The
// list mirrors the formats observed across the three feeds.
var dateLayouts = []string{
	ISODate,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"2 January 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006",
}

// Date coerces a heterogeneous date value to YYYY-MM-DD. It accepts Unix
// timestamps as 10- or 13-digit numeric strings (10 digits are seconds and
// scaled to milliseconds), ISO strings, and common free-form layouts. Values
// it cannot parse are returned unchanged; Date never fails, matching the
// recover-and-continue policy of the ingestion path. Already-normalized
// YYYY-MM-DD input round-trips identically.
func Date(value any) string {
	s := dateString(value)
	if s == "" {
		return ""
	}

	if isDigits(s) {
		switch len(s) {
		case 13:
			ms, err := strconv.ParseInt(s, 10, 64)
			if err == nil {
				return time.UnixMilli(ms).UTC().Format(ISODate)
			}
		case 10:
			sec, err := strconv.ParseInt(s, 10, 64)
			if err == nil {
				return time.UnixMilli(sec * 1000).UTC().Format(ISODate)
			}
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISODate)
		}
	}

	return s
}

func dateString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		// JSON numbers decode as float64; timestamps fit in int64.
		return strconv.FormatInt(int64(v), 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
