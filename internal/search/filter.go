package search

import (
	"strings"

	"sanctionwatch/internal/normalize"
	"sanctionwatch/internal/sanction/models"
)

// Filters are the independently-combinable facet filters. Empty fields do
// not constrain.
type Filters struct {
	Type     string
	Country  string
	Program  string
	Source   string
	DateFrom string
	DateTo   string
}

func (f Filters) empty() bool {
	return f == Filters{}
}

// matches applies every set facet. Text facets are case-insensitive
// substring matches; the date range is inclusive and computed against the
// record's best-available update date, and a record with no date at all
// passes rather than being excluded.
func (f Filters) matches(r *models.Record) bool {
	if f.Type != "" && !containsFold(string(r.Type)+" "+r.Subtype+" "+r.DetailString("entityType"), f.Type) {
		return false
	}
	if f.Country != "" && !matchesAny(normalize.Countries(r), f.Country) {
		return false
	}
	if f.Program != "" && !matchesAny(r.Programs, f.Program) {
		return false
	}
	if f.Source != "" {
		blob := string(r.Source) + " " + string(r.OriginalSource) + " " + r.DetailString("sourceDescription") + " " + r.DetailString("sourceUrl")
		if !containsFold(blob, f.Source) {
			return false
		}
	}

	if f.DateFrom != "" || f.DateTo != "" {
		date := normalize.BestUpdateDate(r)
		if date != "" {
			if f.DateFrom != "" && date < normalize.Date(f.DateFrom) {
				return false
			}
			if f.DateTo != "" && date > normalize.Date(f.DateTo) {
				return false
			}
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}

func matchesAny(values []string, needle string) bool {
	for _, v := range values {
		if containsFold(v, needle) {
			return true
		}
	}
	return false
}
