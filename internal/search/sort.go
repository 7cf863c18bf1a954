package search

import (
	"sort"
	"strings"

	"sanctionwatch/internal/normalize"
	"sanctionwatch/internal/sanction/models"
)

// Sort orders a result set. Zero value means lastUpdated descending, which
// surfaces the most recently touched records first.
type Sort struct {
	Key   string // name, type, source, country, lastUpdated
	Order string // asc, desc
}

func (s Sort) normalized() Sort {
	key := strings.ToLower(strings.TrimSpace(s.Key))
	switch key {
	case "name", "type", "source", "country", "lastupdated":
	default:
		key = "lastupdated"
	}

	order := strings.ToLower(strings.TrimSpace(s.Order))
	if order != "asc" && order != "desc" {
		if key == "lastupdated" {
			order = "desc"
		} else {
			order = "asc"
		}
	}
	return Sort{Key: key, Order: order}
}

// sortRecords orders records in place. Keys compare byte-wise after
// lowercasing; no locale collation is applied.
func sortRecords(records []*models.Record, spec Sort) {
	spec = spec.normalized()
	key := sortKeyFunc(spec.Key)

	sort.SliceStable(records, func(i, j int) bool {
		a, b := key(records[i]), key(records[j])
		if spec.Order == "desc" {
			return a > b
		}
		return a < b
	})
}

func sortKeyFunc(key string) func(*models.Record) string {
	switch key {
	case "name":
		return func(r *models.Record) string { return strings.ToLower(r.Name) }
	case "type":
		return func(r *models.Record) string { return string(r.Type) }
	case "source":
		return func(r *models.Record) string { return string(r.Source) }
	case "country":
		return func(r *models.Record) string {
			if len(r.Countries) == 0 {
				return ""
			}
			return strings.ToLower(r.Countries[0])
		}
	default:
		return func(r *models.Record) string { return normalize.BestUpdateDate(r) }
	}
}
