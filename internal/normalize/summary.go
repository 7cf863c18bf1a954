package normalize

import (
	"strings"

	"sanctionwatch/internal/sanction/models"
	platformstrings "sanctionwatch/pkg/platform/strings"
)

// updateDateFields is the ordered fallback chain for a record's "best
// available" update date. Top-level fields are consulted before the details
// bag; first non-empty wins. The order is part of the API contract for date
// filtering and sorting.
var updateDateFields = []func(*models.Record) any{
	func(r *models.Record) any { return r.LastUpdated },
	func(r *models.Record) any { return detail(r, "updatedDate") },
	func(r *models.Record) any { return detail(r, "dateUpdated") },
	func(r *models.Record) any { return detail(r, "lastUpdated") },
	func(r *models.Record) any { return detail(r, "publicationDate") },
	func(r *models.Record) any { return r.ListingDate },
	func(r *models.Record) any { return detail(r, "listingDate") },
}

// countryAccessors is the ordered fallback chain for country derivation:
// direct countries, nationality, address countries, place of birth.
var countryAccessors = []func(*models.Record) []string{
	func(r *models.Record) []string { return r.Countries },
	func(r *models.Record) []string { return detailList(r, "nationality") },
	func(r *models.Record) []string {
		out := make([]string, 0, len(r.Addresses))
		for _, a := range r.Addresses {
			if a.Country != "" {
				out = append(out, a.Country)
			}
		}
		return out
	},
	func(r *models.Record) []string { return detailList(r, "placeOfBirth") },
}

// BestUpdateDate returns the normalized best-available update date for a
// record, or "" when the record carries no date at all.
func BestUpdateDate(r *models.Record) string {
	for _, get := range updateDateFields {
		if v := get(r); v != nil {
			if s := Date(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// Countries aggregates every country-bearing field into a deduplicated list.
func Countries(r *models.Record) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, get := range countryAccessors {
		out = platformstrings.AppendFold(out, seen, get(r)...)
	}
	return out
}

// Summarize computes the derived `_summary` block for read responses.
func Summarize(r *models.Record) models.Summary {
	return models.Summary{
		Type:        sanctionType(r),
		Entity:      string(entityType(r)),
		Countries:   Countries(r),
		DateUpdated: BestUpdateDate(r),
		Programs:    programs(r),
		Source:      sourceLabel(r),
		Identifiers: keyIdentifiers(r),
	}
}

// sanctionType labels the sanctioning regime, falling back to the id prefix
// when the source field is absent.
func sanctionType(r *models.Record) string {
	if r.Source.Valid() {
		return string(r.Source) + " Sanctions"
	}
	switch {
	case strings.HasPrefix(r.ID, "UN"):
		return "UN Sanctions"
	case strings.HasPrefix(r.ID, "EU"):
		return "EU Sanctions"
	case strings.HasPrefix(r.ID, "US"), strings.HasPrefix(r.ID, "OFAC"):
		return "US Sanctions"
	}
	return "Sanctions"
}

func entityType(r *models.Record) models.EntityType {
	if r.Type != "" && r.Type != models.TypeUnknown {
		return r.Type
	}
	hasPerson := detail(r, "firstName") != nil || detail(r, "lastName") != nil ||
		detail(r, "dateOfBirth") != nil || detail(r, "birthDate") != nil
	return InferEntityType(r.DetailString("entityType"), r.Name, hasPerson)
}

func programs(r *models.Record) []string {
	if len(r.Programs) > 0 {
		return r.Programs
	}
	if p := r.DetailString("program"); p != "" {
		return []string{p}
	}
	return []string{}
}

func sourceLabel(r *models.Record) string {
	if r.Source.Valid() {
		return string(r.Source)
	}
	switch {
	case strings.HasPrefix(r.ID, "UN"):
		return "UN"
	case strings.HasPrefix(r.ID, "EU"):
		return "EU"
	case strings.HasPrefix(r.ID, "US"), strings.HasPrefix(r.ID, "OFAC"):
		return "US"
	}
	return "unknown"
}

func keyIdentifiers(r *models.Record) models.KeyIdentifiers {
	ki := models.KeyIdentifiers{ID: r.ID, Name: r.Name}

	for _, id := range r.Identifiers {
		t := strings.ToLower(id.Type)
		switch {
		case ki.Passport == "" && strings.Contains(t, "passport"):
			ki.Passport = id.Value
		case ki.NationalID == "" && strings.Contains(t, "national"):
			ki.NationalID = id.Value
		}
	}

	if v := detail(r, "dateOfBirth"); v != nil {
		ki.DateOfBirth = Date(v)
	} else if v := detail(r, "birthDate"); v != nil {
		ki.DateOfBirth = Date(v)
	}
	if s := r.DetailString("placeOfBirth"); s != "" {
		ki.PlaceOfBirth = s
	}
	return ki
}

func detail(r *models.Record, key string) any {
	if r.Details == nil {
		return nil
	}
	v, ok := r.Details[key]
	if !ok {
		return nil
	}
	return v
}

func detailList(r *models.Record, key string) []string {
	switch v := detail(r, key).(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
