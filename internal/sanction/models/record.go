// Package models defines the unified sanction record schema shared by the
// source adapters, the integration pipeline, and the search engine.
package models

import (
	"strings"

	platformstrings "sanctionwatch/pkg/platform/strings"
)

// Source identifies the feed a record came from.
type Source string

const (
	SourceUN Source = "UN"
	SourceEU Source = "EU"
	SourceUS Source = "US"
)

// Sources lists the supported feeds in integration priority order. The merge
// step concatenates in this order, so on an id collision the later source wins.
var Sources = []Source{SourceUN, SourceEU, SourceUS}

// Valid reports whether s is one of the three supported feeds.
func (s Source) Valid() bool {
	switch s {
	case SourceUN, SourceEU, SourceUS:
		return true
	}
	return false
}

// ParseSource maps a case-insensitive source name to a Source.
func ParseSource(v string) (Source, bool) {
	s := Source(strings.ToUpper(strings.TrimSpace(v)))
	return s, s.Valid()
}

// EntityType classifies the sanctioned party.
type EntityType string

const (
	TypeIndividual EntityType = "individual"
	TypeEntity     EntityType = "entity"
	TypeVessel     EntityType = "vessel"
	TypeAircraft   EntityType = "aircraft"
	TypeUnknown    EntityType = "unknown"
)

// NoName is the display-name sentinel for records whose source row carries no
// usable name.
const NoName = "(no name)"

// Alias is an alternate name for a sanctioned party.
type Alias struct {
	Name string `json:"name"`
}

// Identifier is a document reference (passport, national ID, registration
// number) normalized to one shape regardless of the source field it came from.
type Identifier struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value"`
}

// Address is a per-source address record. Sources disagree on granularity, so
// either the structured fields or the flat Text may be populated.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Record is the unified sanction entry. Dates are ISO YYYY-MM-DD strings; the
// Details bag carries source-specific extras (birth info, remarks, reason)
// that have no unified column.
type Record struct {
	ID             string         `json:"id"`
	Source         Source         `json:"source"`
	Name           string         `json:"name"`
	NameOriginal   string         `json:"nameOriginal,omitempty"`
	Type           EntityType     `json:"type"`
	Subtype        string         `json:"subtype,omitempty"`
	Countries      []string       `json:"countries"`
	Aliases        []Alias        `json:"aliases"`
	Programs       []string       `json:"programs"`
	Identifiers    []Identifier   `json:"identifiers"`
	Addresses      []Address      `json:"addresses"`
	ListingDate    string         `json:"listingDate,omitempty"`
	LastUpdated    string         `json:"lastUpdated,omitempty"`
	Details        map[string]any `json:"details,omitempty"`
	IntegratedID   int            `json:"integratedId,omitempty"`
	OriginalSource Source         `json:"originalSource,omitempty"`
}

// Normalize enforces the output invariants: collection fields are never nil,
// aliases are unique by name, and countries keep set semantics while
// preserving first-seen order.
func (r *Record) Normalize() {
	if r.Countries == nil {
		r.Countries = []string{}
	}
	if r.Aliases == nil {
		r.Aliases = []Alias{}
	}
	if r.Programs == nil {
		r.Programs = []string{}
	}
	if r.Identifiers == nil {
		r.Identifiers = []Identifier{}
	}
	if r.Addresses == nil {
		r.Addresses = []Address{}
	}

	r.Countries = platformstrings.DedupeFold(r.Countries)
	r.Aliases = dedupeAliases(r.Aliases)

	if r.Type == "" {
		r.Type = TypeUnknown
	}
	if strings.TrimSpace(r.Name) == "" {
		r.Name = NoName
	}
}

// DetailString returns the named detail as a string, or "" when absent or not
// string-shaped.
func (r *Record) DetailString(key string) string {
	if r.Details == nil {
		return ""
	}
	if v, ok := r.Details[key].(string); ok {
		return v
	}
	return ""
}

func dedupeAliases(in []Alias) []Alias {
	seen := make(map[string]struct{}, len(in))
	out := make([]Alias, 0, len(in))
	for _, a := range in {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Alias{Name: name})
	}
	return out
}
