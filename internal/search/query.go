package search

import (
	"regexp"
	"strings"
)

// Mode selects the matching rule for a query.
type Mode int

const (
	ModeGeneral Mode = iota
	ModeNumeric
	ModeDate
)

func (m Mode) String() string {
	switch m {
	case ModeNumeric:
		return "numeric"
	case ModeDate:
		return "date"
	}
	return "general"
}

var (
	numericQuery = regexp.MustCompile(`^\d+$`)
	dateQuery    = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4})$`)
)

// synonyms is the fixed expansion table for general-mode queries. Expansion
// is one-directional from the listed key to its related terms.
var synonyms = map[string][]string{
	"company":    {"corporation", "enterprise", "firm", "business", "organization"},
	"person":     {"individual", "people", "human"},
	"vessel":     {"ship", "boat", "tanker", "carrier"},
	"aircraft":   {"plane", "airplane", "jet", "helicopter"},
	"bank":       {"financial", "banking", "finance"},
	"military":   {"army", "defense", "defence", "armed forces"},
	"government": {"state", "ministry", "authority", "administration"},
	"oil":        {"petroleum", "gas", "energy", "crude"},
}

// parsedQuery is one normalized free-text query ready for matching.
type parsedQuery struct {
	raw      string
	mode     Mode
	terms    []string
	expanded []string
}

// parseQuery lowercases, classifies, and tokenizes a query. In general mode
// the expanded term set is the deduplicated union of the literal terms and
// their synonyms.
func parseQuery(query string) parsedQuery {
	raw := strings.ToLower(strings.TrimSpace(query))
	p := parsedQuery{raw: raw}
	if raw == "" {
		return p
	}

	switch {
	case numericQuery.MatchString(raw):
		p.mode = ModeNumeric
	case dateQuery.MatchString(raw):
		p.mode = ModeDate
	default:
		p.mode = ModeGeneral
	}

	p.terms = strings.Fields(raw)
	if p.mode == ModeGeneral {
		p.expanded = expandTerms(p.terms)
	}
	return p
}

func expandTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	var out []string
	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	for _, t := range terms {
		add(t)
		for _, syn := range synonyms[t] {
			add(syn)
		}
	}
	return out
}

// matches applies the per-mode rule against a record's field blobs.
//
// General mode is intentionally permissive: a record matches when any
// expanded term appears anywhere, or when every literal term appears.
func (p parsedQuery) matches(f fieldBlobs) bool {
	if p.raw == "" {
		return true
	}

	switch p.mode {
	case ModeNumeric:
		return strings.Contains(f.numeric, p.raw) || strings.Contains(f.all, p.raw)
	case ModeDate:
		return strings.Contains(f.dates, p.raw)
	}

	for _, term := range p.expanded {
		if strings.Contains(f.all, term) {
			return true
		}
	}
	for _, term := range p.terms {
		if !strings.Contains(f.all, term) {
			return false
		}
	}
	return true
}
