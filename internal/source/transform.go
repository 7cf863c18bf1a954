package source

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"sanctionwatch/internal/normalize"
	"sanctionwatch/internal/sanction/models"
)

// Transform walks the parsed document and converts every entity node to a
// unified record through the feed's field map. It never fails: a node that
// cannot produce a usable record is logged and skipped.
func Transform(root *Node, s models.Source, cfg Config, logger *slog.Logger) []models.Record {
	nodes := root.FindAll(cfg.EntityElements...)
	records := make([]models.Record, 0, len(nodes))

	synthesized := 0
	for _, node := range nodes {
		rec, err := transformEntity(node, s, cfg)
		if err != nil {
			logger.Warn("skipping entity", "source", s, "error", err)
			continue
		}
		if rec.ID == "" {
			rec.ID = syntheticID(s)
			synthesized++
		}
		rec.Normalize()
		records = append(records, rec)
	}

	if synthesized > 0 {
		logger.Warn("synthesized ids for rows missing one", "source", s, "count", synthesized)
	}
	return records
}

// transformEntity converts one entity element, recovering a panic from
// malformed input so a single bad row cannot abort the whole feed.
func transformEntity(node *Node, s models.Source, cfg Config) (rec models.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transform entity: %v", r)
		}
	}()
	return transformNode(node, s, cfg), nil
}

func transformNode(node *Node, s models.Source, cfg Config) models.Record {
	name := extractName(node, cfg)
	explicitType := extractExplicitType(node, cfg)
	birthDate := node.Value(cfg.BirthdatePaths...)
	hasPersonFields := birthDate != "" || node.Value("firstName") != "" || node.Value("lastName") != ""

	rec := models.Record{
		ID:          prefixID(s, node.Value(cfg.IDPath)),
		Source:      s,
		Name:        name,
		Type:        normalize.InferEntityType(explicitType, name, hasPersonFields),
		Countries:   node.Values(cfg.CountryPaths...),
		Aliases:     extractAliases(node, cfg),
		Programs:    node.Values(cfg.ProgramPaths...),
		Identifiers: extractIdentifiers(node, cfg),
		Addresses:   extractAddresses(node, cfg),
		ListingDate: time.Now().UTC().Format(normalize.ISODate),
		LastUpdated: time.Now().UTC().Format(normalize.ISODate),
	}
	if name != "" {
		rec.NameOriginal = name
	}
	rec.Subtype = subtypeFor(rec.Type, explicitType)

	details := map[string]any{}
	if birthDate != "" {
		details["dateOfBirth"] = normalize.Date(birthDate)
	}
	if explicitType != "" {
		details["entityType"] = explicitType
	}
	if len(details) > 0 {
		rec.Details = details
	}
	return rec
}

// prefixID namespaces the raw feed id so ids from different feeds never
// collide in the merged corpus.
func prefixID(s models.Source, raw string) string {
	if raw == "" {
		return ""
	}
	prefix := string(s) + "-"
	if strings.HasPrefix(raw, prefix) {
		return raw
	}
	return prefix + raw
}

func syntheticID(s models.Source) string {
	return fmt.Sprintf("%s-%s", s, uuid.NewString())
}

func extractName(node *Node, cfg Config) string {
	if cfg.JoinNameParts {
		parts := make([]string, 0, len(cfg.NamePaths))
		for _, p := range cfg.NamePaths {
			if v := node.Value(p); v != "" {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, " ")
	}
	return node.Value(cfg.NamePaths...)
}

func extractExplicitType(node *Node, cfg Config) string {
	if cfg.TypeFromElement {
		return node.Name
	}
	return node.Value(cfg.TypePath)
}

func extractAliases(node *Node, cfg Config) []models.Alias {
	if cfg.JoinAliasParts && len(cfg.AliasPaths) == 2 {
		firsts := node.Values(cfg.AliasPaths[0])
		lasts := node.Values(cfg.AliasPaths[1])
		n := max(len(firsts), len(lasts))
		aliases := make([]models.Alias, 0, n)
		for i := 0; i < n; i++ {
			var parts []string
			if i < len(firsts) {
				parts = append(parts, firsts[i])
			}
			if i < len(lasts) {
				parts = append(parts, lasts[i])
			}
			if name := strings.Join(parts, " "); name != "" {
				aliases = append(aliases, models.Alias{Name: name})
			}
		}
		return aliases
	}

	values := node.Values(cfg.AliasPaths...)
	aliases := make([]models.Alias, 0, len(values))
	for _, v := range values {
		aliases = append(aliases, models.Alias{Name: v})
	}
	return aliases
}

func extractIdentifiers(node *Node, cfg Config) []models.Identifier {
	types := node.Values(cfg.DocTypePath)
	numbers := node.Values(cfg.DocNumberPath)
	var descs []string
	if cfg.DocDescPath != "" {
		descs = node.Values(cfg.DocDescPath)
	}

	n := min(len(types), len(numbers))
	ids := make([]models.Identifier, 0, n)
	for i := 0; i < n; i++ {
		id := models.Identifier{Type: types[i], Value: numbers[i]}
		if i < len(descs) {
			id.Description = descs[i]
		}
		ids = append(ids, id)
	}
	return ids
}

func extractAddresses(node *Node, cfg Config) []models.Address {
	if len(cfg.AddressTextPaths) > 0 {
		texts := node.Values(cfg.AddressTextPaths...)
		out := make([]models.Address, 0, len(texts))
		for _, t := range texts {
			out = append(out, models.Address{Text: t})
		}
		return out
	}

	streets := node.Values(cfg.AddressStreetPath)
	cities := node.Values(cfg.AddressCityPath)
	countries := node.Values(cfg.AddressCountryPath)
	n := max(len(streets), len(cities), len(countries))
	out := make([]models.Address, 0, n)
	for i := 0; i < n; i++ {
		addr := models.Address{}
		if i < len(streets) {
			addr.Street = streets[i]
		}
		if i < len(cities) {
			addr.City = cities[i]
		}
		if i < len(countries) {
			addr.Country = countries[i]
		}
		if addr != (models.Address{}) {
			out = append(out, addr)
		}
	}
	return out
}

func subtypeFor(t models.EntityType, explicit string) string {
	switch t {
	case models.TypeIndividual:
		return "person"
	case models.TypeVessel:
		return "vessel"
	case models.TypeAircraft:
		return "aircraft"
	case models.TypeEntity:
		if explicit != "" && !strings.EqualFold(explicit, "entity") && !strings.EqualFold(explicit, "e") {
			return strings.ToLower(explicit)
		}
		return "organization"
	}
	return ""
}
