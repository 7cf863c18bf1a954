package normalize

import (
	"strings"

	"sanctionwatch/internal/sanction/models"
)

// Name keywords used for entity-type inference when a source carries no
// explicit classification.
var (
	companyKeywords = []string{"LLC", "LTD", "INC", "CORPORATION", "CORP", "CO.", "COMPANY", "GROUP", "S.A.", "GMBH", "PLC", "JSC"}
	vesselKeywords  = []string{"VESSEL", "SHIP", "TANKER", "CARRIER"}
)

// InferEntityType resolves a record's type with the precedence: explicit
// classification code, company-suffix keywords, vessel keywords, presence of
// person-only fields, unknown.
func InferEntityType(explicit, name string, hasPersonFields bool) models.EntityType {
	if t, ok := classify(explicit); ok {
		return t
	}

	upper := strings.ToUpper(name)
	for _, kw := range companyKeywords {
		if strings.Contains(upper, kw) {
			return models.TypeEntity
		}
	}
	for _, kw := range vesselKeywords {
		if strings.Contains(upper, kw) {
			return models.TypeVessel
		}
	}

	if hasPersonFields {
		return models.TypeIndividual
	}
	return models.TypeUnknown
}

// classify maps the explicit per-source type markers onto the unified enum.
// Each feed spells its classification differently: UN uses the node name, EU
// a one-letter code, US a word.
func classify(explicit string) (models.EntityType, bool) {
	switch strings.ToUpper(strings.TrimSpace(explicit)) {
	case "":
		return "", false
	case "INDIVIDUAL", "P", "PERSON":
		return models.TypeIndividual, true
	case "ENTITY", "E", "ORGANIZATION", "ORGANISATION":
		return models.TypeEntity, true
	case "VESSEL", "V", "SHIP":
		return models.TypeVessel, true
	case "AIRCRAFT", "A":
		return models.TypeAircraft, true
	default:
		return "", false
	}
}
