package source

import "sanctionwatch/internal/sanction/models"

// Config is the declarative field map for one feed. A single transformer
// consumes it; adding a feed means adding a map, not parsing code.
type Config struct {
	// Entity element names collected from anywhere in the document.
	EntityElements []string

	// IDPath may address an attribute ("@DATAID") or a child element.
	IDPath string

	// NamePaths are tried in order; with JoinNameParts the first value of
	// every path is joined with spaces instead (firstName + lastName feeds).
	NamePaths     []string
	JoinNameParts bool

	// AliasPaths yield alias names; with JoinAliasParts the two paths are
	// zipped pairwise and joined per index.
	AliasPaths     []string
	JoinAliasParts bool

	// TypePath names the explicit classification element; TypeFromElement
	// uses the entity element's own name instead (UN INDIVIDUAL/ENTITY).
	TypePath        string
	TypeFromElement bool

	CountryPaths   []string
	BirthdatePaths []string

	// AddressTextPaths produce free-text addresses; the structured triple
	// zips street/city/country columns positionally.
	AddressTextPaths   []string
	AddressStreetPath  string
	AddressCityPath    string
	AddressCountryPath string

	ProgramPaths []string

	// Identifier columns are zipped by index; description is optional.
	DocTypePath   string
	DocDescPath   string
	DocNumberPath string
}

var sourceConfigs = map[models.Source]Config{
	models.SourceUN: {
		EntityElements:   []string{"INDIVIDUAL", "ENTITY"},
		IDPath:           "@DATAID",
		NamePaths:        []string{"FIRST_NAME", "NAME_ORIGINAL"},
		AliasPaths:       []string{"INDIVIDUAL_ALIAS/ALIAS_NAME", "ENTITY_ALIAS/ALIAS_NAME"},
		TypeFromElement:  true,
		CountryPaths:     []string{"NATIONALITY/VALUE", "COUNTRY/VALUE"},
		BirthdatePaths:   []string{"INDIVIDUAL_DATE_OF_BIRTH/DATE"},
		AddressTextPaths: []string{"INDIVIDUAL_ADDRESS/NOTE", "ENTITY_ADDRESS/NOTE"},
		ProgramPaths:     []string{"UN_LIST_TYPE"},
		DocTypePath:      "INDIVIDUAL_DOCUMENT/TYPE_OF_DOCUMENT",
		DocNumberPath:    "INDIVIDUAL_DOCUMENT/NUMBER",
	},
	models.SourceEU: {
		EntityElements:     []string{"sanctionEntity"},
		IDPath:             "referenceNumber",
		NamePaths:          []string{"nameAlias[isPrimary=true]/wholeName", "nameAlias/wholeName"},
		AliasPaths:         []string{"nameAlias[isPrimary=false]/wholeName"},
		TypePath:           "subjectType/classificationCode",
		CountryPaths:       []string{"citizenship/countryDescription", "residenceCountry/countryDescription"},
		BirthdatePaths:     []string{"birthdate/birthdate"},
		AddressStreetPath:  "address/street",
		AddressCityPath:    "address/city",
		AddressCountryPath: "address/country",
		ProgramPaths:       []string{"regulation/publicationDate"},
		DocTypePath:        "identification/identificationTypeCode",
		DocDescPath:        "identification/identificationTypeDescription",
		DocNumberPath:      "identification/number",
	},
	models.SourceUS: {
		EntityElements:     []string{"sdnEntry"},
		IDPath:             "uid",
		NamePaths:          []string{"firstName", "lastName"},
		JoinNameParts:      true,
		AliasPaths:         []string{"akaList/aka/firstName", "akaList/aka/lastName"},
		JoinAliasParts:     true,
		TypePath:           "sdnType",
		CountryPaths:       []string{"nationalityList/nationality/country", "addressList/address/country"},
		BirthdatePaths:     []string{"dateOfBirthList/dateOfBirthItem/dateOfBirth"},
		AddressStreetPath:  "addressList/address/address1",
		AddressCityPath:    "addressList/address/city",
		AddressCountryPath: "addressList/address/country",
		ProgramPaths:       []string{"programList/program"},
		DocTypePath:        "idList/id/idType",
		DocNumberPath:      "idList/id/idNumber",
	},
}

// ConfigFor returns the field map for a feed.
func ConfigFor(s models.Source) (Config, bool) {
	cfg, ok := sourceConfigs[s]
	return cfg, ok
}
