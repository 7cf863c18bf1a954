package models

// Summary is the derived `_summary` block attached to read responses. It is
// computed per response and never persisted.
type Summary struct {
	Type        string         `json:"type"`
	Entity      string         `json:"entity"`
	Countries   []string       `json:"countries"`
	DateUpdated string         `json:"dateUpdated,omitempty"`
	Programs    []string       `json:"programs"`
	Source      string         `json:"source"`
	Identifiers KeyIdentifiers `json:"identifiers"`
}

// KeyIdentifiers collects the handful of identifying facts shown in list
// views.
type KeyIdentifiers struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	Passport     string `json:"passport,omitempty"`
	NationalID   string `json:"nationalId,omitempty"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
	PlaceOfBirth string `json:"placeOfBirth,omitempty"`
}
