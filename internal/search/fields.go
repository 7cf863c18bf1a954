package search

import (
	"fmt"
	"strings"

	"sanctionwatch/internal/normalize"
	"sanctionwatch/internal/sanction/models"
)

// fieldBlobs are the lowercase concatenated field groups one record is
// matched against. Substring containment over these blobs is the whole
// matching model; there is no token index.
type fieldBlobs struct {
	names    string
	numeric  string
	location string
	dates    string
	other    string
	all      string
}

func blobsFor(r *models.Record) fieldBlobs {
	var names, numeric, location, dates, other []string

	names = append(names, r.Name, r.NameOriginal)
	for _, a := range r.Aliases {
		names = append(names, a.Name)
	}
	names = append(names, detailStrings(r, "title", "description")...)

	for _, id := range r.Identifiers {
		numeric = append(numeric, id.Type, id.Value)
	}
	if r.IntegratedID > 0 {
		numeric = append(numeric, fmt.Sprintf("%d", r.IntegratedID))
	}
	numeric = append(numeric, r.ID)

	location = append(location, r.Countries...)
	for _, a := range r.Addresses {
		location = append(location, a.Street, a.City, a.Country, a.Text)
	}
	location = append(location, detailStrings(r, "nationality", "placeOfBirth")...)

	dates = append(dates, r.ListingDate, r.LastUpdated)
	dates = append(dates, detailStrings(r, "dateOfBirth", "birthDate", "publicationDate")...)
	if d := normalize.BestUpdateDate(r); d != "" {
		dates = append(dates, d)
	}

	other = append(other, r.Programs...)
	other = append(other, string(r.Type), r.Subtype, string(r.Source))
	other = append(other, detailStrings(r, "remarks", "reason", "entityType", "program")...)

	b := fieldBlobs{
		names:    joinLower(names),
		numeric:  joinLower(numeric),
		location: joinLower(location),
		dates:    joinLower(dates),
		other:    joinLower(other),
	}
	b.all = b.names + " " + b.numeric + " " + b.location + " " + b.dates + " " + b.other
	return b
}

func joinLower(parts []string) string {
	var b strings.Builder
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.ToLower(p))
	}
	return b.String()
}

func detailStrings(r *models.Record, keys ...string) []string {
	var out []string
	for _, k := range keys {
		switch v := r.Details[k].(type) {
		case string:
			out = append(out, v)
		case []string:
			out = append(out, v...)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
