package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanctionwatch/internal/sanction/models"
)

func TestBestUpdateDate(t *testing.T) {
	t.Run("prefers last updated over listing date", func(t *testing.T) {
		r := &models.Record{LastUpdated: "2024-05-01", ListingDate: "2020-01-01"}
		assert.Equal(t, "2024-05-01", BestUpdateDate(r))
	})

	t.Run("falls back through details to listing date", func(t *testing.T) {
		r := &models.Record{
			ListingDate: "2020-01-01",
			Details:     map[string]any{"publicationDate": "1710460800"},
		}
		assert.Equal(t, "2024-03-15", BestUpdateDate(r))
	})

	t.Run("no dates at all", func(t *testing.T) {
		assert.Empty(t, BestUpdateDate(&models.Record{}))
	})
}

func TestCountries(t *testing.T) {
	r := &models.Record{
		Countries: []string{"Russia", "IRAN"},
		Addresses: []models.Address{{Country: "Iran"}, {Country: "Syria"}, {City: "Unknown"}},
		Details:   map[string]any{"nationality": []any{"Russia", "Belarus"}},
	}
	assert.Equal(t, []string{"Russia", "IRAN", "Belarus", "Syria"}, Countries(r))
}

func TestSummarize(t *testing.T) {
	r := &models.Record{
		ID:          "UN-12345",
		Source:      models.SourceUN,
		Name:        "Ivan Petrov",
		Type:        models.TypeIndividual,
		Countries:   []string{"Russia"},
		Programs:    []string{"TAQA"},
		LastUpdated: "2024-03-15",
		Identifiers: []models.Identifier{
			{Type: "Passport", Value: "AB1234567"},
			{Type: "National ID", Value: "987654"},
		},
		Details: map[string]any{"dateOfBirth": "1975-06-02", "placeOfBirth": "Moscow"},
	}

	s := Summarize(r)
	assert.Equal(t, "UN Sanctions", s.Type)
	assert.Equal(t, "individual", s.Entity)
	assert.Equal(t, []string{"Russia"}, s.Countries)
	assert.Equal(t, "2024-03-15", s.DateUpdated)
	assert.Equal(t, []string{"TAQA"}, s.Programs)
	assert.Equal(t, "UN", s.Source)
	assert.Equal(t, "AB1234567", s.Identifiers.Passport)
	assert.Equal(t, "987654", s.Identifiers.NationalID)
	assert.Equal(t, "1975-06-02", s.Identifiers.DateOfBirth)
	assert.Equal(t, "Moscow", s.Identifiers.PlaceOfBirth)
}

func TestSummarizeSparseRecord(t *testing.T) {
	s := Summarize(&models.Record{ID: "EU-9"})
	require.NotNil(t, s.Countries)
	require.NotNil(t, s.Programs)
	assert.Empty(t, s.Countries)
	assert.Empty(t, s.Programs)
	assert.Equal(t, "EU Sanctions", s.Type)
	assert.Equal(t, "EU", s.Source)
	assert.Equal(t, "unknown", s.Entity)
}

func TestSummarizeInfersEntityFromDetails(t *testing.T) {
	s := Summarize(&models.Record{
		ID:      "US-1",
		Name:    "Jane Doe",
		Details: map[string]any{"firstName": "Jane", "lastName": "Doe"},
	})
	assert.Equal(t, "individual", s.Entity)
}
