package ingest

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanctionwatch/internal/sanction/models"
)

func rec(id, name string, src models.Source) models.Record {
	return models.Record{ID: id, Source: src, Name: name, Type: models.TypeIndividual}
}

func TestIntegrateLastWriteWins(t *testing.T) {
	bySource := map[models.Source][]models.Record{
		models.SourceUN: {rec("SHARED-1", "UN version", models.SourceUN), rec("UN-2", "Only UN", models.SourceUN)},
		models.SourceEU: {rec("SHARED-1", "EU version", models.SourceEU)},
	}

	result := Integrate(bySource, slog.Default())
	require.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Duplicates)

	var shared models.Record
	for _, r := range result.Records {
		if r.ID == "SHARED-1" {
			shared = r
		}
	}
	// The later source in priority order overwrites outright, no field merge.
	assert.Equal(t, "EU version", shared.Name)
	assert.Equal(t, models.SourceEU, shared.OriginalSource)
}

func TestIntegrateAssignsSequentialIDs(t *testing.T) {
	bySource := map[models.Source][]models.Record{
		models.SourceUN: {rec("UN-1", "a", models.SourceUN), rec("UN-2", "b", models.SourceUN)},
		models.SourceUS: {rec("US-1", "c", models.SourceUS)},
	}

	result := Integrate(bySource, slog.Default())
	require.Len(t, result.Records, 3)
	for i, r := range result.Records {
		assert.Equal(t, i+1, r.IntegratedID)
	}
	assert.Equal(t, 2, result.SourceCounts[models.SourceUN])
	assert.Equal(t, 1, result.SourceCounts[models.SourceUS])
}

func TestIntegrateNormalizesAndStampsSource(t *testing.T) {
	bySource := map[models.Source][]models.Record{
		models.SourceUN: {{ID: "UN-1"}},
	}

	result := Integrate(bySource, slog.Default())
	require.Len(t, result.Records, 1)
	r := result.Records[0]
	assert.Equal(t, models.SourceUN, r.Source)
	assert.Equal(t, models.NoName, r.Name)
	assert.NotNil(t, r.Countries)
}

func TestIntegrateEmptyInput(t *testing.T) {
	result := Integrate(nil, slog.Default())
	assert.Zero(t, result.Total)
	assert.Empty(t, result.Records)
}

func TestIntegrateSkipsRecordsWithoutID(t *testing.T) {
	bySource := map[models.Source][]models.Record{
		models.SourceUN: {
			rec("", "first nameless", models.SourceUN),
			rec("", "second nameless", models.SourceUN),
			rec("UN-1", "kept", models.SourceUN),
		},
	}

	result := Integrate(bySource, slog.Default())

	// Id-less rows are dropped with a warning, never folded into one empty
	// key or counted as duplicates.
	require.Equal(t, 1, result.Total)
	assert.Equal(t, 0, result.Duplicates)
	assert.Equal(t, 2, result.MissingID)
	for _, r := range result.Records {
		assert.NotEmpty(t, r.ID)
	}
}
