// Package ingest implements the offline batch pipeline: fetch the feeds,
// merge and deduplicate them, split the corpus into size-bounded chunks, and
// publish a dated version snapshot. Each stage is separately invocable so a
// partial run can be resumed.
package ingest

import (
	"log/slog"

	"sanctionwatch/internal/sanction/models"
)

// IntegrationResult reports one merge pass.
type IntegrationResult struct {
	Records      []models.Record
	Total        int
	Duplicates   int
	MissingID    int
	SourceCounts map[models.Source]int
}

// Integrate merges per-source record sets into one corpus. Sources are
// visited in priority order and records are keyed by id, so a later source
// wins an id collision outright; fields are never merged. A record without an
// id is skipped with a warning rather than folded into the empty key. Every
// surviving record gets a sequential integratedId and keeps the source it
// came from as originalSource.
func Integrate(bySource map[models.Source][]models.Record, logger *slog.Logger) IntegrationResult {
	merged := make(map[string]models.Record)
	var order []string
	duplicates := 0
	missingID := 0

	for _, src := range models.Sources {
		for _, rec := range bySource[src] {
			if rec.ID == "" {
				missingID++
				logger.Warn("skipping record without id", "source", src, "name", rec.Name)
				continue
			}
			rec.Normalize()
			if rec.Source == "" {
				rec.Source = src
			}
			rec.OriginalSource = src
			if _, exists := merged[rec.ID]; exists {
				duplicates++
			} else {
				order = append(order, rec.ID)
			}
			merged[rec.ID] = rec
		}
	}

	records := make([]models.Record, 0, len(order))
	counts := make(map[models.Source]int)
	for i, id := range order {
		rec := merged[id]
		rec.IntegratedID = i + 1
		records = append(records, rec)
		counts[rec.OriginalSource]++
	}

	logger.Info("sources integrated",
		"total", len(records),
		"duplicates_removed", duplicates,
		"missing_id", missingID,
	)

	return IntegrationResult{
		Records:      records,
		Total:        len(records),
		Duplicates:   duplicates,
		MissingID:    missingID,
		SourceCounts: counts,
	}
}
