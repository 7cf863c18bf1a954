package ingest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"sanctionwatch/internal/corpus"
	"sanctionwatch/internal/sanction/models"
)

// DefaultChunkSizeLimit is the per-chunk byte ceiling. It stays comfortably
// under serverless static-file limits.
const DefaultChunkSizeLimit = 1536 * 1024

// chunkOverhead reserves room for the chunk envelope (meta block, array
// brackets, commas) on top of the summed record sizes.
const chunkOverhead = 512

// Splitter cuts a record array into size-bounded chunk files plus an id
// index.
type Splitter struct {
	layout corpus.Layout
	limit  int64
	logger *slog.Logger
}

func NewSplitter(layout corpus.Layout, limit int64, logger *slog.Logger) *Splitter {
	if limit <= 0 {
		limit = DefaultChunkSizeLimit
	}
	return &Splitter{layout: layout, limit: limit, logger: logger}
}

// SplitResult reports one split pass.
type SplitResult struct {
	ChunkFiles  []string
	Excluded    []string
	TotalChunks int
	Entries     int
}

// Split writes records as chunk files named {prefix}_chunk_{i}.json and
// rewrites the chunk index. A single record larger than the limit on its own
// is logged and excluded rather than producing an unloadable chunk.
func (s *Splitter) Split(records []models.Record, prefix string) (SplitResult, error) {
	budget := s.limit - chunkOverhead

	var chunks [][]models.Record
	var current []models.Record
	var currentSize int64
	var excluded []string

	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return SplitResult{}, fmt.Errorf("encode record %s: %w", rec.ID, err)
		}
		size := int64(len(data)) + 1

		if size > budget {
			s.logger.Warn("excluding oversized record",
				"id", rec.ID,
				"bytes", size,
				"limit", s.limit,
			)
			excluded = append(excluded, rec.ID)
			continue
		}
		if currentSize+size > budget && len(current) > 0 {
			chunks = append(chunks, current)
			current = nil
			currentSize = 0
		}
		current = append(current, rec)
		currentSize += size
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}

	index := models.ChunkIndex{
		Chunks: make(map[string][]string),
		Meta: models.ChunkIndexMeta{
			Created: time.Now().UTC().Format(time.RFC3339),
		},
	}

	result := SplitResult{TotalChunks: len(chunks)}
	for i, data := range chunks {
		path := s.layout.ChunkFile(prefix, i)
		chunk := models.Chunk{
			Meta: models.ChunkMeta{
				Source:      prefix,
				ChunkIndex:  i,
				TotalChunks: len(chunks),
				EntryCount:  len(data),
			},
			Data: data,
		}
		if err := corpus.WriteJSONAtomic(path, chunk); err != nil {
			return SplitResult{}, err
		}

		file := filepath.Base(path)
		result.ChunkFiles = append(result.ChunkFiles, file)
		for _, rec := range data {
			index.Chunks[rec.ID] = append(index.Chunks[rec.ID], file)
			result.Entries++
		}
	}
	index.Meta.TotalEntries = result.Entries
	result.Excluded = excluded

	if err := corpus.WriteJSONAtomic(s.layout.ChunkIndexFile(), index); err != nil {
		return SplitResult{}, err
	}

	s.logger.Info("corpus split",
		"prefix", prefix,
		"chunks", result.TotalChunks,
		"entries", result.Entries,
		"excluded", len(excluded),
	)
	return result, nil
}
