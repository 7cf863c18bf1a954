package models

// SourceFile is the raw per-source envelope written by an adapter run
// (data/{source}_sanctions.json). Downstream steps can re-run from these
// without refetching the feed.
type SourceFile struct {
	Data []Record       `json:"data"`
	Meta SourceFileMeta `json:"meta"`
}

type SourceFileMeta struct {
	Source      Source `json:"source"`
	Count       int    `json:"count"`
	LastUpdated string `json:"lastUpdated"`
	Version     string `json:"version"`
}

// Chunk is one size-bounded slice of a record array.
type Chunk struct {
	Meta ChunkMeta `json:"meta"`
	Data []Record  `json:"data"`
}

type ChunkMeta struct {
	Source      string `json:"source"`
	ChunkIndex  int    `json:"chunkIndex"`
	TotalChunks int    `json:"totalChunks"`
	EntryCount  int    `json:"entryCount"`
}

// ChunkIndex maps record id to the chunk file(s) holding it
// (data/chunks/index.json).
type ChunkIndex struct {
	Chunks map[string][]string `json:"chunks"`
	Meta   ChunkIndexMeta      `json:"meta"`
}

type ChunkIndexMeta struct {
	Created      string `json:"created"`
	TotalEntries int    `json:"totalEntries"`
}

// VersionManifest describes the currently published corpus
// (data/version.json). One manifest per corpus, overwritten each run.
type VersionManifest struct {
	Current     string         `json:"current"`
	LastUpdated string         `json:"lastUpdated"`
	RecordCount int            `json:"recordCount"`
	Sources     map[Source]int `json:"sources"`
}

// Diagnostic is the operator-facing record of the last ingestion run
// (data/diagnostic_info.json). Failures surface here and in logs, never
// through the serving API.
type Diagnostic struct {
	Status     string                  `json:"status"`
	Error      string                  `json:"error,omitempty"`
	StartedAt  string                  `json:"startedAt"`
	FinishedAt string                  `json:"finishedAt"`
	DurationMS int64                   `json:"durationMs"`
	Sources    map[Source]SourceResult `json:"sources,omitempty"`
}

// SourceResult reports one source's outcome within a pipeline run.
type SourceResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}
