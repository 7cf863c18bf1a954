// Package corpus owns the on-disk layout of the normalized sanction data and
// the loading of the integrated corpus into memory for serving.
package corpus

import (
	"fmt"
	"path/filepath"

	"sanctionwatch/internal/sanction/models"
)

// Layout resolves every file path under one data directory. All pipeline
// steps and the serving loader go through it so the directory structure is
// defined in exactly one place.
type Layout struct {
	Root string
}

func NewLayout(root string) Layout {
	return Layout{Root: root}
}

// SourceFile is the raw per-source output of an adapter run.
func (l Layout) SourceFile(s models.Source) string {
	return filepath.Join(l.Root, fmt.Sprintf("%s_sanctions.json", lowerSource(s)))
}

// IntegratedFile is the merged flat record array.
func (l Layout) IntegratedFile() string {
	return filepath.Join(l.Root, "sanctions.json")
}

// ChunkDir holds the size-bounded chunk files and their index.
func (l Layout) ChunkDir() string {
	return filepath.Join(l.Root, "chunks")
}

// ChunkFile names the i-th chunk for a source prefix ("integrated" for the
// merged corpus).
func (l Layout) ChunkFile(prefix string, i int) string {
	return filepath.Join(l.ChunkDir(), fmt.Sprintf("%s_chunk_%d.json", prefix, i))
}

// ChunkIndexFile maps record ids to chunk files.
func (l Layout) ChunkIndexFile() string {
	return filepath.Join(l.ChunkDir(), "index.json")
}

// VersionManifestFile describes the published corpus version.
func (l Layout) VersionManifestFile() string {
	return filepath.Join(l.Root, "version.json")
}

// VersionDir is the dated snapshot directory for one published version.
func (l Layout) VersionDir(date string) string {
	return filepath.Join(l.VersionsRoot(), date)
}

// VersionsRoot holds all dated snapshot directories.
func (l Layout) VersionsRoot() string {
	return filepath.Join(l.Root, "versions")
}

// VersionSnapshot is the corpus file inside one dated snapshot.
func (l Layout) VersionSnapshot(date string) string {
	return filepath.Join(l.VersionDir(date), "sanctions.json")
}

// TempDir holds intermediate pipeline artifacts (raw feed downloads).
func (l Layout) TempDir() string {
	return filepath.Join(l.Root, "temp")
}

// RawFeedFile is the downloaded XML for one source before conversion.
func (l Layout) RawFeedFile(s models.Source) string {
	return filepath.Join(l.TempDir(), fmt.Sprintf("%s_raw.xml", lowerSource(s)))
}

// DiagnosticFile records the outcome of the last pipeline run.
func (l Layout) DiagnosticFile() string {
	return filepath.Join(l.Root, "diagnostic_info.json")
}

func lowerSource(s models.Source) string {
	switch s {
	case models.SourceUN:
		return "un"
	case models.SourceEU:
		return "eu"
	case models.SourceUS:
		return "us"
	}
	return string(s)
}
