// Package version manages dated corpus snapshots and the published-version
// manifest, including the retention policy that garbage-collects old
// snapshots.
package version

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"time"

	"sanctionwatch/internal/corpus"
	"sanctionwatch/internal/normalize"
	"sanctionwatch/internal/sanction/models"
	"sanctionwatch/pkg/platform/sentinel"
)

// DefaultSizeLimit is the snapshot-directory ceiling above which the previous
// version is not retained.
const DefaultSizeLimit = 100 * 1024 * 1024

// Store publishes and prunes corpus snapshots under one data directory.
type Store struct {
	layout    corpus.Layout
	sizeLimit int64
	logger    *slog.Logger
	now       func() time.Time
}

type StoreOption func(*Store)

func WithSizeLimit(limit int64) StoreOption {
	return func(s *Store) { s.sizeLimit = limit }
}

func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// WithClock overrides time for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func NewStore(layout corpus.Layout, opts ...StoreOption) *Store {
	s := &Store{
		layout:    layout,
		sizeLimit: DefaultSizeLimit,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Commit seals the current corpus as today's snapshot and rewrites the
// manifest. Committing twice on the same day overwrites that day's snapshot.
// The manifest write is atomic so a reader never observes a half-written one.
func (s *Store) Commit(records []models.Record, sourceCounts map[models.Source]int) (models.VersionManifest, error) {
	date := s.now().UTC().Format(normalize.ISODate)

	if err := corpus.WriteJSONAtomic(s.layout.VersionSnapshot(date), records); err != nil {
		return models.VersionManifest{}, fmt.Errorf("write snapshot %s: %w", date, err)
	}

	manifest := models.VersionManifest{
		Current:     date,
		LastUpdated: s.now().UTC().Format(time.RFC3339),
		RecordCount: len(records),
		Sources:     sourceCounts,
	}
	if err := corpus.WriteJSONAtomic(s.layout.VersionManifestFile(), manifest); err != nil {
		return models.VersionManifest{}, fmt.Errorf("write manifest: %w", err)
	}

	s.logger.Info("version committed", "version", date, "records", len(records))
	return manifest, nil
}

// Current reads the published manifest. Returns sentinel.ErrNotFound when no
// version has been committed yet.
func (s *Store) Current() (models.VersionManifest, error) {
	var manifest models.VersionManifest
	if err := corpus.ReadJSON(s.layout.VersionManifestFile(), &manifest); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.VersionManifest{}, sentinel.ErrNotFound
		}
		return models.VersionManifest{}, err
	}
	return manifest, nil
}

// Versions lists snapshot dates, newest first.
func (s *Store) Versions() ([]string, error) {
	entries, err := os.ReadDir(s.layout.VersionsRoot())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var versions []string
	for _, e := range entries {
		if e.IsDir() {
			versions = append(versions, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(versions)))
	return versions, nil
}

// Prune removes snapshots outside the retention policy: the latest version
// always stays, the previous one stays only while its directory is under the
// size limit, and everything older goes.
func (s *Store) Prune() ([]string, error) {
	versions, err := s.Versions()
	if err != nil {
		return nil, err
	}
	if len(versions) <= 1 {
		return nil, nil
	}

	keep := 2
	previous := versions[1]
	size, err := corpus.DirSize(s.layout.VersionDir(previous))
	if err != nil {
		return nil, fmt.Errorf("size previous version %s: %w", previous, err)
	}
	if size > s.sizeLimit {
		s.logger.Info("previous version over size limit, not retaining",
			"version", previous,
			"bytes", size,
		)
		keep = 1
	}

	var removed []string
	for _, v := range versions[keep:] {
		if err := os.RemoveAll(s.layout.VersionDir(v)); err != nil {
			return removed, fmt.Errorf("remove version %s: %w", v, err)
		}
		removed = append(removed, v)
	}

	if len(removed) > 0 {
		s.logger.Info("versions pruned", "removed", removed)
	}
	return removed, nil
}
