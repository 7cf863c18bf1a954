package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"sanctionwatch/internal/sanction/models"
	"sanctionwatch/pkg/platform/sentinel"
)

// DefaultIntegratedSizeLimit is the ceiling above which the flat integrated
// file is skipped when the chunk files already yielded records.
const DefaultIntegratedSizeLimit = 100 * 1024 * 1024

// Snapshot is one in-memory view of the corpus. It is immutable after Load
// returns it; concurrent searches share the same snapshot.
type Snapshot struct {
	Records  []models.Record
	ByID     map[string]*models.Record
	LoadedAt time.Time
}

// Loader reads the published corpus from disk. Chunk files are the primary
// representation; the flat integrated file only supplements records the
// chunks missed. Concurrent loads collapse to a single disk read, and a
// snapshot is reused until the files on disk change.
type Loader struct {
	layout    Layout
	logger    *slog.Logger
	sizeLimit int64

	group singleflight.Group

	mu       sync.RWMutex
	snapshot *Snapshot
	stamp    string
}

type LoaderOption func(*Loader)

func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// WithIntegratedSizeLimit overrides the skip threshold for the flat file.
func WithIntegratedSizeLimit(limit int64) LoaderOption {
	return func(l *Loader) { l.sizeLimit = limit }
}

func NewLoader(layout Layout, opts ...LoaderOption) *Loader {
	l := &Loader{
		layout:    layout,
		logger:    slog.Default(),
		sizeLimit: DefaultIntegratedSizeLimit,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the current corpus snapshot, reading from disk only when the
// underlying files changed since the last load. Returns
// sentinel.ErrNotFound when no corpus has been published yet.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	stamp := l.stampFiles()

	l.mu.RLock()
	if l.snapshot != nil && l.stamp == stamp {
		snap := l.snapshot
		l.mu.RUnlock()
		return snap, nil
	}
	l.mu.RUnlock()

	v, err, _ := l.group.Do(stamp, func() (any, error) {
		snap, err := l.read(ctx)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.snapshot = snap
		l.stamp = stamp
		l.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Get returns a single record by id from the current snapshot.
func (l *Loader) Get(ctx context.Context, id string) (*models.Record, error) {
	snap, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := snap.ByID[id]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, sentinel.ErrNotFound)
	}
	return rec, nil
}

func (l *Loader) read(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	records, err := l.readChunks(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(records))
	for i := range records {
		seen[records[i].ID] = struct{}{}
	}

	supplemented, err := l.readIntegrated(len(records) > 0, seen, &records)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("corpus at %s: %w", l.layout.Root, sentinel.ErrNotFound)
	}

	byID := make(map[string]*models.Record, len(records))
	for i := range records {
		byID[records[i].ID] = &records[i]
	}

	l.logger.Info("corpus loaded",
		"records", len(records),
		"supplemented", supplemented,
		"duration", time.Since(start),
	)

	return &Snapshot{Records: records, ByID: byID, LoadedAt: time.Now()}, nil
}

// readChunks loads every chunk file under the chunk directory, first-seen id
// wins across overlapping chunks.
func (l *Loader) readChunks(ctx context.Context) ([]models.Record, error) {
	entries, err := os.ReadDir(l.layout.ChunkDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read chunk dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "index.json" || filepath.Ext(name) != ".json" {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)

	seen := make(map[string]struct{})
	var records []models.Record
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var chunk models.Chunk
		if err := ReadJSON(filepath.Join(l.layout.ChunkDir(), name), &chunk); err != nil {
			l.logger.Warn("skipping unreadable chunk", "file", name, "error", err)
			continue
		}
		for _, rec := range chunk.Data {
			if _, ok := seen[rec.ID]; ok {
				continue
			}
			seen[rec.ID] = struct{}{}
			records = append(records, rec)
		}
	}
	return records, nil
}

// readIntegrated appends records from the flat file that the chunks missed.
// When the chunks already produced records and the flat file exceeds the size
// limit, it is skipped entirely.
func (l *Loader) readIntegrated(haveChunks bool, seen map[string]struct{}, records *[]models.Record) (int, error) {
	path := l.layout.IntegratedFile()
	size := FileSize(path)
	if size == 0 {
		return 0, nil
	}
	if haveChunks && size > l.sizeLimit {
		l.logger.Info("skipping integrated file", "size", size, "limit", l.sizeLimit)
		return 0, nil
	}

	var flat []models.Record
	if err := ReadJSON(path, &flat); err != nil {
		if !haveChunks {
			return 0, fmt.Errorf("read integrated file: %w", err)
		}
		l.logger.Warn("unreadable integrated file, serving chunks only", "error", err)
		return 0, nil
	}

	supplemented := 0
	for _, rec := range flat {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		seen[rec.ID] = struct{}{}
		*records = append(*records, rec)
		supplemented++
	}
	return supplemented, nil
}

// stampFiles fingerprints the corpus files so snapshot reuse notices a new
// publish. Any stat failure degrades to an always-different stamp.
func (l *Loader) stampFiles() string {
	stamp := ""
	for _, path := range []string{l.layout.ChunkIndexFile(), l.layout.IntegratedFile(), l.layout.VersionManifestFile()} {
		info, err := os.Stat(path)
		if err != nil {
			stamp += "|missing"
			continue
		}
		stamp += fmt.Sprintf("|%d:%d", info.ModTime().UnixNano(), info.Size())
	}
	if stamp == "|missing|missing|missing" {
		return fmt.Sprintf("none-%d", time.Now().UnixNano())
	}
	return stamp
}
