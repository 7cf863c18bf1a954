package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"sanctionwatch/internal/corpus"
	ingestmetrics "sanctionwatch/internal/ingest/metrics"
	"sanctionwatch/internal/sanction/models"
	"sanctionwatch/internal/source"
	"sanctionwatch/internal/version"
)

// Pipeline runs the ingestion stages against one data directory. Stages are
// independent so an operator can re-run any of them in isolation.
type Pipeline struct {
	adapters   map[models.Source]*source.Adapter
	layout     corpus.Layout
	serveDir   string
	chunkLimit int64
	splitter   *Splitter
	versions   *version.Store
	logger     *slog.Logger
	metrics    *ingestmetrics.Metrics
}

type PipelineOption func(*Pipeline)

func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = logger }
}

func WithMetrics(m *ingestmetrics.Metrics) PipelineOption {
	return func(p *Pipeline) { p.metrics = m }
}

// WithServeDir enables the sync stage; when unset, Sync is a no-op.
func WithServeDir(dir string) PipelineOption {
	return func(p *Pipeline) { p.serveDir = dir }
}

func WithChunkSizeLimit(limit int64) PipelineOption {
	return func(p *Pipeline) { p.chunkLimit = limit }
}

func WithVersionStore(s *version.Store) PipelineOption {
	return func(p *Pipeline) { p.versions = s }
}

func NewPipeline(layout corpus.Layout, adapters []*source.Adapter, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		adapters: make(map[models.Source]*source.Adapter, len(adapters)),
		layout:   layout,
		logger:   slog.Default(),
	}
	for _, a := range adapters {
		p.adapters[a.Source()] = a
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.splitter == nil {
		p.splitter = NewSplitter(layout, p.chunkLimit, p.logger)
	}
	if p.versions == nil {
		p.versions = version.NewStore(layout, version.WithLogger(p.logger))
	}
	return p
}

// Fetch downloads every feed's raw XML into the temp directory. Feeds run in
// parallel and a failing feed does not stop the others; its failure lands in
// the returned per-source results.
func (p *Pipeline) Fetch(ctx context.Context) map[models.Source]models.SourceResult {
	results := make(map[models.Source]models.SourceResult, len(p.adapters))
	var g errgroup.Group

	type outcome struct {
		src models.Source
		res models.SourceResult
	}
	outcomes := make(chan outcome, len(p.adapters))

	for src, adapter := range p.adapters {
		g.Go(func() error {
			res := models.SourceResult{Success: true}
			if err := p.fetchOne(ctx, adapter); err != nil {
				p.logger.Error("feed fetch failed", "source", src, "error", err)
				p.metrics.IncStageFailure("fetch")
				res = models.SourceResult{Error: err.Error()}
			}
			outcomes <- outcome{src: src, res: res}
			return nil
		})
	}
	g.Wait()
	close(outcomes)

	for o := range outcomes {
		results[o.src] = o.res
	}
	return results
}

func (p *Pipeline) fetchOne(ctx context.Context, adapter *source.Adapter) error {
	body, err := adapter.Fetch(ctx)
	if err != nil {
		return err
	}
	defer body.Close()

	path := p.layout.RawFeedFile(adapter.Source())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(f, body)
	if err != nil {
		return fmt.Errorf("save raw feed: %w", err)
	}
	p.logger.Info("feed downloaded", "source", adapter.Source(), "bytes", n)
	return nil
}

// Convert parses previously fetched raw XML into per-source record files. A
// source with no raw file or a broken one yields zero records, not an abort.
func (p *Pipeline) Convert(ctx context.Context) map[models.Source]models.SourceResult {
	results := make(map[models.Source]models.SourceResult, len(p.adapters))

	for _, src := range models.Sources {
		adapter, ok := p.adapters[src]
		if !ok {
			continue
		}
		count, err := p.convertOne(adapter)
		if err != nil {
			p.logger.Error("feed conversion failed", "source", src, "error", err)
			p.metrics.IncStageFailure("convert")
			results[src] = models.SourceResult{Error: err.Error()}
			continue
		}
		results[src] = models.SourceResult{Success: true, Count: count}
		p.metrics.SetSourceRecords(string(src), count)
	}
	return results
}

func (p *Pipeline) convertOne(adapter *source.Adapter) (int, error) {
	raw, err := os.Open(p.layout.RawFeedFile(adapter.Source()))
	if err != nil {
		return 0, err
	}
	defer raw.Close()

	records, err := adapter.ParseRecords(raw)
	if err != nil {
		return 0, err
	}

	file := models.SourceFile{
		Data: records,
		Meta: models.SourceFileMeta{
			Source:      adapter.Source(),
			Count:       len(records),
			LastUpdated: time.Now().UTC().Format(time.RFC3339),
			Version:     "1.0.0",
		},
	}
	if err := corpus.WriteJSONAtomic(p.layout.SourceFile(adapter.Source()), file); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Integrate merges the per-source files into the flat corpus and commits a
// dated version snapshot. Missing source files count as zero records.
func (p *Pipeline) Integrate(ctx context.Context) (IntegrationResult, error) {
	bySource := make(map[models.Source][]models.Record, len(models.Sources))
	for _, src := range models.Sources {
		var file models.SourceFile
		err := corpus.ReadJSON(p.layout.SourceFile(src), &file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				p.logger.Warn("no source file, treating as empty", "source", src)
				continue
			}
			return IntegrationResult{}, err
		}
		bySource[src] = file.Data
	}

	result := Integrate(bySource, p.logger)
	if err := corpus.WriteJSONAtomic(p.layout.IntegratedFile(), result.Records); err != nil {
		return IntegrationResult{}, err
	}

	if _, err := p.versions.Commit(result.Records, result.SourceCounts); err != nil {
		return IntegrationResult{}, err
	}

	p.metrics.SetIntegrated(result.Total, result.Duplicates)
	return result, nil
}

// Split chunks the integrated corpus for serving.
func (p *Pipeline) Split(ctx context.Context) (SplitResult, error) {
	var records []models.Record
	if err := corpus.ReadJSON(p.layout.IntegratedFile(), &records); err != nil {
		return SplitResult{}, err
	}
	res, err := p.splitter.Split(records, "integrated")
	if err != nil {
		return SplitResult{}, err
	}
	p.metrics.SetChunks(res.TotalChunks, len(res.Excluded))
	return res, nil
}

// Prune applies the snapshot retention policy.
func (p *Pipeline) Prune(ctx context.Context) ([]string, error) {
	return p.versions.Prune()
}

// syncFiles are the corpus artifacts copied into the serving directory.
var syncFiles = []string{
	"sanctions.json",
	"un_sanctions.json",
	"eu_sanctions.json",
	"us_sanctions.json",
	"version.json",
	"diagnostic_info.json",
}

// Sync copies the published corpus into the serving directory. When nothing
// has been published yet, empty default envelopes are written instead so the
// serving side always finds well-formed files.
func (p *Pipeline) Sync(ctx context.Context) error {
	if p.serveDir == "" || p.serveDir == p.layout.Root {
		return nil
	}
	if err := os.MkdirAll(p.serveDir, 0o755); err != nil {
		return err
	}

	copied := 0
	for _, name := range syncFiles {
		src := filepath.Join(p.layout.Root, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, filepath.Join(p.serveDir, name)); err != nil {
			p.logger.Error("sync copy failed", "file", name, "error", err)
			continue
		}
		copied++
	}

	if err := p.syncChunks(); err != nil {
		p.logger.Error("chunk sync failed", "error", err)
	}

	if copied == 0 {
		p.logger.Warn("nothing to sync, writing default envelopes")
		return p.writeDefaults()
	}
	p.logger.Info("corpus synced", "dir", p.serveDir, "files", copied)
	return nil
}

func (p *Pipeline) syncChunks() error {
	entries, err := os.ReadDir(p.layout.ChunkDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	target := filepath.Join(p.serveDir, "chunks")
	if err := os.MkdirAll(target, 0o755); err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := copyFile(filepath.Join(p.layout.ChunkDir(), e.Name()), filepath.Join(target, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) writeDefaults() error {
	serve := corpus.NewLayout(p.serveDir)
	now := time.Now().UTC().Format(time.RFC3339)

	for _, src := range models.Sources {
		file := models.SourceFile{
			Data: []models.Record{},
			Meta: models.SourceFileMeta{Source: src, LastUpdated: now, Version: "1.0.0"},
		}
		if err := corpus.WriteJSONAtomic(serve.SourceFile(src), file); err != nil {
			return err
		}
	}
	if err := corpus.WriteJSONAtomic(serve.IntegratedFile(), []models.Record{}); err != nil {
		return err
	}
	manifest := models.VersionManifest{Current: "", LastUpdated: now, Sources: map[models.Source]int{}}
	if err := corpus.WriteJSONAtomic(serve.VersionManifestFile(), manifest); err != nil {
		return err
	}
	diag := models.Diagnostic{Status: "init", StartedAt: now, FinishedAt: now}
	return corpus.WriteJSONAtomic(serve.DiagnosticFile(), diag)
}

// Run executes the full pipeline and records the outcome in the diagnostic
// file. Individual feed failures degrade to empty sources; only filesystem
// level failures abort the run.
func (p *Pipeline) Run(ctx context.Context) (models.Diagnostic, error) {
	start := time.Now().UTC()
	diag := models.Diagnostic{
		Status:    "success",
		StartedAt: start.Format(time.RFC3339),
		Sources:   make(map[models.Source]models.SourceResult),
	}

	fetchResults := p.Fetch(ctx)
	convertResults := p.Convert(ctx)
	for src, res := range fetchResults {
		if !res.Success {
			diag.Sources[src] = res
			continue
		}
		diag.Sources[src] = convertResults[src]
	}

	var runErr error
	if _, err := p.Integrate(ctx); err != nil {
		runErr = fmt.Errorf("integrate: %w", err)
	} else if _, err := p.Split(ctx); err != nil {
		runErr = fmt.Errorf("split: %w", err)
	} else if _, err := p.Prune(ctx); err != nil {
		runErr = fmt.Errorf("prune: %w", err)
	} else if err := p.Sync(ctx); err != nil {
		runErr = fmt.Errorf("sync: %w", err)
	}

	if runErr != nil {
		diag.Status = "error"
		diag.Error = runErr.Error()
	}
	end := time.Now().UTC()
	diag.FinishedAt = end.Format(time.RFC3339)
	diag.DurationMS = end.Sub(start).Milliseconds()

	if err := corpus.WriteJSONAtomic(p.layout.DiagnosticFile(), diag); err != nil {
		p.logger.Error("writing diagnostic file failed", "error", err)
	}
	p.metrics.ObserveRun(diag.Status, end.Sub(start))
	return diag, runErr
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
