package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"sanctionwatch/internal/corpus"
	ingestpkg "sanctionwatch/internal/ingest"
	ingestmetrics "sanctionwatch/internal/ingest/metrics"
	"sanctionwatch/internal/platform/config"
	"sanctionwatch/internal/platform/logger"
	"sanctionwatch/internal/sanction/models"
	"sanctionwatch/internal/source"
	sourcemetrics "sanctionwatch/internal/source/metrics"
	"sanctionwatch/internal/version"
	dErrors "sanctionwatch/pkg/domain-errors"
)

const usage = `Usage: ingest <command>

Commands:
  fetch      download raw feed XML into the data directory
  convert    parse downloaded XML into per-source record files
  integrate  merge sources, dedupe, and commit a version snapshot
  split      chunk the integrated corpus for serving
  prune      apply the snapshot retention policy
  sync       copy the published corpus to the serving directory
  all        run the full pipeline end to end
`

// main dispatches the batch pipeline stages. Stages are separate commands so
// an operator can re-run any one of them after a partial failure.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.IngestFromEnv()
	log := logger.New()

	layout := corpus.NewLayout(cfg.DataDir)

	sourceMetrics := sourcemetrics.New()
	var adapters []*source.Adapter
	for _, src := range models.Sources {
		url, ok := cfg.SourceURLs[string(src)]
		if !ok || url == "" {
			log.Warn("no URL configured, skipping source", "source", src)
			continue
		}
		adapterCfg, ok := source.ConfigFor(src)
		if !ok {
			log.Warn("no field map for source", "source", src)
			continue
		}
		adapters = append(adapters, source.NewAdapter(src, url, adapterCfg,
			source.WithLogger(log),
			source.WithMetrics(sourceMetrics),
			source.WithFetchTimeout(cfg.FetchTimeout),
		))
	}

	pipeline := ingestpkg.NewPipeline(layout, adapters,
		ingestpkg.WithLogger(log),
		ingestpkg.WithMetrics(ingestmetrics.New()),
		ingestpkg.WithServeDir(cfg.ServeDir),
		ingestpkg.WithChunkSizeLimit(cfg.ChunkSizeLimit),
		ingestpkg.WithVersionStore(version.NewStore(layout,
			version.WithLogger(log),
			version.WithSizeLimit(cfg.VersionSizeLimit),
		)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := run(ctx, pipeline, os.Args[1]); err != nil {
		log.Error("ingest failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, p *ingestpkg.Pipeline, command string) error {
	switch command {
	case "fetch":
		for src, res := range p.Fetch(ctx) {
			if !res.Success {
				return dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("fetch %s: %s", src, res.Error))
			}
		}
		return nil
	case "convert":
		for src, res := range p.Convert(ctx) {
			if !res.Success {
				return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("convert %s: %s", src, res.Error))
			}
		}
		return nil
	case "integrate":
		_, err := p.Integrate(ctx)
		return err
	case "split":
		_, err := p.Split(ctx)
		return err
	case "prune":
		_, err := p.Prune(ctx)
		return err
	case "sync":
		return p.Sync(ctx)
	case "all":
		_, err := p.Run(ctx)
		return err
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}
