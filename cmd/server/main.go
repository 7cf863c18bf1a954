package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sanctionwatch/internal/corpus"
	"sanctionwatch/internal/jwttoken"
	"sanctionwatch/internal/platform/config"
	"sanctionwatch/internal/platform/httpserver"
	"sanctionwatch/internal/platform/logger"
	"sanctionwatch/internal/platform/metrics"
	platformredis "sanctionwatch/internal/platform/redis"
	"sanctionwatch/internal/search"
	"sanctionwatch/internal/search/cache"
	"sanctionwatch/internal/search/handler"
	searchmetrics "sanctionwatch/internal/search/metrics"
	"sanctionwatch/internal/version"
)

// main wires the serving side together: corpus loader, search engine, detail
// cache, and the HTTP API. Ingestion runs separately via cmd/ingest.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	layout := corpus.NewLayout(cfg.DataDir)
	loader := corpus.NewLoader(layout, corpus.WithLogger(log))

	detailCache, closeCache := buildCache(cfg, log)
	defer closeCache()

	engine := search.NewEngine(loader,
		search.WithLogger(log),
		search.WithMetrics(searchmetrics.New()),
		search.WithCache(detailCache),
	)

	validator := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	versions := version.NewStore(layout, version.WithLogger(log))

	h := handler.New(engine, versions, log, metrics.New(), validator)

	router := chi.NewRouter()
	h.Register(router)
	router.Get("/metrics", promhttp.Handler().ServeHTTP)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting sanctionwatch", "addr", cfg.Addr, "data_dir", cfg.DataDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := httpserver.Run(ctx, srv, httpserver.DefaultShutdownGrace, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// buildCache prefers redis when configured so multiple instances share the
// detail cache, and falls back to the in-process cache otherwise.
func buildCache(cfg config.Server, log *slog.Logger) (cache.Cache, func()) {
	client, err := platformredis.New(cfg.Redis())
	if err != nil {
		log.Warn("redis unavailable, using in-memory detail cache", "error", err)
	}
	if client == nil {
		return cache.NewMemory(cache.WithTTL(cfg.CacheTTL)), func() {}
	}
	log.Info("using redis detail cache")
	rc := cache.NewRedis(client.Client, cache.WithRedisTTL(cfg.CacheTTL))
	return rc, func() { _ = client.Close() }
}
