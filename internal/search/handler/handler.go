// Package handler exposes the sanctions search HTTP API.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sanctionwatch/internal/platform/metrics"
	"sanctionwatch/internal/platform/middleware"
	"sanctionwatch/internal/sanction/models"
	"sanctionwatch/internal/search"
	dErrors "sanctionwatch/pkg/domain-errors"
	"sanctionwatch/pkg/platform/httputil"
	"sanctionwatch/pkg/platform/sentinel"
)

// Service defines the search operations the handler consumes.
type Service interface {
	Search(ctx context.Context, q search.Query) (*search.Result, error)
	Get(ctx context.Context, id string, refresh bool) (*search.Detail, error)
	Stats(ctx context.Context) (*search.Stats, error)
}

// VersionReader reports the published corpus version for health checks.
type VersionReader interface {
	Current() (models.VersionManifest, error)
}

// Handler handles the sanctions endpoints.
type Handler struct {
	logger       *slog.Logger
	engine       Service
	versions     VersionReader
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new sanctions Handler.
func New(
	engine Service,
	versions VersionReader,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		engine:       engine,
		versions:     versions,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the sanctions routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	api := chi.NewRouter()
	api.Use(middleware.Recovery(h.logger))
	api.Use(middleware.RequestID)
	api.Use(middleware.Logger(h.logger))
	api.Use(middleware.Timeout(30 * time.Second))
	api.Use(middleware.LatencyMiddleware(h.metrics))
	api.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	api.Get("/api/sanctions", h.handleSearch)
	api.Get("/api/sanctions/stats", h.handleStats)
	api.Get("/api/sanctions/{id}", h.handleDetail)

	r.Mount("/", api)
	r.Get("/api/health", h.handleHealth)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	q := search.Query{
		Text: params.Get("query"),
		Filters: search.Filters{
			Type:     params.Get("type"),
			Country:  params.Get("country"),
			Program:  params.Get("program"),
			Source:   params.Get("source"),
			DateFrom: params.Get("dateFrom"),
			DateTo:   params.Get("dateTo"),
		},
		Sort: search.Sort{
			Key:   params.Get("sort"),
			Order: params.Get("order"),
		},
		Page:  intParam(params.Get("page"), 1),
		Limit: intParam(params.Get("limit"), search.DefaultPageSize),
	}

	result, err := h.engine.Search(ctx, q)
	if err != nil {
		h.writeSearchError(ctx, w, err, "search failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "record id is required"))
		return
	}
	refresh := r.URL.Query().Get("refresh") == "true"

	detail, err := h.engine.Get(ctx, id, refresh)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "record not found"))
			return
		}
		h.writeSearchError(ctx, w, err, "detail lookup failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.engine.Stats(ctx)
	if err != nil {
		h.writeSearchError(ctx, w, err, "stats failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	manifest, err := h.versions.Current()
	if err == nil {
		resp["version"] = manifest.Current
		resp["lastUpdated"] = manifest.LastUpdated
		resp["recordCount"] = manifest.RecordCount
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		h.logger.Warn("reading version manifest failed", "error", err)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// writeSearchError maps engine failures onto the API error envelope. A
// missing corpus is a 404 with a descriptive message, everything else a 500.
func (h *Handler) writeSearchError(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, sentinel.ErrNotFound) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no sanctions corpus has been published"))
		return
	}
	h.logger.ErrorContext(ctx, msg, "error", err)
	httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, msg))
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
