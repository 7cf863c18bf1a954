// Package search implements the read side: free-text and faceted search over
// the published corpus, detail lookup with a TTL cache, and corpus stats.
package search

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"sanctionwatch/internal/corpus"
	"sanctionwatch/internal/normalize"
	"sanctionwatch/internal/sanction/models"
	"sanctionwatch/internal/search/cache"
	searchmetrics "sanctionwatch/internal/search/metrics"
	"sanctionwatch/pkg/platform/circuit"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Query is one search request.
type Query struct {
	Text    string
	Filters Filters
	Sort    Sort
	Page    int
	Limit   int
}

// Pagination echoes the page window and post-filter totals.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// ListItem is the truncated list-view projection of a record.
type ListItem struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        models.EntityType `json:"type"`
	Source      models.Source     `json:"source"`
	LastUpdated string            `json:"lastUpdated,omitempty"`
	ListingDate string            `json:"listingDate,omitempty"`
	Summary     models.Summary    `json:"summary"`
}

// Result is one search response.
type Result struct {
	Results    []ListItem `json:"results"`
	Pagination Pagination `json:"pagination"`
}

// Detail is the full record plus its derived summary.
type Detail struct {
	models.Record
	Summary models.Summary `json:"_summary"`
}

// Stats summarizes the corpus for the stats endpoint.
type Stats struct {
	Total        int                       `json:"total"`
	BySource     map[models.Source]int     `json:"bySource"`
	ByType       map[models.EntityType]int `json:"byType"`
	TopCountries []CountryCount            `json:"topCountries"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// Engine serves search, detail, and stats queries over the loaded corpus.
type Engine struct {
	loader  *corpus.Loader
	cache   cache.Cache
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *searchmetrics.Metrics
}

type EngineOption func(*Engine)

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *searchmetrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

func WithCache(c cache.Cache) EngineOption {
	return func(e *Engine) { e.cache = c }
}

func NewEngine(loader *corpus.Loader, opts ...EngineOption) *Engine {
	e := &Engine{
		loader:  loader,
		cache:   cache.NewMemory(),
		breaker: circuit.New("detail-cache", circuit.WithFailureThreshold(3)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search runs one query end to end: match, filter, sort, paginate, project.
func (e *Engine) Search(ctx context.Context, q Query) (*Result, error) {
	start := time.Now()

	snap, err := e.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	parsed := parseQuery(q.Text)

	var matched []*models.Record
	for i := range snap.Records {
		rec := &snap.Records[i]
		if parsed.raw != "" && !parsed.matches(blobsFor(rec)) {
			continue
		}
		if !q.Filters.empty() && !q.Filters.matches(rec) {
			continue
		}
		matched = append(matched, rec)
	}

	sortRecords(matched, q.Sort)

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	total := len(matched)
	pages := (total + limit - 1) / limit
	skip := (page - 1) * limit
	if skip > total {
		skip = total
	}
	end := skip + limit
	if end > total {
		end = total
	}

	results := make([]ListItem, 0, end-skip)
	for _, rec := range matched[skip:end] {
		results = append(results, projectListItem(rec))
	}

	e.metrics.ObserveSearch(parsed.mode.String(), time.Since(start))
	e.logger.Debug("search served",
		"mode", parsed.mode.String(),
		"total", total,
		"page", page,
		"duration", time.Since(start),
	)

	return &Result{
		Results:    results,
		Pagination: Pagination{Page: page, Limit: limit, Total: total, Pages: pages},
	}, nil
}

// Get returns the full record with its summary. The detail cache fronts the
// corpus scan; refresh bypasses and repopulates it.
func (e *Engine) Get(ctx context.Context, id string, refresh bool) (*Detail, error) {
	if refresh {
		if err := e.cache.Delete(ctx, id); err != nil {
			e.logger.Warn("cache delete failed", "id", id, "error", err)
			e.cacheFailed()
		}
	} else if cached := e.cacheGet(ctx, id); cached != nil {
		e.metrics.IncCache("hit")
		return &Detail{Record: *cached, Summary: normalize.Summarize(cached)}, nil
	}
	e.metrics.IncCache("miss")

	rec, err := e.loader.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Set(ctx, rec); err != nil {
		e.logger.Warn("cache write failed", "id", id, "error", err)
		e.cacheFailed()
	} else {
		e.cacheOK()
	}
	return &Detail{Record: *rec, Summary: normalize.Summarize(rec)}, nil
}

// cacheGet reads the detail cache unless the breaker has tripped. Cache
// writes keep probing while open, so a recovered backend closes it again.
func (e *Engine) cacheGet(ctx context.Context, id string) *models.Record {
	if e.breaker.IsOpen() {
		e.metrics.IncCache("bypass")
		return nil
	}
	cached, err := e.cache.Get(ctx, id)
	if err != nil {
		e.logger.Warn("cache read failed", "id", id, "error", err)
		e.cacheFailed()
		return nil
	}
	return cached
}

func (e *Engine) cacheFailed() {
	if _, change := e.breaker.RecordFailure(); change.Opened {
		e.logger.Warn("detail cache circuit opened", "breaker", e.breaker.Name())
	}
}

func (e *Engine) cacheOK() {
	if _, change := e.breaker.RecordSuccess(); change.Closed {
		e.logger.Info("detail cache circuit closed", "breaker", e.breaker.Name())
	}
}

// Stats aggregates corpus counts by source, type, and country.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	snap, err := e.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Total:    len(snap.Records),
		BySource: make(map[models.Source]int),
		ByType:   make(map[models.EntityType]int),
	}
	countryCounts := make(map[string]int)

	for i := range snap.Records {
		rec := &snap.Records[i]
		stats.BySource[rec.Source]++
		stats.ByType[rec.Type]++
		for _, c := range normalize.Countries(rec) {
			countryCounts[c]++
		}
	}

	for c, n := range countryCounts {
		stats.TopCountries = append(stats.TopCountries, CountryCount{Country: c, Count: n})
	}
	sort.Slice(stats.TopCountries, func(i, j int) bool {
		if stats.TopCountries[i].Count != stats.TopCountries[j].Count {
			return stats.TopCountries[i].Count > stats.TopCountries[j].Count
		}
		return stats.TopCountries[i].Country < stats.TopCountries[j].Country
	})
	if len(stats.TopCountries) > 10 {
		stats.TopCountries = stats.TopCountries[:10]
	}
	return stats, nil
}

func projectListItem(rec *models.Record) ListItem {
	return ListItem{
		ID:          rec.ID,
		Name:        rec.Name,
		Type:        rec.Type,
		Source:      rec.Source,
		LastUpdated: rec.LastUpdated,
		ListingDate: rec.ListingDate,
		Summary:     normalize.Summarize(rec),
	}
}
