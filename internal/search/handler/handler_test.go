package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanctionwatch/internal/corpus"
	"sanctionwatch/internal/platform/logger"
	"sanctionwatch/internal/platform/middleware"
	"sanctionwatch/internal/sanction/models"
	"sanctionwatch/internal/search"
	"sanctionwatch/internal/version"
	"sanctionwatch/pkg/platform/sentinel"
	"sanctionwatch/pkg/testutil"
)

type stubValidator struct {
	err error
}

func (s stubValidator) ValidateToken(token string) (*middleware.JWTClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &middleware.JWTClaims{UserID: "user-1"}, nil
}

type stubVersions struct {
	manifest models.VersionManifest
	err      error
}

func (s stubVersions) Current() (models.VersionManifest, error) {
	return s.manifest, s.err
}

func newTestServer(t *testing.T, records []models.Record, versions VersionReader) *httptest.Server {
	t.Helper()
	layout := corpus.NewLayout(t.TempDir())
	if records != nil {
		require.NoError(t, corpus.WriteJSONAtomic(layout.IntegratedFile(), records))
	}
	engine := search.NewEngine(corpus.NewLoader(layout))

	if versions == nil {
		versions = stubVersions{err: sentinel.ErrNotFound}
	}
	h := New(engine, versions, logger.New(), nil, stubValidator{})

	r := chi.NewRouter()
	h.Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, map[string]any) {
	t.Helper()
	return testutil.GetJSON(t, srv, path, "token")
}

func corpusRecords() []models.Record {
	records := []models.Record{
		{ID: "UN-1", Source: models.SourceUN, Name: "Horizon Petroleum", Type: models.TypeEntity, LastUpdated: "2024-01-01"},
		{ID: "EU-2", Source: models.SourceEU, Name: "Ivan Petrov", Type: models.TypeIndividual},
	}
	for i := range records {
		records[i].Normalize()
	}
	return records
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer(t, corpusRecords(), nil)

	resp, body := get(t, srv, "/api/sanctions?query=petrov")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	results := body["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "EU-2", first["id"])

	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(1), pagination["total"])
	assert.Equal(t, float64(1), pagination["pages"])
}

func TestSearchEndpointNoCorpus(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	resp, body := get(t, srv, "/api/sanctions")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["error"])
}

func TestSearchEndpointRejectsNonGET(t *testing.T) {
	srv := newTestServer(t, corpusRecords(), nil)

	resp := testutil.Do(t, srv, http.MethodPost, "/api/sanctions", "token")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestSearchEndpointRequiresAuth(t *testing.T) {
	srv := newTestServer(t, corpusRecords(), nil)

	resp := testutil.Do(t, srv, http.MethodGet, "/api/sanctions", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDetailEndpoint(t *testing.T) {
	srv := newTestServer(t, corpusRecords(), nil)

	resp, body := get(t, srv, "/api/sanctions/EU-2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ivan Petrov", body["name"])

	summary := body["_summary"].(map[string]any)
	assert.Equal(t, "EU", summary["source"])
}

func TestDetailEndpointNotFound(t *testing.T) {
	srv := newTestServer(t, corpusRecords(), nil)

	resp, body := get(t, srv, "/api/sanctions/UN-404")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["error"])
	assert.Equal(t, "record not found", body["error_description"])
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(t, corpusRecords(), nil)

	resp, body := get(t, srv, "/api/sanctions/stats")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["total"])
}

func TestHealthEndpoint(t *testing.T) {
	versions := stubVersions{manifest: models.VersionManifest{
		Current: "2026-08-30", RecordCount: 2, LastUpdated: "2026-08-30T10:00:00Z",
	}}
	srv := newTestServer(t, corpusRecords(), versions)

	// Health is reachable without a token.
	resp, body := testutil.GetJSON(t, srv, "/api/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2026-08-30", body["version"])
}

func TestHealthEndpointBeforeFirstPublish(t *testing.T) {
	srv := newTestServer(t, corpusRecords(), stubVersions{err: sentinel.ErrNotFound})

	resp, body := testutil.GetJSON(t, srv, "/api/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	_, hasVersion := body["version"]
	assert.False(t, hasVersion)
}

func TestPaginationParams(t *testing.T) {
	var records []models.Record
	for i := 0; i < 30; i++ {
		r := models.Record{ID: fmt.Sprintf("UN-%02d", i), Source: models.SourceUN, Name: "x"}
		r.Normalize()
		records = append(records, r)
	}
	srv := newTestServer(t, records, nil)

	resp, body := get(t, srv, "/api/sanctions?page=2&limit=10")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(30), pagination["total"])
	assert.Equal(t, float64(3), pagination["pages"])
	assert.Len(t, body["results"].([]any), 10)
}

func TestRealVersionStoreSatisfiesVersionReader(t *testing.T) {
	var _ VersionReader = version.NewStore(corpus.NewLayout(t.TempDir()))
}

func TestInvalidTokenRejected(t *testing.T) {
	layout := corpus.NewLayout(t.TempDir())
	engine := search.NewEngine(corpus.NewLoader(layout))
	h := New(engine, stubVersions{err: sentinel.ErrNotFound}, logger.New(), nil, stubValidator{err: errors.New("bad token")})

	r := chi.NewRouter()
	h.Register(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp := testutil.Do(t, srv, http.MethodGet, "/api/sanctions", "bad")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t, corpusRecords(), nil)

	resp := testutil.Do(t, srv, http.MethodGet, "/api/sanctions", "token", "X-Request-ID", "req-42")
	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))
}
