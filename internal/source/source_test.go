package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanctionwatch/internal/sanction/models"
)

func newTestAdapter(t *testing.T, s models.Source, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg, ok := ConfigFor(s)
	require.True(t, ok)
	return NewAdapter(s, srv.URL, cfg)
}

func TestAdapterFetchAndParse(t *testing.T) {
	a := newTestAdapter(t, models.SourceUN, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(unFixture))
	})

	records, err := a.FetchAndParse(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "UN-6908555", records[0].ID)
}

func TestAdapterNonOKStatusIsFetchError(t *testing.T) {
	a := newTestAdapter(t, models.SourceEU, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	_, err := a.FetchAndParse(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, models.SourceEU, fetchErr.Source)
}

func TestAdapterUnreachableHostIsFetchError(t *testing.T) {
	cfg, _ := ConfigFor(models.SourceUS)
	a := NewAdapter(models.SourceUS, "http://127.0.0.1:1/nope", cfg)

	_, err := a.FetchAndParse(context.Background())
	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestAdapterGarbageBodyIsParseError(t *testing.T) {
	a := newTestAdapter(t, models.SourceUS, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not xml at all"))
	})

	_, err := a.FetchAndParse(context.Background())
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
