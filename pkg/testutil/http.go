// Package testutil provides shared HTTP helpers for handler tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Do executes a request against a test server, attaching the bearer token
// when one is given. Extra headers come in key, value pairs. The response
// body is closed on test cleanup.
func Do(t *testing.T, srv *httptest.Server, method, path, token string, headers ...string) *http.Response {
	t.Helper()
	require.Zero(t, len(headers)%2, "headers must come in key, value pairs")

	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// GetJSON fetches path and decodes the JSON response body into a generic map.
func GetJSON(t *testing.T, srv *httptest.Server, path, token string) (*http.Response, map[string]any) {
	t.Helper()
	resp := Do(t, srv, http.MethodGet, path, token)
	return resp, DecodeJSON(t, resp)
}

// DecodeJSON consumes the response body as a JSON object.
func DecodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}
