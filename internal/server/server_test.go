package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/autolayout/pkg/cache"
	"github.com/matzehuels/autolayout/pkg/layout"
	"github.com/matzehuels/autolayout/pkg/metrics"
	"github.com/matzehuels/autolayout/pkg/observability"
)

const twoNodes = `{
  "nodes": [{"id": "api"}, {"id": "db"}],
  "connections": [{"id": "q", "from": "api", "to": "db", "from_anchor": "bottom", "to_anchor": "top"}]
}`

func newTestServer(t *testing.T, c cache.Cache) (*Server, *httptest.Server) {
	t.Helper()
	if c == nil {
		var err error
		c, err = cache.NewFileCache(t.TempDir())
		require.NoError(t, err)
	}
	s, err := New(Options{
		Config:  layout.DefaultConfig(),
		Cache:   c,
		Metrics: metrics.NewRegistry(),
		Logger:  log.New(io.Discard),
	})
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, url, contentType, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, contentType, strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Build.Version)
}

func TestLayout(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp := post(t, ts.URL+"/v1/layout", "application/json", twoNodes)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))

	var body LayoutResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.Result)
	assert.Equal(t, layout.StrategyBacktracking, body.Result.Strategy)
	assert.Equal(t, layout.Placement{X: 540, Y: 235, Width: 120, Height: 80}, body.Result.Placements["api"])
	assert.Equal(t, layout.Placement{X: 540, Y: 485, Width: 120, Height: 80}, body.Result.Placements["db"])
	require.Len(t, body.Result.Routes, 1)
	assert.Equal(t, "q", body.Result.Routes[0].Connection)

	again := post(t, ts.URL+"/v1/layout", "application/json", twoNodes)
	assert.Equal(t, "HIT", again.Header.Get("X-Cache"))
	var cached LayoutResponse
	require.NoError(t, json.NewDecoder(again.Body).Decode(&cached))
	assert.True(t, cached.Cached)
	assert.Equal(t, body.Result.RunID, cached.Result.RunID)
}

func TestLayoutYAML(t *testing.T) {
	_, ts := newTestServer(t, cache.NewNullCache())
	yamlBody := "nodes:\n  - id: a\n  - id: b\nconnections:\n  - from: a\n    to: b\n"

	resp := post(t, ts.URL+"/v1/layout?format=yaml", "application/yaml", yamlBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "strategy: backtracking")
}

func TestPack(t *testing.T) {
	_, ts := newTestServer(t, cache.NewNullCache())
	doc := `{"nodes": [
	  {"id": "f", "label": "F", "x": 10, "y": 20, "frame": {"layout": "row", "children": ["a", "b"]}},
	  {"id": "a"}, {"id": "b"}
	]}`

	resp := post(t, ts.URL+"/v1/pack", "", doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body LayoutResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, layout.StrategyPack, body.Result.Strategy)
	assert.Equal(t, layout.Placement{X: 10, Y: 20, Width: 230, Height: 178}, body.Result.Placements["f"])
	assert.Equal(t, "f", body.Result.Placements["a"].Parent)
}

func TestPreview(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp := post(t, ts.URL+"/v1/preview", "application/json", twoNodes)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	again := post(t, ts.URL+"/v1/preview", "application/json", twoNodes)
	assert.Equal(t, "HIT", again.Header.Get("X-Cache"))
}

func TestErrors(t *testing.T) {
	_, ts := newTestServer(t, cache.NewNullCache())
	tests := []struct {
		name   string
		path   string
		ctype  string
		body   string
		status int
		code   string
	}{
		{"Empty", "/v1/layout", "application/json", "  ", 400, "INVALID_INPUT"},
		{"Malformed", "/v1/layout", "application/json", `{"nodes": [`, 400, "INVALID_FORMAT"},
		{"DuplicateID", "/v1/layout", "application/json", `{"nodes": [{"id": "a"}, {"id": "a"}]}`, 400, "INVALID_INPUT"},
		{"NegativeSize", "/v1/pack", "application/json", `{"nodes": [{"id": "a", "width": -5}]}`, 400, "INVALID_INPUT"},
		{"BadFormat", "/v1/layout?format=xml", "application/json", twoNodes, 501, "UNSUPPORTED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+tt.path, tt.ctype, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	s, err := New(Options{Cache: cache.NewNullCache(), MaxBodyBytes: 16, Logger: log.New(io.Discard)})
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp := post(t, ts.URL+"/v1/layout", "application/json", twoNodes)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "TOO_LARGE", body.Error)
	assert.Contains(t, body.Message, "16 bytes")
}

func TestStyleSelectsPreset(t *testing.T) {
	s, err := New(Options{Logger: log.New(io.Discard), Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 300.0, s.runner("architecture").Engine.Config().Gap)
	assert.Equal(t, 250.0, s.runner("").Engine.Config().Gap)
	assert.Equal(t, 250.0, s.runner("poster").Engine.Config().Gap)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Options{Config: layout.Config{Style: "poster"}})
	assert.Error(t, err)
}

type httpRecorder struct {
	observability.NoopHTTPHooks
	routes []string
	errors int
}

func (h *httpRecorder) OnResponse(_ context.Context, _, route string, _ int, _ time.Duration) {
	h.routes = append(h.routes, route)
}

func (h *httpRecorder) OnError(context.Context, string, string, error) { h.errors++ }

func TestMetricsAndHooks(t *testing.T) {
	rec := &httpRecorder{}
	observability.SetHTTPHooks(rec)
	defer observability.Reset()

	_, ts := newTestServer(t, cache.NewNullCache())
	post(t, ts.URL+"/v1/layout", "application/json", twoNodes)
	post(t, ts.URL+"/v1/layout", "application/json", "{")

	assert.Equal(t, []string{"/v1/layout", "/v1/layout"}, rec.routes)
	assert.Equal(t, 1, rec.errors)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(data), "go_goroutines")
}
