package server

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/crawlgraph/internal/ai"
	"github.com/v0xg/crawlgraph/internal/components"
	"github.com/v0xg/crawlgraph/internal/config"
	"github.com/v0xg/crawlgraph/internal/pipeline"
)

const crawl = `{
	"metadata": {"totalCrawlTime": 1500},
	"nodes": [
		{"id": "home", "url": "https://shop.test/", "title": "Home", "role": "guest",
		 "links": [{"href": "/login", "text": "Login"}]},
		{"id": "login", "url": "https://shop.test/login", "title": "Login", "role": "guest",
		 "forms": [{"formType": "login", "method": "POST", "inputCount": 2}]},
		{"id": "admin", "url": "https://shop.test/admin", "title": "Admin", "role": "admin", "simulated": true}
	],
	"edges": [
		{"from": "home", "to": "login", "action": "click", "role": "guest"},
		{"from": "login", "to": "admin", "action": "submit", "role": "admin"},
		{"from": "login"}
	]
}`

type fixedSuggester struct{ calls int }

func (f *fixedSuggester) Suggest(context.Context, components.Summary, ai.PageMeta) []ai.TestCase {
	f.calls++
	return []ai.TestCase{{Category: "Security", TestCase: "1. Lock out after failed logins", Priority: "High", Type: "Regression"}}
}

func newTestServer(t *testing.T, s ai.Suggester) http.Handler {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, err := config.Load("")
	require.NoError(t, err)
	return New(cfg, s).Router()
}

func post(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyze(t *testing.T) {
	h := newTestServer(t, nil)

	rec := post(t, h, "/api/analyze?layout=circular", crawl)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "circular", resp.Layout.Used)
	assert.False(t, resp.Layout.FellBack)
	assert.Equal(t, 3, resp.Stats.TotalNodes)
	assert.Equal(t, 3, resp.Stats.TotalEdges)
	assert.Equal(t, 2, resp.Stats.DistinctRoles)
	assert.InDelta(t, 1.5, resp.Stats.CrawlSeconds, 1e-9)
	assert.Equal(t, 1, resp.Dropped)
	assert.Len(t, resp.Nodes, 3)
	assert.Len(t, resp.Edges, 2)
	assert.Equal(t, "#FFB6C1", resp.Nodes[2].Color)
	assert.Equal(t, "home<br>Home<br>https://shop.test/", resp.Nodes[0].Hover)
}

func TestAnalyzeFilters(t *testing.T) {
	h := newTestServer(t, nil)

	rec := post(t, h, "/api/analyze?roles=guest&simulated=false&layout=bogus", crawl)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Stats.TotalNodes)
	assert.True(t, resp.Layout.FellBack)
	assert.Equal(t, "spring", resp.Layout.Used)
	// admin is only reachable through an edge
	require.Len(t, resp.Nodes, 3)
	assert.True(t, resp.Nodes[2].Implicit)
}

func TestAnalyzeRejectsBadDocuments(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		name   string
		target string
		body   string
		status int
		want   string
	}{
		{"not json", "/api/analyze", "nodes: []", http.StatusBadRequest, "not a JSON object"},
		{"array", "/api/analyze", "[1,2]", http.StatusBadRequest, "not a JSON object"},
		{"no nodes", "/api/analyze", `{"nodes": []}`, http.StatusBadRequest, "no nodes"},
		{"bad role", "/api/analyze?roles=root", crawl, http.StatusBadRequest, "unknown role"},
		{"filtered out", "/api/analyze?roles=user", crawl, http.StatusUnprocessableEntity, "no nodes to display"},
		{"bad max nodes", "/api/analyze?max_nodes=0", crawl, http.StatusBadRequest, "invalid max_nodes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tt.want)
		})
	}
}

func TestComponents(t *testing.T) {
	s := &fixedSuggester{}
	h := newTestServer(t, s)

	rec := post(t, h, "/api/nodes/1/components", crawl)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report pipeline.NodeReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "Login (https://shop.test/login)", report.Label)
	assert.Equal(t, 1, report.Summary.Forms.TotalCount)
	assert.True(t, report.Summary.Security.UsesHTTPS)
	assert.Empty(t, report.Suggestions)
	assert.Equal(t, 0, s.calls)

	rec = post(t, h, "/api/nodes/1/components?suggest=true", crawl)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Suggestions, 1)
	assert.Equal(t, "Security", report.Suggestions[0].Category)
	assert.Equal(t, 1, s.calls)
}

func TestComponentsIndexErrors(t *testing.T) {
	h := newTestServer(t, nil)

	assert.Equal(t, http.StatusBadRequest, post(t, h, "/api/nodes/x/components", crawl).Code)
	assert.Equal(t, http.StatusNotFound, post(t, h, "/api/nodes/9/components", crawl).Code)
}

func TestExport(t *testing.T) {
	h := newTestServer(t, nil)

	rec := post(t, h, "/api/export/edges.csv", crawl)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="edges.csv"`)
	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	rec = post(t, h, "/api/export/graphml", crawl)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<graph edgedefault="directed">`)

	rec = post(t, h, "/api/export/pdf", crawl)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRender(t *testing.T) {
	h := newTestServer(t, nil)

	rec := post(t, h, "/api/render?width=160&height=90", crawl)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 90, img.Bounds().Dy())
}

func TestRenderRejectsOversizedImages(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"too wide", "/api/render?width=40000&height=40000", "width 40000 exceeds the render limit"},
		{"too tall", "/api/render?height=4097", "height 4097 exceeds the render limit"},
		{"not a number", "/api/render?width=big", "invalid width"},
		{"negative", "/api/render?height=-5", "invalid height"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.target, crawl)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tt.want)
		})
	}

	rec := post(t, h, "/api/render?width=40000", crawl)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "use at most 4096 pixels per side", resp.Hint)
}

func TestLayouts(t *testing.T) {
	h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/layouts", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Layouts []string `json:"layouts"`
		Default string   `json:"default"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"spring", "hierarchical", "circular", "kamada_kawai", "shell"}, resp.Layouts)
	assert.Equal(t, "spring", resp.Default)
}
