package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/v0xg/crawlgraph/internal/crawldoc"
	"github.com/v0xg/crawlgraph/internal/errors"
	"github.com/v0xg/crawlgraph/internal/export"
	"github.com/v0xg/crawlgraph/internal/filter"
	"github.com/v0xg/crawlgraph/internal/graph"
	"github.com/v0xg/crawlgraph/internal/pipeline"
	"github.com/v0xg/crawlgraph/internal/preview"
)

// LayoutInfo describes the layout that produced the positions
type LayoutInfo struct {
	Requested string `json:"requested"`
	Used      string `json:"used"`
	FellBack  bool   `json:"fell_back"`
	Reason    string `json:"reason,omitempty"`
}

// AnalyzeResponse is the body of POST /api/analyze
type AnalyzeResponse struct {
	Layout    LayoutInfo          `json:"layout"`
	Stats     filter.Stats        `json:"stats"`
	Truncated bool                `json:"truncated"`
	Matched   int                 `json:"matched"`
	Dropped   int                 `json:"dropped_edges"`
	Nodes     []graph.DisplayNode `json:"nodes"`
	Edges     []graph.DisplayEdge `json:"edges"`
	Labels    []string            `json:"labels"`
}

const defaultMaxBody = 32 << 20

const defaultMaxRender = 4096

// errBadQuery marks query parameters that cannot be used
var errBadQuery = errors.New("bad query")

type errorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

func (s *Server) handleLayouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"layouts": graph.LayoutNames,
		"default": s.cfg.Layout.Default,
	})
}

// POST /api/analyze?layout=&roles=&simulated=&max_nodes=
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	a, ok := s.analyze(w, r)
	if !ok {
		return
	}
	info := LayoutInfo{Requested: a.Layout.Requested, Used: a.Layout.Used, FellBack: a.Layout.FellBack}
	if a.Layout.Reason != nil {
		info.Reason = a.Layout.Reason.Error()
	}
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Layout:    info,
		Stats:     a.Filter.Stats,
		Truncated: a.Filter.Truncated,
		Matched:   a.Filter.Matched,
		Dropped:   a.Graph.Dropped(),
		Nodes:     a.Nodes,
		Edges:     a.Edges,
		Labels:    a.Labels(),
	})
}

// POST /api/nodes/{index}/components?suggest=true
func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Newf("invalid node index %q", chi.URLParam(r, "index")))
		return
	}
	a, ok := s.analyze(w, r)
	if !ok {
		return
	}

	suggester := s.suggester
	if r.URL.Query().Get("suggest") != "true" {
		suggester = nil
	}
	report, err := pipeline.Inspect(r.Context(), a, index, suggester)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// POST /api/export/{format}
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := export.Format(chi.URLParam(r, "format"))
	a, ok := s.analyze(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, a.Graph, a.Filter.Nodes, a.Document.Edges); err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		s.log.Errorw("export failed", "format", format, "error", err)
		s.writeError(w, http.StatusInternalServerError, errors.Wrapf(err, "Error generating %s", format.Label()))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName()))
	_, _ = w.Write(buf.Bytes())
}

// POST /api/render?width=&height=
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, statusOf(err), err)
		return
	}
	a, ok := s.analyze(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := preview.WritePNG(&buf, preview.Render(a.Nodes, a.Edges, opts)); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

// analyze reads the document from the body and runs one cycle with the
// query's selections. On failure it writes the error response.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*pipeline.Analysis, bool) {
	req, err := s.request(r)
	if err != nil {
		s.writeError(w, statusOf(err), err)
		return nil, false
	}

	limit := s.cfg.Server.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBody
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, errors.Wrap(err, "read body"))
		return nil, false
	}
	doc, err := crawldoc.Parse(body)
	if err != nil {
		s.writeError(w, statusOf(err), err)
		return nil, false
	}

	a, err := pipeline.Analyze(doc, req)
	if err != nil {
		s.writeError(w, statusOf(err), err)
		return nil, false
	}
	return a, true
}

// statusOf maps request and document failures to a response status
func statusOf(err error) int {
	switch {
	case errors.IsAny(err, errBadQuery, crawldoc.ErrInvalidDocument, crawldoc.ErrNoNodes):
		return http.StatusBadRequest
	case errors.Is(err, filter.ErrNoNodesAfterFilter):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// request builds pipeline selections from the query, with configured defaults
func (s *Server) request(r *http.Request) (pipeline.Request, error) {
	q := r.URL.Query()
	req := pipeline.DefaultRequest()
	req.Layout = s.cfg.Layout.Default
	req.Seed = s.cfg.Layout.Seed
	req.MaxNodes = s.cfg.Display.MaxNodes
	req.Display = s.cfg.Display

	if v := q.Get("layout"); v != "" {
		req.Layout = v
	}
	if v := q.Get("roles"); v != "" {
		roles, err := filter.ParseRoles(strings.Split(v, ","))
		if err != nil {
			return req, errors.Mark(err, errBadQuery)
		}
		req.Roles = roles
	}
	if v := q.Get("simulated"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return req, errors.Mark(errors.Newf("invalid simulated value %q", v), errBadQuery)
		}
		req.ShowSimulated = show
	}
	if v := q.Get("max_nodes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return req, errors.Mark(errors.Newf("invalid max_nodes value %q", v), errBadQuery)
		}
		req.MaxNodes = n
	}
	return req, nil
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Errorw("request failed", "status", status, "error", err)
	} else {
		s.log.Debugw("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Hint: errors.FlattenHints(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// renderOptions reads width and height. Missing values keep the preview
// defaults; each side must stay within server.max_render_px.
func (s *Server) renderOptions(q url.Values) (preview.Options, error) {
	limit := s.cfg.Server.MaxRenderPx
	if limit <= 0 {
		limit = defaultMaxRender
	}
	side := func(name string) (int, error) {
		v := q.Get(name)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return 0, errors.Mark(errors.Newf("invalid %s value %q", name, v), errBadQuery)
		}
		if n > limit {
			err := errors.WithHintf(errors.Newf("%s %d exceeds the render limit", name, n),
				"use at most %d pixels per side", limit)
			return 0, errors.Mark(err, errBadQuery)
		}
		return n, nil
	}

	width, err := side("width")
	if err != nil {
		return preview.Options{}, err
	}
	height, err := side("height")
	if err != nil {
		return preview.Options{}, err
	}
	return preview.Options{Width: width, Height: height}, nil
}
