// Package pipeline runs one render cycle: filter the crawl, build the graph,
// lay it out and prepare display records. It is the boundary used by the CLI
// and the HTTP server.
package pipeline

import (
	"context"

	"github.com/v0xg/crawlgraph/internal/ai"
	"github.com/v0xg/crawlgraph/internal/components"
	"github.com/v0xg/crawlgraph/internal/config"
	"github.com/v0xg/crawlgraph/internal/crawldoc"
	"github.com/v0xg/crawlgraph/internal/errors"
	"github.com/v0xg/crawlgraph/internal/filter"
	"github.com/v0xg/crawlgraph/internal/graph"
	"github.com/v0xg/crawlgraph/internal/logger"
)

// ErrNodeIndex is returned by Inspect for an index outside the displayed pages
var ErrNodeIndex = errors.New("node index out of range")

// Request holds the user's selections for one cycle
type Request struct {
	Layout        string
	Roles         []crawldoc.Role
	ShowSimulated bool
	MaxNodes      int
	Seed          int64
	Shells        [][]string
	// Display supplies role colours; an empty palette uses the defaults
	Display config.DisplayConfig
}

// DefaultRequest selects every page with the default layout
func DefaultRequest() Request {
	opts := filter.DefaultOptions()
	return Request{
		Layout:        graph.DefaultLayout,
		Roles:         opts.Roles,
		ShowSimulated: opts.ShowSimulated,
		MaxNodes:      opts.MaxNodes,
		Display:       config.DisplayConfig{NodeColors: config.DefaultNodeColors()},
	}
}

// Analysis is the result of one cycle
type Analysis struct {
	Document *crawldoc.Document
	Filter   *filter.Result
	Graph    *graph.Graph
	Layout   graph.Result
	Nodes    []graph.DisplayNode
	Edges    []graph.DisplayEdge
}

// Analyze filters doc, builds the graph from the kept pages and every raw
// edge, and lays it out. Edge endpoints outside the kept pages show up as
// implicit vertices.
func Analyze(doc *crawldoc.Document, req Request) (*Analysis, error) {
	log := logger.Named("pipeline")

	res, err := filter.Apply(doc, filter.Options{
		Roles:         req.Roles,
		ShowSimulated: req.ShowSimulated,
		MaxNodes:      req.MaxNodes,
	})
	if err != nil {
		return nil, err
	}
	if res.Truncated {
		log.Warnw("display capped", "matched", res.Matched, "shown", len(res.Nodes))
	}

	g := graph.Build(res.Nodes, doc.Edges)
	if g.Dropped() > 0 {
		log.Debugw("edges without endpoints dropped", "count", g.Dropped())
	}

	layout := graph.Layout(g, req.Layout, graph.Options{Seed: req.Seed, Shells: req.Shells})
	if layout.FellBack {
		log.Warnw("layout fell back", "requested", layout.Requested, "used", layout.Used, "reason", layout.Reason)
	}

	display := req.Display
	if len(display.NodeColors) == 0 {
		display.NodeColors = config.DefaultNodeColors()
	}
	nodes, edges := graph.Display(g, layout.Positions, display.NodeColor)

	return &Analysis{
		Document: doc,
		Filter:   res,
		Graph:    g,
		Layout:   layout,
		Nodes:    nodes,
		Edges:    edges,
	}, nil
}

// NodeReport is the drill-down view of one page
type NodeReport struct {
	Index               int                          `json:"index"`
	Label               string                       `json:"label"`
	Node                crawldoc.Node                `json:"-"`
	Summary             components.Summary           `json:"components"`
	Ratings             map[string]components.Rating `json:"ratings"`
	InteractiveElements int                          `json:"interactive_elements"`
	Suggestions         []ai.TestCase                `json:"suggestions,omitempty"`
}

// Inspect summarises the page at index among the displayed pages. When s is
// not nil it also asks it for test case suggestions.
func Inspect(ctx context.Context, a *Analysis, index int, s ai.Suggester) (*NodeReport, error) {
	if index < 0 || index >= len(a.Filter.Nodes) {
		return nil, errors.WithHintf(errors.Wrapf(ErrNodeIndex, "index %d", index),
			"choose an index between 0 and %d", len(a.Filter.Nodes)-1)
	}
	node := a.Filter.Nodes[index]
	summary := components.Analyze(node)

	report := &NodeReport{
		Index:               index,
		Label:               node.Label(index),
		Node:                node,
		Summary:             summary,
		Ratings:             summary.Performance.Ratings(),
		InteractiveElements: node.InteractiveElementCount(),
	}
	if s != nil {
		report.Suggestions = s.Suggest(ctx, summary, ai.PageMetaOf(node))
	}
	return report, nil
}

// PageRow is one displayed page, addressed by the index Inspect takes
type PageRow struct {
	Index int
	Label string
	Node  crawldoc.Node
	// Position is nil for a page without an id, which has no vertex
	Position *graph.Position
}

// Pages lists the displayed pages in Inspect order with their vertex
// positions. Pages sharing an id share the merged vertex's position.
func (a *Analysis) Pages() []PageRow {
	rows := make([]PageRow, len(a.Filter.Nodes))
	for i, n := range a.Filter.Nodes {
		rows[i] = PageRow{Index: i, Label: n.Label(i), Node: n}
		if n.ID == "" {
			continue
		}
		if pos, ok := a.Layout.Positions[n.ID]; ok {
			rows[i].Position = &pos
		}
	}
	return rows
}

// Labels lists the drill-down labels of the displayed pages
func (a *Analysis) Labels() []string {
	labels := make([]string, len(a.Filter.Nodes))
	for i, n := range a.Filter.Nodes {
		labels[i] = n.Label(i)
	}
	return labels
}
