package graph

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/v0xg/crawlgraph/internal/crawldoc"
)

// hover text is rendered as HTML; page fields are crawled content
var hoverPolicy = bluemonday.StrictPolicy()

// DisplayNode is what a renderer needs to draw one vertex
type DisplayNode struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	URL      string        `json:"url"`
	Role     crawldoc.Role `json:"role"`
	Color    string        `json:"color"`
	Hover    string        `json:"hover"`
	Implicit bool          `json:"implicit,omitempty"`
	Position Position      `json:"position"`
}

// DisplayEdge is a renderer-ready edge
type DisplayEdge struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	Action string        `json:"action"`
	Role   crawldoc.Role `json:"role"`
}

// Display joins vertices with their positions and display fields. colorOf
// maps a role to a colour. Implicit vertices are shown as untitled guest
// pages.
func Display(g *Graph, pos Positions, colorOf func(role string) string) ([]DisplayNode, []DisplayEdge) {
	nodes := make([]DisplayNode, 0, g.Order())
	for _, v := range g.vertices {
		title, url, role := "Unknown", "", crawldoc.RoleGuest
		if v.Node != nil {
			url, role = v.Node.URL, v.Node.Role
			if v.Node.Title != "" {
				title = v.Node.Title
			}
		}
		nodes = append(nodes, DisplayNode{
			ID:       v.ID,
			Title:    title,
			URL:      url,
			Role:     role,
			Color:    colorOf(string(role)),
			Hover:    hoverPolicy.Sanitize(v.ID) + "<br>" + hoverPolicy.Sanitize(title) + "<br>" + hoverPolicy.Sanitize(url),
			Implicit: v.Implicit,
			Position: pos[v.ID],
		})
	}

	edges := make([]DisplayEdge, 0, g.Size())
	for _, e := range g.edges {
		edges = append(edges, DisplayEdge{From: e.From, To: e.To, Action: e.Action, Role: e.Role})
	}
	return nodes, edges
}
