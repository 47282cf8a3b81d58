// Package graph builds the directed page graph for a crawl and computes
// display coordinates for it.
package graph

import (
	"github.com/v0xg/crawlgraph/internal/crawldoc"
)

// Vertex is a page in the graph
type Vertex struct {
	ID string
	// Attributes are the page fields except id. Empty for implicit vertices.
	Attributes map[string]any
	// Node is the typed page, nil for implicit vertices
	Node *crawldoc.Node
	// Implicit is set when the vertex only exists because an edge names it
	Implicit bool
}

// Edge is a directed transition between two vertices
type Edge struct {
	From   string
	To     string
	Action string
	Role   crawldoc.Role
}

// Graph is a simple directed graph: at most one edge per ordered pair.
// Vertices and edges keep insertion order.
type Graph struct {
	vertices []*Vertex
	index    map[string]int
	edges    []Edge
	edgeAt   map[[2]string]int
	dropped  int
}

// New returns an empty graph
func New() *Graph {
	return &Graph{
		index:  make(map[string]int),
		edgeAt: make(map[[2]string]int),
	}
}

// Build constructs the graph for one render cycle.
//
// Pages without an id are left out. A repeated id merges attributes into the
// existing vertex, later values winning. Edges missing an endpoint are
// dropped and counted in Dropped. An edge endpoint that is not a page (for
// example a page removed by filtering) becomes an implicit vertex with no
// attributes, appended after the pages.
func Build(nodes []crawldoc.Node, edges []crawldoc.Edge) *Graph {
	g := New()
	for i := range nodes {
		if nodes[i].ID == "" {
			continue
		}
		g.addNode(&nodes[i])
	}
	for _, e := range edges {
		if !e.Valid() {
			g.dropped++
			continue
		}
		g.addEdge(e)
	}
	return g
}

func (g *Graph) addNode(n *crawldoc.Node) {
	if i, ok := g.index[n.ID]; ok {
		v := g.vertices[i]
		if v.Attributes == nil {
			v.Attributes = make(map[string]any, len(n.Attributes))
		}
		for k, val := range n.Attributes {
			v.Attributes[k] = val
		}
		v.Node = n
		v.Implicit = false
		return
	}
	attrs := make(map[string]any, len(n.Attributes))
	for k, val := range n.Attributes {
		attrs[k] = val
	}
	g.index[n.ID] = len(g.vertices)
	g.vertices = append(g.vertices, &Vertex{ID: n.ID, Attributes: attrs, Node: n})
}

func (g *Graph) ensureVertex(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.vertices)
	g.vertices = append(g.vertices, &Vertex{ID: id, Attributes: map[string]any{}, Implicit: true})
}

func (g *Graph) addEdge(e crawldoc.Edge) {
	g.ensureVertex(e.From)
	g.ensureVertex(e.To)

	edge := Edge{From: e.From, To: e.To, Action: e.Action, Role: e.Role}
	key := [2]string{e.From, e.To}
	if i, ok := g.edgeAt[key]; ok {
		g.edges[i] = edge
		return
	}
	g.edgeAt[key] = len(g.edges)
	g.edges = append(g.edges, edge)
}

// Vertices returns vertices in insertion order
func (g *Graph) Vertices() []*Vertex {
	return g.vertices
}

// Vertex looks up a vertex by id
func (g *Graph) Vertex(id string) (*Vertex, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.vertices[i], true
}

// Edges returns edges in insertion order
func (g *Graph) Edges() []Edge {
	return g.edges
}

// HasEdge reports whether the directed edge from→to exists
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edgeAt[[2]string{from, to}]
	return ok
}

// Order is the number of vertices
func (g *Graph) Order() int { return len(g.vertices) }

// Size is the number of edges
func (g *Graph) Size() int { return len(g.edges) }

// Dropped is the number of edges discarded for a missing endpoint
func (g *Graph) Dropped() int { return g.dropped }

// ImplicitCount is the number of vertices created only by edges
func (g *Graph) ImplicitCount() int {
	count := 0
	for _, v := range g.vertices {
		if v.Implicit {
			count++
		}
	}
	return count
}

// adjacency returns, per vertex position, the positions of its successors
// and of its predecessors.
func (g *Graph) adjacency() (succ, pred [][]int) {
	succ = make([][]int, len(g.vertices))
	pred = make([][]int, len(g.vertices))
	for _, e := range g.edges {
		from, to := g.index[e.From], g.index[e.To]
		succ[from] = append(succ[from], to)
		pred[to] = append(pred[to], from)
	}
	return succ, pred
}

// undirected returns a symmetric neighbour list without self loops
func (g *Graph) undirected() [][]int {
	adj := make([][]int, len(g.vertices))
	seen := make(map[[2]int]bool, len(g.edges)*2)
	link := func(a, b int) {
		if a == b || seen[[2]int{a, b}] {
			return
		}
		seen[[2]int{a, b}] = true
		adj[a] = append(adj[a], b)
	}
	for _, e := range g.edges {
		from, to := g.index[e.From], g.index[e.To]
		link(from, to)
		link(to, from)
	}
	return adj
}
