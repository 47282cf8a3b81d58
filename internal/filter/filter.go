// Package filter selects the pages to visualize and computes the summary
// statistics shown alongside the graph.
package filter

import (
	"github.com/v0xg/crawlgraph/internal/crawldoc"
	"github.com/v0xg/crawlgraph/internal/errors"
)

// MaxNodesDisplay is the default cap on pages handed to the renderer
const MaxNodesDisplay = 1000

// ErrNoNodesAfterFilter means the filters removed every page
var ErrNoNodesAfterFilter = errors.New("no nodes to display after filtering")

// Options selects pages
type Options struct {
	// Roles are the allowed roles. A page is kept only if its role is listed.
	Roles []crawldoc.Role
	// ShowSimulated keeps pages reached by simulated actions
	ShowSimulated bool
	// MaxNodes caps the result; zero means MaxNodesDisplay
	MaxNodes int
}

// DefaultOptions keeps every role and simulated pages
func DefaultOptions() Options {
	return Options{
		Roles:         append([]crawldoc.Role(nil), crawldoc.Roles...),
		ShowSimulated: true,
		MaxNodes:      MaxNodesDisplay,
	}
}

// Stats summarises a filtered crawl
type Stats struct {
	// TotalNodes counts filtered pages before the display cap
	TotalNodes int `json:"total_nodes"`
	// TotalEdges counts every raw edge, filtered or not, valid or not
	TotalEdges    int     `json:"total_edges"`
	DistinctRoles int     `json:"distinct_roles"`
	CrawlSeconds  float64 `json:"crawl_seconds"`
}

// Result is the outcome of Apply
type Result struct {
	// Nodes are the kept pages in document order, capped at MaxNodes
	Nodes []crawldoc.Node
	// Truncated is set when more than MaxNodes pages matched
	Truncated bool
	// Matched is the number of pages that passed the filters
	Matched int
	Stats   Stats
}

// Match reports whether a single page passes both filters
func Match(n crawldoc.Node, opts Options) bool {
	return allowed(n.Role, opts.Roles) && (opts.ShowSimulated || !n.Simulated)
}

func allowed(role crawldoc.Role, roles []crawldoc.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Nodes returns the pages that pass the filters, in order, without a cap
func Nodes(nodes []crawldoc.Node, opts Options) []crawldoc.Node {
	out := make([]crawldoc.Node, 0, len(nodes))
	for _, n := range nodes {
		if Match(n, opts) {
			out = append(out, n)
		}
	}
	return out
}

// Apply filters the document's pages and computes statistics. Statistics
// describe the filtered set before the display cap is applied.
func Apply(doc *crawldoc.Document, opts Options) (*Result, error) {
	limit := opts.MaxNodes
	if limit <= 0 {
		limit = MaxNodesDisplay
	}

	kept := Nodes(doc.Nodes, opts)
	if len(kept) == 0 {
		return nil, errors.WithHint(ErrNoNodesAfterFilter, "try adjusting the role or simulated filters")
	}

	res := &Result{
		Nodes:   kept,
		Matched: len(kept),
		Stats: Stats{
			TotalNodes:    len(kept),
			TotalEdges:    len(doc.Edges),
			DistinctRoles: distinctRoles(kept),
			CrawlSeconds:  doc.CrawlSeconds(),
		},
	}
	if len(kept) > limit {
		res.Nodes = kept[:limit]
		res.Truncated = true
	}
	return res, nil
}

func distinctRoles(nodes []crawldoc.Node) int {
	seen := make(map[crawldoc.Role]struct{}, len(crawldoc.Roles))
	for _, n := range nodes {
		seen[n.Role] = struct{}{}
	}
	return len(seen)
}

// ParseRoles converts role names to roles. Unknown names are reported.
func ParseRoles(names []string) ([]crawldoc.Role, error) {
	roles := make([]crawldoc.Role, 0, len(names))
	for _, name := range names {
		role := crawldoc.Role(name)
		switch role {
		case crawldoc.RoleGuest, crawldoc.RoleUser, crawldoc.RoleAdmin:
			roles = append(roles, role)
		default:
			return nil, errors.WithHint(errors.Newf("unknown role %q", name), "roles are guest, user and admin")
		}
	}
	return roles, nil
}
