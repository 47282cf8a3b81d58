package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/crawlgraph/internal/crawldoc"
)

func nodes(ids ...string) []crawldoc.Node {
	out := make([]crawldoc.Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, crawldoc.Node{
			ID:         id,
			URL:        "https://x.com/" + id,
			Role:       crawldoc.RoleGuest,
			Attributes: map[string]any{"url": "https://x.com/" + id},
		})
	}
	return out
}

func edge(from, to string) crawldoc.Edge {
	return crawldoc.Edge{From: from, To: to, Action: "click", Role: crawldoc.RoleGuest}
}

func TestBuildDropsEdgesWithoutEndpoints(t *testing.T) {
	raw := []crawldoc.Edge{
		edge("a", "b"),
		edge("b", "c"),
		{From: "a"},
		{To: "c"},
		{},
	}

	g := Build(nodes("a", "b", "c"), raw)

	assert.Equal(t, 3, g.Dropped())
	assert.Equal(t, len(raw)-g.Dropped(), g.Size())
	assert.True(t, g.HasEdge("a", "b"))
	assert.False(t, g.HasEdge("b", "a"))
	assert.Equal(t, 3, g.Order())
}

func TestBuildSkipsNodesWithoutID(t *testing.T) {
	in := nodes("a", "")
	g := Build(in, nil)

	assert.Equal(t, 1, g.Order())
	_, ok := g.Vertex("")
	assert.False(t, ok)
}

func TestBuildCreatesImplicitVertices(t *testing.T) {
	g := Build(nodes("a"), []crawldoc.Edge{edge("a", "b")})

	require.Equal(t, 2, g.Order())
	assert.Equal(t, 1, g.Size())
	assert.Equal(t, 1, g.ImplicitCount())

	b, ok := g.Vertex("b")
	require.True(t, ok)
	assert.True(t, b.Implicit)
	assert.Nil(t, b.Node)
	assert.Empty(t, b.Attributes)

	a, _ := g.Vertex("a")
	assert.Equal(t, "https://x.com/a", a.Attributes["url"])
	assert.NotContains(t, a.Attributes, "id")
}

func TestBuildMergesDuplicates(t *testing.T) {
	in := []crawldoc.Node{
		{ID: "a", Title: "first", Attributes: map[string]any{"title": "first", "depth": 1.0}},
		{ID: "a", Title: "second", Attributes: map[string]any{"title": "second"}},
	}
	raw := []crawldoc.Edge{
		{From: "a", To: "a", Action: "reload"},
		{From: "a", To: "a", Action: "refresh", Role: crawldoc.RoleAdmin},
	}

	g := Build(in, raw)

	require.Equal(t, 1, g.Order())
	v, _ := g.Vertex("a")
	assert.Equal(t, map[string]any{"title": "second", "depth": 1.0}, v.Attributes)
	assert.Equal(t, "second", v.Node.Title)

	require.Equal(t, 1, g.Size())
	assert.Equal(t, Edge{From: "a", To: "a", Action: "refresh", Role: crawldoc.RoleAdmin}, g.Edges()[0])
}

func TestDisplay(t *testing.T) {
	in := nodes("a")
	in[0].Title = "Home"
	in[0].Role = crawldoc.RoleAdmin
	g := Build(in, []crawldoc.Edge{edge("a", "b")})
	pos := Layout(g, LayoutCircular, Options{}).Positions

	colors := map[string]string{"guest": "#90EE90", "admin": "#FFB6C1"}
	dn, de := Display(g, pos, func(role string) string { return colors[role] })

	require.Len(t, dn, 2)
	assert.Equal(t, "a<br>Home<br>https://x.com/a", dn[0].Hover)
	assert.Equal(t, "#FFB6C1", dn[0].Color)
	assert.Equal(t, pos["a"], dn[0].Position)

	assert.True(t, dn[1].Implicit)
	assert.Equal(t, "Unknown", dn[1].Title)
	assert.Equal(t, "#90EE90", dn[1].Color)

	require.Len(t, de, 1)
	assert.Equal(t, DisplayEdge{From: "a", To: "b", Action: "click", Role: crawldoc.RoleGuest}, de[0])
}

func TestDisplayStripsMarkupFromHover(t *testing.T) {
	in := nodes("a")
	in[0].Title = `<img src=x onerror="alert(1)">Shop <b>deals</b>`
	g := Build(in, nil)

	dn, _ := Display(g, Layout(g, LayoutSpring, Options{}).Positions, func(string) string { return "" })

	require.Len(t, dn, 1)
	assert.Equal(t, "a<br>Shop deals<br>https://x.com/a", dn[0].Hover)
	assert.Equal(t, in[0].Title, dn[0].Title)
}
