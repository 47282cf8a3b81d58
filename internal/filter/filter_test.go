package filter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/crawlgraph/internal/crawldoc"
	"github.com/v0xg/crawlgraph/internal/errors"
)

func parse(t *testing.T, doc string) *crawldoc.Document {
	t.Helper()
	d, err := crawldoc.Parse([]byte(doc))
	require.NoError(t, err)
	return d
}

func ids(nodes []crawldoc.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

const mixed = `{
	"metadata": {"totalCrawlTime": 4200},
	"nodes": [
		{"id": "g1", "role": "guest"},
		"not a page",
		{"id": "u1", "role": "user"},
		{"id": "a1", "role": "admin", "simulated": true},
		{"id": "x1"},
		{"id": "u2", "role": "user", "simulated": false}
	],
	"edges": [{"from": "g1", "to": "u1"}, {"from": "u1"}]
}`

func TestApply(t *testing.T) {
	doc := parse(t, mixed)

	res, err := Apply(doc, Options{Roles: []crawldoc.Role{crawldoc.RoleGuest, crawldoc.RoleUser}})
	require.NoError(t, err)

	assert.Equal(t, []string{"g1", "u1", "x1", "u2"}, ids(res.Nodes))
	assert.False(t, res.Truncated)
	assert.Equal(t, Stats{TotalNodes: 4, TotalEdges: 2, DistinctRoles: 2, CrawlSeconds: 4.2}, res.Stats)
}

func TestSimulatedFilter(t *testing.T) {
	doc := parse(t, mixed)
	all := []crawldoc.Role{crawldoc.RoleAdmin}

	hidden, err := Apply(doc, Options{Roles: all})
	assert.Nil(t, hidden)
	assert.True(t, errors.Is(err, ErrNoNodesAfterFilter))

	shown, err := Apply(doc, Options{Roles: all, ShowSimulated: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, ids(shown.Nodes))
}

func TestFilterIsIdempotentAndCommutative(t *testing.T) {
	doc := parse(t, mixed)
	opts := Options{Roles: []crawldoc.Role{crawldoc.RoleUser, crawldoc.RoleAdmin}}

	once := Nodes(doc.Nodes, opts)
	twice := Nodes(once, opts)
	assert.Equal(t, ids(once), ids(twice))

	rolesOnly := Options{Roles: opts.Roles, ShowSimulated: true}
	simOnly := Options{Roles: crawldoc.Roles, ShowSimulated: false}
	roleThenSim := Nodes(Nodes(doc.Nodes, rolesOnly), simOnly)
	simThenRole := Nodes(Nodes(doc.Nodes, simOnly), rolesOnly)
	assert.Equal(t, ids(roleThenSim), ids(simThenRole))
	assert.Equal(t, ids(once), ids(roleThenSim))
}

func TestDisplayCap(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"nodes": [`)
	for i := 0; i < 12; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"id": "n%d"}`, i)
	}
	b.WriteString(`]}`)
	doc := parse(t, b.String())

	res, err := Apply(doc, Options{Roles: crawldoc.Roles, ShowSimulated: true, MaxNodes: 5})
	require.NoError(t, err)

	assert.True(t, res.Truncated)
	assert.Equal(t, 12, res.Matched)
	assert.Equal(t, 12, res.Stats.TotalNodes)
	assert.Equal(t, []string{"n0", "n1", "n2", "n3", "n4"}, ids(res.Nodes))

	res, err = Apply(doc, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, res.Truncated)
	assert.Len(t, res.Nodes, 12)
}

func TestParseRoles(t *testing.T) {
	roles, err := ParseRoles([]string{"guest", "admin"})
	require.NoError(t, err)
	assert.Equal(t, []crawldoc.Role{crawldoc.RoleGuest, crawldoc.RoleAdmin}, roles)

	_, err = ParseRoles([]string{"root"})
	assert.Error(t, err)
}
