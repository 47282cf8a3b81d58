package export

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/crawlgraph/internal/crawldoc"
	"github.com/v0xg/crawlgraph/internal/errors"
	"github.com/v0xg/crawlgraph/internal/graph"
)

func sample() ([]crawldoc.Node, []crawldoc.Edge) {
	nodes := []crawldoc.Node{
		{
			ID: "home", URL: "https://shop.test/", Title: "Home", Role: crawldoc.RoleGuest, Depth: 0,
			Links: []crawldoc.Link{{Href: "/cart"}},
			Attributes: map[string]any{
				"url":       "https://shop.test/",
				"title":     "Home",
				"depth":     float64(0),
				"simulated": false,
				"links":     []any{map[string]any{"href": "/cart"}},
			},
		},
		{
			ID: "cart", URL: "https://shop.test/cart", Title: `Cart "2"`, Role: crawldoc.RoleUser, Depth: 1, Simulated: true,
			Forms: []crawldoc.Form{{FormType: "order", Method: "POST"}},
			Attributes: map[string]any{
				"url":   "https://shop.test/cart",
				"title": `Cart "2"`,
				"depth": "one",
			},
		},
	}
	edges := []crawldoc.Edge{
		{From: "home", To: "cart", Action: "click", Role: crawldoc.RoleUser},
		{From: "cart", To: "checkout", Action: "submit", Role: crawldoc.RoleUser},
		{From: "home", Action: "broken", Role: crawldoc.RoleGuest},
	}
	return nodes, edges
}

func TestGraphMLDeclaresTypedKeys(t *testing.T) {
	nodes, edges := sample()
	g := graph.Build(nodes, edges)

	var buf bytes.Buffer
	require.NoError(t, GraphML(&buf, g))

	var doc graphmlDoc
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	types := map[string]string{}
	for _, k := range doc.Keys {
		if k.For == "node" {
			types[k.Name] = k.Type
		}
	}
	assert.Equal(t, "string", types["url"])
	assert.Equal(t, "boolean", types["simulated"])
	assert.Equal(t, "string", types["links"])
	// number on one page, string on the other
	assert.Equal(t, "string", types["depth"])

	assert.Equal(t, "directed", doc.Graph.EdgeDefault)
	require.Len(t, doc.Graph.Nodes, 3)
	assert.Equal(t, "checkout", doc.Graph.Nodes[2].ID)
	assert.Empty(t, doc.Graph.Nodes[2].Data)
	assert.Len(t, doc.Graph.Edges, 2)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `[{&#34;href&#34;:&#34;/cart&#34;}]`)
}

func TestDOTQuotesLabels(t *testing.T) {
	nodes, edges := sample()
	g := graph.Build(nodes, edges)

	var buf bytes.Buffer
	require.NoError(t, DOT(&buf, g))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph crawl {\n"))
	assert.Contains(t, out, `"cart" [label="Cart \"2\"", role="user"];`)
	assert.Contains(t, out, `"checkout";`)
	assert.Contains(t, out, `"home" -> "cart" [action="click", role="user"];`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestNodesCSV(t *testing.T) {
	nodes, _ := sample()

	var buf bytes.Buffer
	require.NoError(t, NodesCSV(&buf, nodes))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "URL", "Title", "Role", "Depth", "Simulated", "Forms", "Links"}, rows[0])
	assert.Equal(t, []string{"home", "https://shop.test/", "Home", "guest", "0", "false", "0", "1"}, rows[1])
	assert.Equal(t, []string{"cart", "https://shop.test/cart", `Cart "2"`, "user", "1", "true", "1", "0"}, rows[2])
}

func TestEdgesCSVKeepsInvalidEdges(t *testing.T) {
	_, edges := sample()

	var buf bytes.Buffer
	require.NoError(t, EdgesCSV(&buf, edges))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"From", "To", "Action", "Role"}, rows[0])
	assert.Equal(t, []string{"home", "", "broken", "guest"}, rows[3])
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("xlsx"), graph.New(), nil, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	assert.Contains(t, errors.FlattenHints(err), "graphml")
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, "application/xml", FormatGraphML.ContentType())
	assert.Equal(t, "text/csv", FormatEdgesCSV.ContentType())
	assert.Equal(t, "graph.dot", FormatDOT.FileName())
	assert.Equal(t, "nodes.csv", FormatNodesCSV.FileName())
	assert.Equal(t, "GraphML", FormatGraphML.Label())
}
