// Package export writes a crawl graph in graph-exchange and tabular formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/v0xg/crawlgraph/internal/crawldoc"
	"github.com/v0xg/crawlgraph/internal/errors"
	"github.com/v0xg/crawlgraph/internal/graph"
)

// Format names an export format
type Format string

const (
	FormatGraphML  Format = "graphml"
	FormatDOT      Format = "dot"
	FormatNodesCSV Format = "nodes.csv"
	FormatEdgesCSV Format = "edges.csv"
)

// Formats lists supported formats
var Formats = []Format{FormatGraphML, FormatDOT, FormatNodesCSV, FormatEdgesCSV}

// ErrUnknownFormat is returned by Write for unsupported formats
var ErrUnknownFormat = errors.New("unknown export format")

// ContentType returns the media type for a format
func (f Format) ContentType() string {
	switch f {
	case FormatGraphML:
		return "application/xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "text/csv"
	}
}

// Label is the human name used in messages
func (f Format) Label() string {
	switch f {
	case FormatGraphML:
		return "GraphML"
	case FormatDOT:
		return "DOT"
	case FormatNodesCSV:
		return "nodes CSV"
	case FormatEdgesCSV:
		return "edges CSV"
	default:
		return string(f)
	}
}

// FileName is the default download name for a format
func (f Format) FileName() string {
	switch f {
	case FormatGraphML:
		return "graph.graphml"
	case FormatDOT:
		return "graph.dot"
	case FormatNodesCSV:
		return "nodes.csv"
	default:
		return "edges.csv"
	}
}

// Write dispatches to the writer for format. Graph formats use g, tabular
// formats use the filtered pages and the raw edges.
func Write(w io.Writer, format Format, g *graph.Graph, nodes []crawldoc.Node, edges []crawldoc.Edge) error {
	switch format {
	case FormatGraphML:
		return GraphML(w, g)
	case FormatDOT:
		return DOT(w, g)
	case FormatNodesCSV:
		return NodesCSV(w, nodes)
	case FormatEdgesCSV:
		return EdgesCSV(w, edges)
	default:
		return errors.WithHintf(errors.Wrapf(ErrUnknownFormat, "%q", format),
			"supported formats: %s", formatList())
	}
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// NodesCSV writes one row per page
func NodesCSV(w io.Writer, nodes []crawldoc.Node) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "URL", "Title", "Role", "Depth", "Simulated", "Forms", "Links"}); err != nil {
		return errors.Wrap(err, "write nodes header")
	}
	for _, n := range nodes {
		row := []string{
			n.ID,
			n.URL,
			n.Title,
			string(n.Role),
			strconv.Itoa(n.Depth),
			strconv.FormatBool(n.Simulated),
			strconv.Itoa(len(n.Forms)),
			strconv.Itoa(len(n.Links)),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write node %s", n.ID)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush nodes csv")
}

// EdgesCSV writes one row per edge, including edges missing an endpoint
func EdgesCSV(w io.Writer, edges []crawldoc.Edge) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"From", "To", "Action", "Role"}); err != nil {
		return errors.Wrap(err, "write edges header")
	}
	for _, e := range edges {
		if err := cw.Write([]string{e.From, e.To, e.Action, string(e.Role)}); err != nil {
			return errors.Wrap(err, "write edge")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush edges csv")
}

// DOT writes the graph in Graphviz syntax. Vertices are labelled with their
// title when they have one.
func DOT(w io.Writer, g *graph.Graph) error {
	var b strings.Builder
	b.WriteString("digraph crawl {\n")
	for _, v := range g.Vertices() {
		fmt.Fprintf(&b, "  %s", strconv.Quote(v.ID))
		if v.Node != nil && v.Node.Title != "" {
			fmt.Fprintf(&b, " [label=%s, role=%s]", strconv.Quote(v.Node.Title), strconv.Quote(string(v.Node.Role)))
		}
		b.WriteString(";\n")
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "  %s -> %s [action=%s, role=%s];\n",
			strconv.Quote(e.From), strconv.Quote(e.To), strconv.Quote(e.Action), strconv.Quote(string(e.Role)))
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write dot")
}

type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
	Type string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// GraphML writes the graph in GraphML. Scalar attributes keep their type;
// nested attributes are stored as JSON strings. An attribute whose type
// differs between vertices is declared as a string.
func GraphML(w io.Writer, g *graph.Graph) error {
	types := map[string]string{}
	for _, v := range g.Vertices() {
		for name, val := range v.Attributes {
			t := graphmlType(val)
			if prev, ok := types[name]; ok && prev != t {
				t = "string"
			}
			types[name] = t
		}
	}
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := graphmlDoc{
		XMLNS: "http://graphml.graphdrawing.org/xmlns",
		Graph: graphmlGraph{EdgeDefault: "directed"},
	}
	keyOf := make(map[string]string, len(names))
	for i, name := range names {
		id := "d" + strconv.Itoa(i)
		keyOf[name] = id
		doc.Keys = append(doc.Keys, graphmlKey{ID: id, For: "node", Name: name, Type: types[name]})
	}
	actionKey, roleKey := "d"+strconv.Itoa(len(names)), "d"+strconv.Itoa(len(names)+1)
	doc.Keys = append(doc.Keys,
		graphmlKey{ID: actionKey, For: "edge", Name: "action", Type: "string"},
		graphmlKey{ID: roleKey, For: "edge", Name: "role", Type: "string"},
	)

	for _, v := range g.Vertices() {
		node := graphmlNode{ID: v.ID}
		for _, name := range names {
			val, ok := v.Attributes[name]
			if !ok {
				continue
			}
			text, err := graphmlValue(val)
			if err != nil {
				return errors.Wrapf(err, "encode attribute %s of %s", name, v.ID)
			}
			node.Data = append(node.Data, graphmlData{Key: keyOf[name], Value: text})
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, node)
	}
	for _, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, graphmlEdge{
			Source: e.From,
			Target: e.To,
			Data: []graphmlData{
				{Key: actionKey, Value: e.Action},
				{Key: roleKey, Value: string(e.Role)},
			},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return errors.Wrap(err, "write graphml header")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encode graphml")
	}
	if err := enc.Flush(); err != nil {
		return errors.Wrap(err, "flush graphml")
	}
	_, err := io.WriteString(w, "\n")
	return errors.Wrap(err, "write graphml")
}

func graphmlType(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case float64:
		return "double"
	default:
		return "string"
	}
}

func graphmlValue(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case nil:
		return "", nil
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
