// Package crawldoc parses crawler output documents into typed pages and
// transitions. Parsing is lenient: only an unreadable document or one
// without pages is an error, every other defect resolves to a default.
package crawldoc

import (
	"os"

	"github.com/tidwall/gjson"

	"github.com/v0xg/crawlgraph/internal/errors"
)

var (
	// ErrInvalidDocument means the input is not a JSON object
	ErrInvalidDocument = errors.New("crawl document is not a JSON object")
	// ErrNoNodes means the document has no pages to analyze
	ErrNoNodes = errors.New("no nodes found in the crawl document")
)

// Document is a parsed crawl document
type Document struct {
	// Nodes holds the object entries of "nodes" in their original order
	Nodes []Node
	// SkippedNodes counts entries of "nodes" that were not objects
	SkippedNodes int
	// Edges holds every entry of "edges", valid or not
	Edges    []Edge
	Metadata map[string]any

	stats      map[string]any
	statistics map[string]any
}

// Parse decodes a crawl document
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.WithHint(ErrInvalidDocument, "the file must contain valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.WithHint(ErrInvalidDocument, `expected an object with a "nodes" array`)
	}

	nodes := root.Get("nodes")
	if !nodes.IsArray() || len(nodes.Array()) == 0 {
		return nil, errors.WithHint(ErrNoNodes, `the document needs a non-empty "nodes" array`)
	}

	doc := &Document{
		Metadata:   object(root.Get("metadata")),
		stats:      object(root.Get("stats")),
		statistics: object(root.Get("statistics")),
	}

	for _, entry := range nodes.Array() {
		if !entry.IsObject() {
			doc.SkippedNodes++
			continue
		}
		doc.Nodes = append(doc.Nodes, parseNode(entry))
	}

	each(root.Get("edges"), func(e gjson.Result) {
		doc.Edges = append(doc.Edges, parseEdge(e))
	})

	return doc, nil
}

// Load reads and parses a crawl document from disk
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return doc, nil
}

// Statistics merges the "stats" and "statistics" mappings. Keys in
// "statistics" win on conflict.
func (d *Document) Statistics() map[string]any {
	merged := make(map[string]any, len(d.stats)+len(d.statistics))
	for k, v := range d.stats {
		merged[k] = v
	}
	for k, v := range d.statistics {
		merged[k] = v
	}
	return merged
}

// CrawlSeconds converts metadata.totalCrawlTime, or metadata.crawlTime when
// the former is missing or zero, from milliseconds to seconds. Non-numeric
// values count as missing.
func (d *Document) CrawlSeconds() float64 {
	for _, key := range []string{"totalCrawlTime", "crawlTime"} {
		if ms, ok := d.Metadata[key].(float64); ok && ms != 0 {
			return ms / 1000
		}
	}
	return 0
}

// TotalEntries is the length of the raw "nodes" array
func (d *Document) TotalEntries() int {
	return len(d.Nodes) + d.SkippedNodes
}

// ValidEdges returns the edges that have both endpoints
func (d *Document) ValidEdges() []Edge {
	out := make([]Edge, 0, len(d.Edges))
	for _, e := range d.Edges {
		if e.Valid() {
			out = append(out, e)
		}
	}
	return out
}
