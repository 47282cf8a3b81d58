package crawler

import (
	"encoding/json"
	"io"

	"github.com/v0xg/crawlgraph/internal/errors"
)

// Document is a crawl document in the format crawldoc reads
type Document struct {
	Metadata   Metadata   `json:"metadata"`
	Nodes      []Page     `json:"nodes"`
	Edges      []Edge     `json:"edges"`
	Statistics Statistics `json:"statistics"`
}

// Metadata describes the crawl run
type Metadata struct {
	StartURL string `json:"startUrl"`
	Role     string `json:"role"`
	// TotalCrawlTime is in milliseconds
	TotalCrawlTime int64  `json:"totalCrawlTime"`
	CrawledAt      string `json:"crawledAt"`
	UserAgent      string `json:"userAgent,omitempty"`
}

// Statistics are run totals
type Statistics struct {
	TotalPages  int `json:"totalPages"`
	FailedPages int `json:"failedPages"`
	TotalEdges  int `json:"totalEdges"`
}

// Page is one visited page
type Page struct {
	ID                  string                  `json:"id"`
	URL                 string                  `json:"url"`
	Title               string                  `json:"title"`
	Role                string                  `json:"role"`
	Simulated           bool                    `json:"simulated"`
	Depth               int                     `json:"depth"`
	Timestamp           string                  `json:"timestamp"`
	Forms               []Form                  `json:"forms"`
	Links               []Link                  `json:"links"`
	Network             Network                 `json:"network"`
	Features            Features                `json:"features"`
	Performance         Performance             `json:"performance"`
	Accessibility       Accessibility           `json:"accessibility"`
	InteractiveElements map[string]ElementCount `json:"interactiveElements"`
}

// Form is a form found on a page
type Form struct {
	FormType   string   `json:"formType"`
	Action     string   `json:"action"`
	Method     string   `json:"method"`
	InputCount int      `json:"inputCount"`
	Validation []string `json:"validation,omitempty"`
	Inputs     []Input  `json:"inputs"`
}

// Input is a form control
type Input struct {
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// Link is an anchor with an href
type Link struct {
	Href     string `json:"href"`
	Text     string `json:"text"`
	Selector string `json:"selector"`
}

// Network holds resources fetched while loading the page. Resource timing
// does not report websocket connections, so WebSockets stays empty.
type Network struct {
	Requests   []Request `json:"requests"`
	WebSockets []string  `json:"websockets"`
}

// Request is one resource timing entry. ResponseTime is in milliseconds.
type Request struct {
	URL          string  `json:"url"`
	Method       string  `json:"method"`
	Status       int     `json:"status"`
	ResponseTime float64 `json:"responseTime"`
}

// Features are page-level flags
type Features struct {
	HasAuth bool `json:"hasAuth"`
}

// Performance wraps the vitals sample
type Performance struct {
	WebVitals WebVitals `json:"webVitals"`
}

// WebVitals in seconds, except CLS which is unitless. FID needs a real user
// interaction and is never recorded by a headless crawl.
type WebVitals struct {
	LCP  float64 `json:"LCP"`
	CLS  float64 `json:"CLS"`
	FCP  float64 `json:"FCP"`
	TTFB float64 `json:"TTFB"`
}

// Accessibility holds the lightweight audit done during the crawl
type Accessibility struct {
	WCAGLevel          string             `json:"wcagLevel"`
	ARIAFailures       int                `json:"ariaFailures"`
	KeyboardNavigation KeyboardNavigation `json:"keyboardNavigation"`
}

// KeyboardNavigation summarises focusable content
type KeyboardNavigation struct {
	FocusableElements int  `json:"focusableElements"`
	HasSkipLink       bool `json:"hasSkipLink"`
}

// ElementCount is the summary form of an interactive element group
type ElementCount struct {
	Total int `json:"total"`
}

// Edge is a navigation from one page to another
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Action string `json:"action"`
	Role   string `json:"role"`
}

// Write encodes the document as indented JSON
func (d *Document) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(d), "encode crawl document")
}
