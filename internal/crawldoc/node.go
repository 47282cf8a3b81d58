package crawldoc

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// Role is the user role a page was crawled as
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Roles lists every recognized role in display order
var Roles = []Role{RoleGuest, RoleUser, RoleAdmin}

// ParseRole maps a raw value to a known role, defaulting to guest
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleGuest, RoleUser, RoleAdmin:
		return Role(s)
	default:
		return RoleGuest
	}
}

// Node is one crawled page. Every field has a documented default so callers
// never read the raw JSON.
type Node struct {
	ID        string
	URL       string
	Title     string
	Role      Role
	Simulated bool
	Depth     int
	Timestamp string

	Forms         []Form
	Links         []Link
	Network       Network
	Features      Features
	Performance   Performance
	Accessibility Accessibility

	// InteractiveElements maps an element type to either a list of elements
	// or a {"total": n, "elements": [...]} summary.
	InteractiveElements map[string]any

	// Attributes holds every field except id, verbatim
	Attributes map[string]any
}

// Form is a form discovered on a page
type Form struct {
	FormType   string
	Action     string
	Method     string
	InputCount int
	Validation any
	Inputs     []any
}

// HasValidation reports whether the form carries a non-empty validation record
func (f Form) HasValidation() bool {
	switch v := f.Validation.(type) {
	case nil:
		return false
	case map[string]any:
		return len(v) > 0
	case []any:
		return len(v) > 0
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0
	default:
		return true
	}
}

// Link is an anchor discovered on a page
type Link struct {
	Href     string
	Text     string
	Selector string
}

// Request is a network request observed while the page loaded
type Request struct {
	URL          string
	Method       string
	Status       int
	ResponseTime float64
}

// Network groups observed traffic
type Network struct {
	Requests []Request
	// WebSockets are kept exactly as recorded
	WebSockets []any
}

// Features carries page-level feature flags
type Features struct {
	HasAuth bool
}

// Performance wraps the Core Web Vitals sample
type Performance struct {
	WebVitals WebVitals
}

// WebVitals are the Core Web Vitals. LCP, FCP and TTFB are in seconds as
// recorded by the crawler, FID in milliseconds, CLS unitless.
type WebVitals struct {
	LCP  float64
	FID  float64
	CLS  float64
	FCP  float64
	TTFB float64
}

// Accessibility holds WCAG audit results
type Accessibility struct {
	WCAGLevel             string
	ARIAFailures          int
	ColorContrastFailures int
	KeyboardNavigation    map[string]any
}

// Edge is one observed transition between pages
type Edge struct {
	From   string
	To     string
	Action string
	Role   Role
}

// Valid reports whether both endpoints are present
func (e Edge) Valid() bool {
	return e.From != "" && e.To != ""
}

func parseNode(r gjson.Result) Node {
	attrs := object(r)
	delete(attrs, "id")

	n := Node{
		ID:                  ident(r.Get("id")),
		URL:                 str(r.Get("url"), ""),
		Title:               str(r.Get("title"), ""),
		Role:                ParseRole(str(r.Get("role"), "")),
		Simulated:           truthy(r.Get("simulated")),
		Depth:               integer(r.Get("depth"), 0),
		Timestamp:           timestamp(r.Get("timestamp")),
		InteractiveElements: object(r.Get("interactiveElements")),
		Attributes:          attrs,
	}

	each(r.Get("forms"), func(f gjson.Result) {
		n.Forms = append(n.Forms, parseForm(f))
	})
	each(r.Get("links"), func(l gjson.Result) {
		n.Links = append(n.Links, Link{
			Href:     str(l.Get("href"), ""),
			Text:     str(l.Get("text"), ""),
			Selector: str(l.Get("selector"), ""),
		})
	})

	network := r.Get("network")
	each(network.Get("requests"), func(req gjson.Result) {
		n.Network.Requests = append(n.Network.Requests, Request{
			URL:          str(req.Get("url"), ""),
			Method:       str(req.Get("method"), "GET"),
			Status:       integer(req.Get("status"), 0),
			ResponseTime: num(req.Get("responseTime"), 0),
		})
	})
	n.Network.WebSockets = rawList(network.Get("websockets"))

	n.Features.HasAuth = boolean(r.Get("features.hasAuth"), false)

	vitals := r.Get("performance.webVitals")
	n.Performance.WebVitals = WebVitals{
		LCP:  num(vitals.Get("LCP"), 0),
		FID:  num(vitals.Get("FID"), 0),
		CLS:  num(vitals.Get("CLS"), 0),
		FCP:  num(vitals.Get("FCP"), 0),
		TTFB: num(vitals.Get("TTFB"), 0),
	}

	a11y := r.Get("accessibility")
	n.Accessibility = Accessibility{
		WCAGLevel:             str(a11y.Get("wcagLevel"), "N/A"),
		ARIAFailures:          integer(a11y.Get("ariaFailures"), 0),
		ColorContrastFailures: integer(a11y.Get("colorContrast.failures"), 0),
		KeyboardNavigation:    object(a11y.Get("keyboardNavigation")),
	}

	return n
}

func parseForm(f gjson.Result) Form {
	form := Form{
		FormType:   str(f.Get("formType"), ""),
		Action:     str(f.Get("action"), ""),
		Method:     str(f.Get("method"), "GET"),
		InputCount: integer(f.Get("inputCount"), 0),
		Inputs:     rawList(f.Get("inputs")),
	}
	if v := f.Get("validation"); v.Exists() {
		form.Validation = v.Value()
	}
	return form
}

func parseEdge(r gjson.Result) Edge {
	return Edge{
		From:   ident(r.Get("from")),
		To:     ident(r.Get("to")),
		Action: str(r.Get("action"), ""),
		Role:   ParseRole(str(r.Get("role"), "")),
	}
}

func timestamp(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	default:
		return ""
	}
}

// InteractiveElementCount totals the interactive elements recorded for the
// page. Summary entries contribute their "total", list entries their length.
func (n Node) InteractiveElementCount() int {
	total := 0
	for _, data := range n.InteractiveElements {
		switch v := data.(type) {
		case map[string]any:
			if t, ok := v["total"].(float64); ok {
				total += int(t)
			}
		case []any:
			total += len(v)
		}
	}
	return total
}

// Label is the drill-down label used when listing pages for selection
func (n Node) Label(index int) string {
	title := n.Title
	if title == "" {
		title = "Node " + strconv.Itoa(index+1)
	}
	url := n.URL
	if url == "" {
		url = "No URL"
	}
	if len(url) > 30 {
		return title + " (" + url[:30] + "...)"
	}
	return title + " (" + url + ")"
}
