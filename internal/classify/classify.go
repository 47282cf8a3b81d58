// Package classify sorts a page's forms, links and network requests into
// the fixed categories used for test planning. Every rule is an independent
// predicate over one sub-record; nothing is ever rejected.
package classify

import (
	"strings"

	"github.com/v0xg/crawlgraph/internal/crawldoc"
)

// FormType is a form bucket
type FormType string

const (
	FormLogin        FormType = "login"
	FormRegistration FormType = "registration"
	FormContact      FormType = "contact"
	FormSearch       FormType = "search"
	FormOrder        FormType = "order"
	FormPayment      FormType = "payment"
	FormOther        FormType = "other"
)

// FormTypes lists form buckets in report order
var FormTypes = []FormType{FormLogin, FormRegistration, FormContact, FormSearch, FormOrder, FormPayment, FormOther}

// FormBuckets maps each form type to its forms
type FormBuckets map[FormType][]crawldoc.Form

// FormTypeOf looks up the bucket for a raw formType tag
func FormTypeOf(tag string) FormType {
	switch t := FormType(tag); t {
	case FormLogin, FormRegistration, FormContact, FormSearch, FormOrder, FormPayment:
		return t
	default:
		return FormOther
	}
}

// Forms buckets a page's forms by their formType tag
func Forms(node crawldoc.Node) FormBuckets {
	buckets := make(FormBuckets, len(FormTypes))
	for _, ft := range FormTypes {
		buckets[ft] = []crawldoc.Form{}
	}
	for _, f := range node.Forms {
		ft := FormTypeOf(f.FormType)
		buckets[ft] = append(buckets[ft], f)
	}
	return buckets
}

// LinkCategory is a link bucket. A link may be in several.
type LinkCategory string

const (
	LinkNavigation   LinkCategory = "navigation"
	LinkActionButton LinkCategory = "action_button"
	LinkExternal     LinkCategory = "external"
	LinkDownload     LinkCategory = "download"
)

// LinkCategories lists link buckets in report order
var LinkCategories = []LinkCategory{LinkNavigation, LinkActionButton, LinkExternal, LinkDownload}

var (
	actionWords        = []string{"submit", "login", "signup", "buy", "add"}
	downloadExtensions = []string{".pdf", ".zip", ".csv", ".xlsx", ".doc"}
	staticExtensions   = []string{".css", ".js", ".png", ".jpg", ".svg", ".woff"}
)

// LinkBuckets maps each link category to the links that match it
type LinkBuckets map[LinkCategory][]crawldoc.Link

// TagLink returns every category a link matches, in report order. pageURL is
// the url of the page the link was found on; a link is external when it is
// absolute and does not start with that url.
func TagLink(link crawldoc.Link, pageURL string) []LinkCategory {
	var tags []LinkCategory
	if strings.HasPrefix(link.Href, "/") {
		tags = append(tags, LinkNavigation)
	}
	if containsAny(strings.ToLower(link.Text), actionWords) {
		tags = append(tags, LinkActionButton)
	}
	if strings.HasPrefix(link.Href, "http") && !strings.HasPrefix(link.Href, pageURL) {
		tags = append(tags, LinkExternal)
	}
	if containsAny(link.Href, downloadExtensions) {
		tags = append(tags, LinkDownload)
	}
	return tags
}

// Links buckets a page's links; links matching no rule appear nowhere
func Links(node crawldoc.Node) LinkBuckets {
	buckets := make(LinkBuckets, len(LinkCategories))
	for _, c := range LinkCategories {
		buckets[c] = []crawldoc.Link{}
	}
	for _, l := range node.Links {
		for _, c := range TagLink(l, node.URL) {
			buckets[c] = append(buckets[c], l)
		}
	}
	return buckets
}

// APICategory is a network request bucket
type APICategory string

const (
	APIRest      APICategory = "rest_api"
	APIGraphQL   APICategory = "graphql"
	APIStatic    APICategory = "static_resource"
	APIWebSocket APICategory = "websocket"
)

// RequestCategories lists the predicate-driven request buckets in report
// order. Websockets are recorded separately by the crawler.
var RequestCategories = []APICategory{APIRest, APIGraphQL, APIStatic}

// APIBuckets holds classified network activity
type APIBuckets struct {
	Requests   map[APICategory][]crawldoc.Request
	WebSockets []any
}

// TagRequest returns every request category a url matches
func TagRequest(url string) []APICategory {
	var tags []APICategory
	if strings.Contains(url, "/api/") || strings.HasSuffix(url, ".json") {
		tags = append(tags, APIRest)
	}
	if strings.Contains(url, "/graphql") {
		tags = append(tags, APIGraphQL)
	}
	if containsAny(url, staticExtensions) {
		tags = append(tags, APIStatic)
	}
	return tags
}

// APIs buckets a page's network requests and copies its websockets
func APIs(node crawldoc.Node) APIBuckets {
	buckets := APIBuckets{
		Requests:   make(map[APICategory][]crawldoc.Request, len(RequestCategories)),
		WebSockets: node.Network.WebSockets,
	}
	if buckets.WebSockets == nil {
		buckets.WebSockets = []any{}
	}
	for _, c := range RequestCategories {
		buckets.Requests[c] = []crawldoc.Request{}
	}
	for _, r := range node.Network.Requests {
		for _, c := range TagRequest(r.URL) {
			buckets.Requests[c] = append(buckets.Requests[c], r)
		}
	}
	return buckets
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
