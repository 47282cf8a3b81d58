package crawler

import (
	"net/url"
	"strconv"
	"strings"
)

type target struct {
	id    string
	url   string
	depth int
}

// frontier is the breadth-first queue of same-origin pages. A URL is
// admitted at most once and only while the page budget and depth allow.
type frontier struct {
	origin   *url.URL
	maxPages int
	maxDepth int
	ids      map[string]string
	queue    []target
}

func newFrontier(start *url.URL, maxPages, maxDepth int) *frontier {
	return &frontier{
		origin:   start,
		maxPages: maxPages,
		maxDepth: maxDepth,
		ids:      make(map[string]string),
	}
}

// add admits u at depth and returns its page id. A URL seen before keeps its
// id; an empty id means the URL was not admitted.
func (f *frontier) add(u string, depth int) string {
	if id, ok := f.ids[u]; ok {
		return id
	}
	if len(f.ids) >= f.maxPages || depth > f.maxDepth {
		return ""
	}
	id := "page-" + strconv.Itoa(len(f.ids)+1)
	f.ids[u] = id
	f.queue = append(f.queue, target{id: id, url: u, depth: depth})
	return id
}

func (f *frontier) next() (target, bool) {
	if len(f.queue) == 0 {
		return target{}, false
	}
	t := f.queue[0]
	f.queue = f.queue[1:]
	return t, true
}

// resolve turns an href found on base into a crawlable same-origin URL
// without fragment. ok is false for other origins and non-http schemes.
func (f *frontier) resolve(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if !strings.EqualFold(abs.Host, f.origin.Host) || abs.Scheme != f.origin.Scheme {
		return "", false
	}
	abs.Fragment = ""
	abs.RawFragment = ""
	if abs.Path == "" {
		abs.Path = "/"
	}
	return abs.String(), true
}
