package crawler

import (
	"bytes"
	"context"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/crawlgraph/internal/classify"
	"github.com/v0xg/crawlgraph/internal/components"
	"github.com/v0xg/crawlgraph/internal/crawldoc"
	"github.com/v0xg/crawlgraph/internal/errors"
)

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestFrontierResolve(t *testing.T) {
	origin := mustURL(t, "https://shop.test/")
	f := newFrontier(origin, 10, 2)
	base := mustURL(t, "https://shop.test/catalog/item")

	tests := []struct {
		href string
		want string
		ok   bool
	}{
		{"/cart", "https://shop.test/cart", true},
		{"reviews#top", "https://shop.test/catalog/reviews", true},
		{"https://SHOP.test", "https://SHOP.test/", true},
		{"#top", "", false},
		{"", "", false},
		{"mailto:help@shop.test", "", false},
		{"https://cdn.test/app.js", "", false},
		{"http://shop.test/insecure", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, ok := f.resolve(base, tt.href)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrontierBudget(t *testing.T) {
	f := newFrontier(mustURL(t, "https://shop.test/"), 2, 1)

	assert.Equal(t, "page-1", f.add("https://shop.test/", 0))
	assert.Equal(t, "", f.add("https://shop.test/deep", 2))
	assert.Equal(t, "page-2", f.add("https://shop.test/a", 1))
	assert.Equal(t, "page-1", f.add("https://shop.test/", 1))
	assert.Equal(t, "", f.add("https://shop.test/b", 1))

	first, ok := f.next()
	require.True(t, ok)
	assert.Equal(t, target{id: "page-1", url: "https://shop.test/", depth: 0}, first)
	_, ok = f.next()
	require.True(t, ok)
	_, ok = f.next()
	assert.False(t, ok)
}

func TestFormType(t *testing.T) {
	tests := []struct {
		name string
		form snapshotForm
		want string
	}{
		{"card", snapshotForm{Card: true, Passwords: 1}, "payment"},
		{"two passwords", snapshotForm{Passwords: 2}, "registration"},
		{"one password", snapshotForm{Passwords: 1}, "login"},
		{"search box", snapshotForm{Search: true}, "search"},
		{"quantity", snapshotForm{Quantity: true}, "order"},
		{"message", snapshotForm{Textarea: true, Email: true}, "contact"},
		{"hint", snapshotForm{Hint: "newsletter-signup  /subscribe"}, "registration"},
		{"checkout action", snapshotForm{Hint: " /Checkout "}, "order"},
		{"nothing", snapshotForm{Email: true}, "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formType(tt.form))
		})
	}
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	_, err := decodeSnapshot("undefined")
	assert.Error(t, err)
}

func TestCrawledDocumentIsReadable(t *testing.T) {
	snap, err := decodeSnapshot(`{
		"url": "https://shop.test/login",
		"title": "Sign in",
		"forms": [{"hint": "", "method": "POST", "passwords": 1,
			"validation": ["required"], "inputs": [{"type": "email", "required": true}, {"type": "password"}]}],
		"links": [{"href": "/help", "text": "Help", "selector": "#help"}],
		"requests": [{"url": "https://shop.test/api/session", "status": 200, "responseTime": 41.5}],
		"vitals": {"lcp": 3200, "cls": 0.02, "fcp": 900, "ttfb": 120},
		"elements": {"buttons": 2, "inputs": 2},
		"a11y": {"missingAlt": 1, "unlabeled": 1, "focusable": 6}
	}`)
	require.NoError(t, err)

	page := snap.page(target{id: "page-1", url: "https://shop.test/login", depth: 1}, "guest", "2026-01-01T00:00:00Z")
	crawl := &Document{
		Metadata: Metadata{StartURL: "https://shop.test/", TotalCrawlTime: 2500},
		Nodes:    []Page{page},
		Edges:    []Edge{{From: "page-1", To: "page-2", Action: "navigate", Role: "guest"}},
	}

	var buf bytes.Buffer
	require.NoError(t, crawl.Write(&buf))

	doc, err := crawldoc.Parse(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	n := doc.Nodes[0]

	assert.Equal(t, crawldoc.RoleGuest, n.Role)
	assert.Equal(t, 1, n.Depth)
	assert.True(t, n.Features.HasAuth)
	assert.Equal(t, 4, n.InteractiveElementCount())
	assert.InDelta(t, 2.5, doc.CrawlSeconds(), 1e-9)

	summary := components.Analyze(n)
	require.Len(t, summary.Forms.Items, 1)
	assert.Equal(t, classify.FormType("login"), summary.Forms.Items[0].FormType)
	assert.Equal(t, 2, summary.Forms.Items[0].InputCount)
	assert.True(t, summary.Forms.Items[0].HasValidation)
	assert.Equal(t, 1, summary.APIs.TotalCount)
	assert.Equal(t, "GET", summary.APIs.Items[0].Method)
	assert.True(t, summary.Performance.HasIssues)
	assert.InDelta(t, 3.2, summary.Performance.LCP, 1e-9)
	assert.Equal(t, 2, summary.Accessibility.ARIAFailures)
	assert.True(t, summary.Accessibility.HasIssues)
	assert.True(t, summary.Security.UsesHTTPS)
}

func TestCrawlRejectsBadStart(t *testing.T) {
	_, err := Crawl(t.Context(), "shop.test/home", Options{})
	assert.True(t, errors.Is(err, ErrInvalidStart))
}

func TestAttachKillsBrowserWhenConnectFails(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	killed := 0
	browser, err := attach(context.Background(), "ws://"+addr+"/devtools/browser/gone", func() { killed++ })

	require.Error(t, err)
	assert.Nil(t, browser)
	assert.Equal(t, 1, killed)
	assert.Contains(t, err.Error(), "connect to browser")
}
