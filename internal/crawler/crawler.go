// Package crawler drives a headless browser over a site and records the
// pages and navigations it finds as a crawl document.
package crawler

import (
	"context"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/v0xg/crawlgraph/internal/errors"
	"github.com/v0xg/crawlgraph/internal/logger"
)

// Options configures the crawler behavior
type Options struct {
	Width    int
	Height   int
	Timeout  time.Duration // per page
	MaxPages int
	MaxDepth int
	// Role is recorded on every page and edge
	Role       string
	ProfileDir string // Chrome/Chromium profile directory for authenticated sessions
	// Stealth opens pages with automation fingerprints masked
	Stealth bool
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1280
	}
	if o.Height <= 0 {
		o.Height = 720
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.MaxPages <= 0 {
		o.MaxPages = 25
	}
	if o.MaxDepth < 0 {
		o.MaxDepth = 0
	}
	if o.Role == "" {
		o.Role = "guest"
	}
	return o
}

// ErrInvalidStart is returned for a start URL that is not absolute http(s)
var ErrInvalidStart = errors.New("start URL must be an absolute http or https URL")

// Crawl visits start and the same-origin pages reachable from it, breadth
// first. Pages that fail to load are logged and counted; edges pointing at
// them are kept.
func Crawl(ctx context.Context, start string, opts Options) (*Document, error) {
	opts = opts.withDefaults()
	log := logger.Named("crawler")

	origin, err := url.Parse(start)
	if err != nil || (origin.Scheme != "http" && origin.Scheme != "https") || origin.Host == "" {
		return nil, errors.WithHint(errors.Wrapf(ErrInvalidStart, "%q", start), "for example https://example.com/")
	}
	front := newFrontier(origin, opts.MaxPages, opts.MaxDepth)
	first, _ := front.resolve(origin, start)
	front.add(first, 0)

	browser, err := launch(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer browser.Close()

	began := time.Now()
	doc := &Document{
		Metadata: Metadata{
			StartURL:  first,
			Role:      opts.Role,
			CrawledAt: began.UTC().Format(time.RFC3339),
		},
		Nodes: []Page{},
		Edges: []Edge{},
	}

	for {
		if ctx.Err() != nil {
			log.Warnw("crawl cancelled", "visited", len(doc.Nodes))
			break
		}
		t, ok := front.next()
		if !ok {
			break
		}

		snap, err := visit(ctx, browser, t.url, opts)
		if err != nil {
			doc.Statistics.FailedPages++
			log.Warnw("page failed", "url", t.url, "error", err)
			continue
		}
		log.Debugw("page visited", "url", t.url, "depth", t.depth, "links", len(snap.Links))

		page := snap.page(t, opts.Role, time.Now().UTC().Format(time.RFC3339))
		doc.Nodes = append(doc.Nodes, page)

		base, err := url.Parse(page.URL)
		if err != nil {
			base, _ = url.Parse(t.url)
		}
		linked := make(map[string]bool)
		for _, l := range snap.Links {
			next, ok := front.resolve(base, l.Href)
			if !ok {
				continue
			}
			id := front.add(next, t.depth+1)
			if id == "" || id == t.id || linked[id] {
				continue
			}
			linked[id] = true
			doc.Edges = append(doc.Edges, Edge{From: t.id, To: id, Action: "navigate", Role: opts.Role})
		}
	}

	doc.Metadata.TotalCrawlTime = time.Since(began).Milliseconds()
	doc.Statistics.TotalPages = len(doc.Nodes)
	doc.Statistics.TotalEdges = len(doc.Edges)
	return doc, nil
}

func launch(ctx context.Context, opts Options) (*rod.Browser, error) {
	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).Headless(true)

	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "launch browser"),
			"install Chrome or Chromium, or let rod download one on first run")
	}
	return attach(ctx, u, l.Kill)
}

// attach connects to the browser at controlURL. kill runs when the
// connection fails.
func attach(ctx context.Context, controlURL string, kill func()) (*rod.Browser, error) {
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		kill()
		return nil, errors.Wrap(err, "connect to browser")
	}
	return browser, nil
}

// visit loads one page in a fresh tab and takes its snapshot
func visit(ctx context.Context, browser *rod.Browser, u string, opts Options) (*snapshot, error) {
	var raw string
	err := rod.Try(func() {
		var page *rod.Page
		if opts.Stealth {
			page = stealth.MustPage(browser)
		} else {
			page = browser.MustPage("")
		}
		defer page.MustClose()

		page = page.Context(ctx).Timeout(opts.Timeout)
		page.MustSetViewport(opts.Width, opts.Height, 1, false)
		page.MustNavigate(u)
		page.MustWaitLoad()

		// don't hang on persistent connections
		page.Timeout(5*time.Second).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()

		if detectSPA(page) {
			waitForInteractiveElements(page, 5*time.Second)
		}
		raw = page.MustEval(snapshotJS).String()
	})
	if err != nil {
		return nil, errors.Wrapf(err, "visit %s", u)
	}
	return decodeSnapshot(raw)
}

// waitForInteractiveElements polls until interactive elements appear or timeout
func waitForInteractiveElements(page *rod.Page, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	checkInterval := 200 * time.Millisecond

	for time.Now().Before(deadline) {
		count := page.MustEval(`() => {
			let visible = 0;
			document.querySelectorAll('button, [role="button"], input:not([type="hidden"]), textarea, a[href]')
				.forEach(el => { if (el.offsetParent) visible++; });
			return visible;
		}`).Int()

		if count > 0 {
			// let the last renders land
			time.Sleep(300 * time.Millisecond)
			return
		}

		time.Sleep(checkInterval)
	}
}

// detectSPA checks for client-side framework markers
func detectSPA(page *rod.Page) bool {
	return page.MustEval(`() => {
		if (window.__REACT_DEVTOOLS_GLOBAL_HOOK__ || document.querySelector('[data-reactroot]') || document.querySelector('#__next')) return true;
		if (window.__VUE__ || document.querySelector('[data-v-app]')) return true;
		if (window.ng || document.querySelector('[ng-version]') || document.querySelector('app-root')) return true;
		if (document.querySelector('[class*="svelte-"]')) return true;
		return false;
	}`).Bool()
}
