package crawler

import (
	"encoding/json"
	"strings"

	"github.com/v0xg/crawlgraph/internal/errors"
)

// snapshotJS collects everything a Page needs in one evaluation. Vitals that
// only exist as observer entries are read through buffered observers.
const snapshotJS = `async () => {
	const text = el => (el.textContent || el.value || '').trim().replace(/\s+/g, ' ').slice(0, 50);
	const visible = el => el.offsetParent !== null;
	const count = sel => Array.from(document.querySelectorAll(sel)).filter(visible).length;

	function selectorOf(el) {
		if (el.id) return '#' + CSS.escape(el.id);
		const tag = el.tagName.toLowerCase();
		if (el.name) return tag + '[name="' + el.name + '"]';
		const parent = el.parentElement;
		if (!parent) return tag;
		const index = Array.from(parent.children).indexOf(el) + 1;
		const prefix = parent === document.body ? 'body' : selectorOf(parent);
		return prefix + ' > ' + tag + ':nth-child(' + index + ')';
	}

	function observed(type, reduce) {
		return new Promise(resolve => {
			try {
				new PerformanceObserver(list => resolve(reduce(list.getEntries()))).observe({type, buffered: true});
			} catch (e) {
				resolve(0);
			}
			setTimeout(() => resolve(0), 300);
		});
	}

	const lcp = await observed('largest-contentful-paint', es => es.length ? es[es.length - 1].startTime : 0);
	const cls = await observed('layout-shift', es => es.filter(e => !e.hadRecentInput).reduce((s, e) => s + e.value, 0));
	const nav = performance.getEntriesByType('navigation')[0];
	const fcp = performance.getEntriesByName('first-contentful-paint')[0];

	const forms = Array.from(document.forms).map(f => {
		const inputs = Array.from(f.querySelectorAll('input:not([type="hidden"]):not([type="submit"]):not([type="button"]), select, textarea'));
		return {
			hint: [f.id, f.getAttribute('name') || '', f.getAttribute('action') || '', f.className || ''].join(' '),
			action: f.getAttribute('action') || '',
			method: (f.getAttribute('method') || 'GET').toUpperCase(),
			passwords: f.querySelectorAll('input[type="password"]').length,
			email: !!f.querySelector('input[type="email"], input[name*="email" i]'),
			textarea: !!f.querySelector('textarea'),
			search: f.getAttribute('role') === 'search' || !!f.querySelector('input[type="search"], input[name="q"]'),
			card: !!f.querySelector('input[autocomplete^="cc-"], input[name*="card" i]'),
			quantity: !!f.querySelector('input[name*="qty" i], input[name*="quantity" i]'),
			validation: inputs.filter(i => i.required || i.pattern || i.minLength > 0).map(i => i.required ? 'required' : i.pattern ? 'pattern' : 'minlength'),
			inputs: inputs.map(i => ({type: i.type || i.tagName.toLowerCase(), name: i.name || '', required: !!i.required})),
		};
	});

	const links = Array.from(document.querySelectorAll('a[href]'))
		.map(a => ({href: a.getAttribute('href'), text: text(a), selector: selectorOf(a)}))
		.filter(l => l.href && !l.href.startsWith('#') && !l.href.startsWith('javascript:'));

	const requests = performance.getEntriesByType('resource').map(e => ({
		url: e.name,
		status: e.responseStatus || 0,
		responseTime: e.duration,
	}));

	return JSON.stringify({
		url: location.href,
		title: document.title,
		forms,
		links,
		requests,
		vitals: {
			lcp,
			cls,
			fcp: fcp ? fcp.startTime : 0,
			ttfb: nav ? nav.responseStart - nav.requestStart : 0,
		},
		elements: {
			buttons: count('button, [role="button"], input[type="submit"], input[type="button"]'),
			inputs: count('input:not([type="hidden"]), textarea'),
			links: count('a[href]'),
			selects: count('select'),
		},
		a11y: {
			missingAlt: document.querySelectorAll('img:not([alt])').length,
			unlabeled: Array.from(document.querySelectorAll('button, [role="button"]'))
				.filter(b => !b.textContent.trim() && !b.getAttribute('aria-label') && !b.getAttribute('aria-labelledby')).length,
			focusable: document.querySelectorAll('a[href], button, input, select, textarea, [tabindex]:not([tabindex="-1"])').length,
			skipLink: !!document.querySelector('a[href="#main"], a[href="#content"], a[href="#main-content"]'),
		},
	});
}`

type snapshot struct {
	URL      string         `json:"url"`
	Title    string         `json:"title"`
	Forms    []snapshotForm `json:"forms"`
	Links    []Link         `json:"links"`
	Requests []Request      `json:"requests"`
	Vitals   snapshotVitals `json:"vitals"`
	Elements map[string]int `json:"elements"`
	A11y     snapshotA11y   `json:"a11y"`
}

type snapshotForm struct {
	Hint       string   `json:"hint"`
	Action     string   `json:"action"`
	Method     string   `json:"method"`
	Passwords  int      `json:"passwords"`
	Email      bool     `json:"email"`
	Textarea   bool     `json:"textarea"`
	Search     bool     `json:"search"`
	Card       bool     `json:"card"`
	Quantity   bool     `json:"quantity"`
	Validation []string `json:"validation"`
	Inputs     []Input  `json:"inputs"`
}

// milliseconds
type snapshotVitals struct {
	LCP  float64 `json:"lcp"`
	CLS  float64 `json:"cls"`
	FCP  float64 `json:"fcp"`
	TTFB float64 `json:"ttfb"`
}

type snapshotA11y struct {
	MissingAlt int  `json:"missingAlt"`
	Unlabeled  int  `json:"unlabeled"`
	Focusable  int  `json:"focusable"`
	SkipLink   bool `json:"skipLink"`
}

func decodeSnapshot(raw string) (*snapshot, error) {
	var s snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, errors.Wrap(err, "decode page snapshot")
	}
	return &s, nil
}

// page converts a snapshot into a crawl page
func (s *snapshot) page(t target, role, timestamp string) Page {
	p := Page{
		ID:        t.id,
		URL:       s.URL,
		Title:     s.Title,
		Role:      role,
		Depth:     t.depth,
		Timestamp: timestamp,
		Forms:     make([]Form, 0, len(s.Forms)),
		Links:     s.Links,
		Network: Network{
			Requests:   make([]Request, 0, len(s.Requests)),
			WebSockets: []string{},
		},
		Performance: Performance{WebVitals: WebVitals{
			LCP:  s.Vitals.LCP / 1000,
			CLS:  s.Vitals.CLS,
			FCP:  s.Vitals.FCP / 1000,
			TTFB: s.Vitals.TTFB / 1000,
		}},
		Accessibility: Accessibility{
			WCAGLevel:    "N/A",
			ARIAFailures: s.A11y.MissingAlt + s.A11y.Unlabeled,
			KeyboardNavigation: KeyboardNavigation{
				FocusableElements: s.A11y.Focusable,
				HasSkipLink:       s.A11y.SkipLink,
			},
		},
		InteractiveElements: make(map[string]ElementCount, len(s.Elements)),
	}
	if p.URL == "" {
		p.URL = t.url
	}
	if p.Links == nil {
		p.Links = []Link{}
	}

	for _, f := range s.Forms {
		if f.Passwords > 0 {
			p.Features.HasAuth = true
		}
		inputs := f.Inputs
		if inputs == nil {
			inputs = []Input{}
		}
		p.Forms = append(p.Forms, Form{
			FormType:   formType(f),
			Action:     f.Action,
			Method:     f.Method,
			InputCount: len(inputs),
			Validation: f.Validation,
			Inputs:     inputs,
		})
	}
	for _, r := range s.Requests {
		// resource timing does not expose the method
		r.Method = "GET"
		p.Network.Requests = append(p.Network.Requests, r)
	}
	for kind, n := range s.Elements {
		p.InteractiveElements[kind] = ElementCount{Total: n}
	}
	return p
}

// formType guesses the purpose of a form from its controls, then from the
// words in its id, name, action and class
func formType(f snapshotForm) string {
	switch {
	case f.Card:
		return "payment"
	case f.Passwords >= 2:
		return "registration"
	case f.Passwords == 1:
		return "login"
	case f.Search:
		return "search"
	case f.Quantity:
		return "order"
	case f.Textarea && f.Email:
		return "contact"
	}

	hint := strings.ToLower(f.Hint)
	for _, k := range formKeywords {
		for _, word := range k.words {
			if strings.Contains(hint, word) {
				return k.formType
			}
		}
	}
	return "other"
}

var formKeywords = []struct {
	formType string
	words    []string
}{
	{"registration", []string{"register", "signup", "sign-up", "join"}},
	{"login", []string{"login", "signin", "sign-in", "session"}},
	{"payment", []string{"payment", "billing", "pay"}},
	{"order", []string{"checkout", "order", "cart"}},
	{"search", []string{"search"}},
	{"contact", []string{"contact", "feedback", "enquiry", "inquiry"}},
}
