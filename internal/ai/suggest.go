package ai

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/v0xg/crawlgraph/internal/components"
	"github.com/v0xg/crawlgraph/internal/config"
	"github.com/v0xg/crawlgraph/internal/crawldoc"
	"github.com/v0xg/crawlgraph/internal/logger"
)

// TestCase is one suggested black-box test. Fields the service did not
// provide are empty.
type TestCase struct {
	Category string `json:"category"`
	TestCase string `json:"test_case"`
	Priority string `json:"priority"`
	Type     string `json:"type"`
}

// PageMeta identifies the page in the prompt
type PageMeta struct {
	URL   string
	Title string
}

// PageMetaOf takes url and title from a page, "Unknown" when missing
func PageMetaOf(n crawldoc.Node) PageMeta {
	meta := PageMeta{URL: n.URL, Title: n.Title}
	if meta.URL == "" {
		meta.URL = "Unknown"
	}
	if meta.Title == "" {
		meta.Title = "Unknown"
	}
	return meta
}

// Suggester produces test cases for a page. It never fails: problems are
// reported as a single record with category "Error".
type Suggester interface {
	Suggest(ctx context.Context, summary components.Summary, page PageMeta) []TestCase
}

// DefaultTestCases are returned when a reply contains no recognisable test case
func DefaultTestCases() []TestCase {
	return []TestCase{
		{Category: "Functional", TestCase: "Verify all links navigate to correct pages", Priority: "High", Type: "Smoke"},
		{Category: "Functional", TestCase: "Validate form submission with valid inputs", Priority: "High", Type: "Functional"},
	}
}

// ErrorTestCase reports a failed request as a test case record
func ErrorTestCase(err error) TestCase {
	return TestCase{
		Category: "Error",
		TestCase: "Failed to generate AI suggestions: " + err.Error(),
		Priority: "N/A",
		Type:     "Error",
	}
}

// Client is a Suggester backed by a Provider. One request per call, no
// retries.
type Client struct {
	provider Provider
	initErr  error
	timeout  time.Duration
	log      *zap.SugaredLogger
}

// NewClient wraps a provider. A zero timeout leaves the caller's deadline alone.
func NewClient(p Provider, timeout time.Duration) *Client {
	return &Client{provider: p, timeout: timeout, log: logger.Named("ai")}
}

// New builds a Client from configuration. A provider that cannot be created
// does not fail here; every Suggest call then returns the error record.
func New(ctx context.Context, cfg config.AIConfig) *Client {
	p, err := NewProvider(ctx, cfg)
	c := NewClient(p, cfg.Timeout)
	c.initErr = err
	return c
}

// Suggest requests test cases for one page
func (c *Client) Suggest(ctx context.Context, summary components.Summary, page PageMeta) []TestCase {
	if c.initErr != nil {
		c.log.Warnw("suggestion provider unavailable", "error", c.initErr)
		return []TestCase{ErrorTestCase(c.initErr)}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.provider.Generate(ctx, BuildPrompt(summary, page))
	if err != nil {
		c.log.Warnw("suggestion request failed",
			"provider", c.provider.Name(),
			"url", page.URL,
			"elapsed", time.Since(start),
			"error", err)
		return []TestCase{ErrorTestCase(err)}
	}

	cases := ParseResponse(text)
	c.log.Debugw("suggestions received",
		"provider", c.provider.Name(),
		"url", page.URL,
		"count", len(cases),
		"elapsed", time.Since(start))
	return cases
}

// ParseResponse reads a numbered list. Each line starting with a digit and
// containing a dot opens a new test case; "Category:", "Priority:" and
// "Type:" lines (any case) fill the current one. An empty result yields
// DefaultTestCases.
func ParseResponse(text string) []TestCase {
	var (
		cases   []TestCase
		current TestCase
		open    bool
	)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(line)
		lower := strings.ToLower(line)
		switch {
		case unicode.IsDigit(first) && strings.Contains(line, "."):
			if open {
				cases = append(cases, current)
			}
			current, open = TestCase{TestCase: line}, true
		case strings.Contains(lower, "category:"):
			current.Category, open = fieldValue(line), true
		case strings.Contains(lower, "priority:"):
			current.Priority, open = fieldValue(line), true
		case strings.Contains(lower, "type:"):
			current.Type, open = fieldValue(line), true
		}
	}
	if open {
		cases = append(cases, current)
	}
	if len(cases) == 0 {
		return DefaultTestCases()
	}
	return cases
}

// fieldValue returns the text after the first colon, without markdown emphasis
func fieldValue(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(value), "*_"))
}
