package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/crawlgraph/internal/components"
	"github.com/v0xg/crawlgraph/internal/config"
	"github.com/v0xg/crawlgraph/internal/crawldoc"
	"github.com/v0xg/crawlgraph/internal/errors"
)

type stubProvider struct {
	reply   string
	err     error
	prompts []string
	block   bool
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.reply, s.err
}

func page() (components.Summary, PageMeta) {
	node := crawldoc.Node{
		ID:    "login",
		URL:   "https://shop.test/login",
		Title: "Sign in",
		Role:  crawldoc.RoleGuest,
		Forms: []crawldoc.Form{
			{FormType: "login", Method: "POST", InputCount: 2},
			{FormType: "search", Method: "GET", InputCount: 1},
			{FormType: "contact", Method: "POST", InputCount: 4},
			{FormType: "newsletter", Method: "POST", InputCount: 1},
		},
		Links: []crawldoc.Link{{Href: "/forgot", Text: "Forgot password"}},
	}
	return components.Analyze(node), PageMetaOf(node)
}

func suggest(s Suggester) []TestCase {
	summary, meta := page()
	return s.Suggest(context.Background(), summary, meta)
}

func TestSuggestParsesNumberedList(t *testing.T) {
	reply := `Here are some test cases:

1. Verify login with valid credentials
   Category: Functional
   Priority: High
   Type: Smoke
2. **Check SQL injection in the email field**
   **Category:** Security
   priority: Medium
   Test Type: Regression
`
	stub := &stubProvider{reply: reply}
	cases := suggest(NewClient(stub, time.Second))

	require.Len(t, cases, 2)
	assert.Equal(t, TestCase{
		Category: "Functional",
		TestCase: "1. Verify login with valid credentials",
		Priority: "High",
		Type:     "Smoke",
	}, cases[0])
	assert.Equal(t, "Security", cases[1].Category)
	assert.Equal(t, "Medium", cases[1].Priority)
	assert.Equal(t, "Regression", cases[1].Type)
}

func TestSuggestFallsBackToDefaults(t *testing.T) {
	stub := &stubProvider{reply: "I cannot help with that."}
	cases := suggest(NewClient(stub, 0))

	assert.Equal(t, DefaultTestCases(), cases)
}

func TestSuggestReportsProviderFailure(t *testing.T) {
	stub := &stubProvider{err: errors.New("quota exceeded")}
	cases := suggest(NewClient(stub, 0))

	require.Len(t, cases, 1)
	assert.Equal(t, "Error", cases[0].Category)
	assert.Equal(t, "N/A", cases[0].Priority)
	assert.Equal(t, "Error", cases[0].Type)
	assert.True(t, strings.HasPrefix(cases[0].TestCase, "Failed to generate AI suggestions: "))
	assert.Contains(t, cases[0].TestCase, "quota exceeded")
	assert.Len(t, stub.prompts, 1, "no retries")
}

func TestSuggestHonoursTimeout(t *testing.T) {
	stub := &stubProvider{block: true}
	cases := suggest(NewClient(stub, 10*time.Millisecond))

	require.Len(t, cases, 1)
	assert.Equal(t, "Error", cases[0].Category)
	assert.Contains(t, cases[0].TestCase, "deadline exceeded")
}

func TestNewWithoutKeyReportsError(t *testing.T) {
	c := New(context.Background(), config.AIConfig{Provider: "claude"})
	cases := suggest(c)

	require.Len(t, cases, 1)
	assert.Equal(t, "Error", cases[0].Category)
	assert.Contains(t, cases[0].TestCase, "missing API key")
}

func TestNewProviderRejectsUnknownName(t *testing.T) {
	_, err := NewProvider(context.Background(), config.AIConfig{Provider: "llama"})
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "gemini")
}

func TestNewProviderBuildsConfiguredClients(t *testing.T) {
	p, err := NewProvider(context.Background(), config.AIConfig{Provider: "openai", OpenAIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "openai:gpt-4o", p.Name())

	p, err = NewProvider(context.Background(), config.AIConfig{Provider: "anthropic", AnthropicKey: "k", Model: "claude-x"})
	require.NoError(t, err)
	assert.Equal(t, "claude:claude-x", p.Name())
}

func TestBuildPromptListsFirstThreeItems(t *testing.T) {
	summary, meta := page()
	prompt := BuildPrompt(summary, meta)

	assert.Contains(t, prompt, "Page URL: https://shop.test/login")
	assert.Contains(t, prompt, "Page Title: Sign in")
	assert.Contains(t, prompt, "- Forms: 4")
	assert.Contains(t, prompt, "- Authentication: false")
	assert.Contains(t, prompt, "login form with 2 inputs")
	assert.Contains(t, prompt, "contact form with 4 inputs")
	assert.Equal(t, 3, strings.Count(prompt, " form with "))
	assert.Contains(t, prompt, "navigation: Forgot password")
	assert.NotContains(t, prompt, "APIs:\n")
}

func TestPageMetaOfDefaults(t *testing.T) {
	assert.Equal(t, PageMeta{URL: "Unknown", Title: "Unknown"}, PageMetaOf(crawldoc.Node{}))
}
