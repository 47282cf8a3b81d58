package ai

import (
	"fmt"
	"strings"

	"github.com/v0xg/crawlgraph/internal/components"
)

const maxTokens = 1024

// promptItems caps how many items per component kind are described
const promptItems = 3

const systemPrompt = `You are a QA test case generator. You write specific, actionable black-box test cases for web pages. Answer with a plain numbered list.`

const userPrompt = `You are a QA test case generator. Analyze the following testable components found on a web page and suggest specific black-box test cases.

Page URL: %s
Page Title: %s

Testable Components Found:
- Forms: %d
- Links: %d
- APIs: %d
- Authentication: %t
- Performance Issues: %t
- Accessibility Issues: %t

Detailed Component Information:
%s

Generate 5-10 specific, actionable black-box test cases for this page. For each test case, provide:
1. Test Case Category (Functional/Security/Performance/Accessibility)
2. Test Case Description
3. Priority (High/Medium/Low)
4. Test Type (Smoke/Sanity/Integration/Regression/UAT)

Format your response as a numbered list with clear sections.`

// BuildPrompt renders the request for one page
func BuildPrompt(s components.Summary, page PageMeta) string {
	return fmt.Sprintf(userPrompt,
		page.URL, page.Title,
		s.Forms.TotalCount, s.Links.TotalCount, s.APIs.TotalCount,
		s.Authentication.HasAuthentication, s.Performance.HasIssues, s.Accessibility.HasIssues,
		describe(s),
	)
}

// describe lists the first few forms, links and APIs
func describe(s components.Summary) string {
	var sections []string

	if s.Forms.TotalCount > 0 {
		lines := []string{"Forms:"}
		for _, f := range head(s.Forms.Items) {
			lines = append(lines, fmt.Sprintf("  - %s form with %d inputs", f.FormType, f.InputCount))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	if s.Links.TotalCount > 0 {
		lines := []string{"Links:"}
		for _, l := range head(s.Links.Items) {
			lines = append(lines, fmt.Sprintf("  - %s: %s", l.LinkType, l.Text))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	if s.APIs.TotalCount > 0 {
		lines := []string{"APIs:"}
		for _, a := range head(s.APIs.Items) {
			lines = append(lines, fmt.Sprintf("  - %s %s", a.Method, a.URL))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	return strings.Join(sections, "\n\n")
}

func head[T any](items []T) []T {
	if len(items) > promptItems {
		return items[:promptItems]
	}
	return items
}
