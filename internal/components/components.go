// Package components builds the per-page testable components summary from
// classifier buckets and the page's own feature, performance and
// accessibility records.
package components

import (
	"strings"

	"github.com/v0xg/crawlgraph/internal/classify"
	"github.com/v0xg/crawlgraph/internal/crawldoc"
)

// Core Web Vitals "poor" boundaries
const (
	LCPThreshold = 2.5 // seconds
	FIDThreshold = 100 // milliseconds
	CLSThreshold = 0.1 // unitless
)

// Summary is the testable components snapshot for one page
type Summary struct {
	Forms          FormsSummary          `json:"forms"`
	Links          LinksSummary          `json:"links"`
	APIs           APIsSummary           `json:"apis"`
	Authentication AuthenticationSummary `json:"authentication"`
	Performance    PerformanceSummary    `json:"performance"`
	Accessibility  AccessibilitySummary  `json:"accessibility"`
	Security       SecuritySummary       `json:"security"`
}

// FormsSummary lists every form with its bucket
type FormsSummary struct {
	TotalCount int        `json:"total_count"`
	Items      []FormItem `json:"items"`
}

// FormItem is one form on the page
type FormItem struct {
	FormType      classify.FormType `json:"form_type"`
	Action        string            `json:"action"`
	Method        string            `json:"method"`
	InputCount    int               `json:"input_count"`
	HasValidation bool              `json:"has_validation"`
	Inputs        []any             `json:"inputs"`
}

// LinksSummary has one row per (link, category) pair. A link matching two
// categories is listed, and counted, twice.
type LinksSummary struct {
	TotalCount int        `json:"total_count"`
	Items      []LinkItem `json:"items"`
}

// LinkItem is one link row
type LinkItem struct {
	LinkType classify.LinkCategory `json:"link_type"`
	Href     string                `json:"href"`
	Text     string                `json:"text"`
	Selector string                `json:"selector"`
}

// APIsSummary lists REST, GraphQL and static requests. Websockets are not
// listed.
type APIsSummary struct {
	TotalCount int       `json:"total_count"`
	Items      []APIItem `json:"items"`
}

// APIItem is one classified request row
type APIItem struct {
	APIType      classify.APICategory `json:"api_type"`
	URL          string               `json:"url"`
	Method       string               `json:"method"`
	Status       int                  `json:"status"`
	ResponseTime float64              `json:"response_time"`
}

// AuthenticationSummary describes login requirements
type AuthenticationSummary struct {
	HasAuthentication bool          `json:"has_authentication"`
	RequiresLogin     bool          `json:"requires_login"`
	Role              crawldoc.Role `json:"role"`
}

// PerformanceSummary carries the Core Web Vitals
type PerformanceSummary struct {
	LCP       float64 `json:"lcp"`
	FID       float64 `json:"fid"`
	CLS       float64 `json:"cls"`
	FCP       float64 `json:"fcp"`
	TTFB      float64 `json:"ttfb"`
	HasIssues bool    `json:"has_issues"`
}

// AccessibilitySummary carries WCAG audit results
type AccessibilitySummary struct {
	WCAGLevel             string         `json:"wcag_level"`
	ARIAFailures          int            `json:"aria_failures"`
	ColorContrastFailures int            `json:"color_contrast_failures"`
	KeyboardNavigation    map[string]any `json:"keyboard_navigation"`
	HasIssues             bool           `json:"has_issues"`
}

// SecuritySummary reports transport security. PII and XSS detection are not
// implemented and always report false.
type SecuritySummary struct {
	UsesHTTPS   bool `json:"uses_https"`
	HasPII      bool `json:"has_pii"`
	HasXSSRisks bool `json:"has_xss_risks"`
}

// Analyze builds the summary for one page
func Analyze(node crawldoc.Node) Summary {
	return Summary{
		Forms:          analyzeForms(node),
		Links:          analyzeLinks(node),
		APIs:           analyzeAPIs(node),
		Authentication: analyzeAuthentication(node),
		Performance:    analyzePerformance(node.Performance.WebVitals),
		Accessibility:  analyzeAccessibility(node.Accessibility),
		Security:       analyzeSecurity(node),
	}
}

func analyzeForms(node crawldoc.Node) FormsSummary {
	buckets := classify.Forms(node)
	items := []FormItem{}
	for _, ft := range classify.FormTypes {
		for _, f := range buckets[ft] {
			inputs := f.Inputs
			if inputs == nil {
				inputs = []any{}
			}
			items = append(items, FormItem{
				FormType:      ft,
				Action:        f.Action,
				Method:        f.Method,
				InputCount:    f.InputCount,
				HasValidation: f.HasValidation(),
				Inputs:        inputs,
			})
		}
	}
	return FormsSummary{TotalCount: len(items), Items: items}
}

func analyzeLinks(node crawldoc.Node) LinksSummary {
	buckets := classify.Links(node)
	items := []LinkItem{}
	for _, c := range classify.LinkCategories {
		for _, l := range buckets[c] {
			items = append(items, LinkItem{
				LinkType: c,
				Href:     l.Href,
				Text:     l.Text,
				Selector: l.Selector,
			})
		}
	}
	return LinksSummary{TotalCount: len(items), Items: items}
}

func analyzeAPIs(node crawldoc.Node) APIsSummary {
	buckets := classify.APIs(node)
	items := []APIItem{}
	for _, c := range classify.RequestCategories {
		for _, r := range buckets.Requests[c] {
			items = append(items, APIItem{
				APIType:      c,
				URL:          r.URL,
				Method:       r.Method,
				Status:       r.Status,
				ResponseTime: r.ResponseTime,
			})
		}
	}
	return APIsSummary{TotalCount: len(items), Items: items}
}

func analyzeAuthentication(node crawldoc.Node) AuthenticationSummary {
	return AuthenticationSummary{
		HasAuthentication: node.Features.HasAuth,
		RequiresLogin:     node.Features.HasAuth,
		Role:              node.Role,
	}
}

func analyzePerformance(v crawldoc.WebVitals) PerformanceSummary {
	return PerformanceSummary{
		LCP:       v.LCP,
		FID:       v.FID,
		CLS:       v.CLS,
		FCP:       v.FCP,
		TTFB:      v.TTFB,
		HasIssues: v.LCP > LCPThreshold || v.FID > FIDThreshold || v.CLS > CLSThreshold,
	}
}

func analyzeAccessibility(a crawldoc.Accessibility) AccessibilitySummary {
	kb := a.KeyboardNavigation
	if kb == nil {
		kb = map[string]any{}
	}
	level := a.WCAGLevel
	if level == "" {
		level = "N/A"
	}
	return AccessibilitySummary{
		WCAGLevel:             level,
		ARIAFailures:          a.ARIAFailures,
		ColorContrastFailures: a.ColorContrastFailures,
		KeyboardNavigation:    kb,
		HasIssues:             a.ARIAFailures > 0,
	}
}

func analyzeSecurity(node crawldoc.Node) SecuritySummary {
	return SecuritySummary{
		UsesHTTPS: strings.HasPrefix(node.URL, "https://"),
	}
}

// Rating is a per-metric verdict against the Core Web Vitals boundaries
type Rating string

const (
	RatingGood Rating = "Good"
	RatingPoor Rating = "Poor"
)

// Ratings grades LCP, FID and CLS individually
func (p PerformanceSummary) Ratings() map[string]Rating {
	grade := func(poor bool) Rating {
		if poor {
			return RatingPoor
		}
		return RatingGood
	}
	return map[string]Rating{
		"LCP": grade(p.LCP > LCPThreshold),
		"FID": grade(p.FID > FIDThreshold),
		"CLS": grade(p.CLS > CLSThreshold),
	}
}
