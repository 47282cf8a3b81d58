package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/v0xg/crawlgraph/internal/ai"
	"github.com/v0xg/crawlgraph/internal/errors"
	"github.com/v0xg/crawlgraph/internal/pipeline"
)

func inspectCmd() *cobra.Command {
	var (
		sel      selection
		suggest  bool
		provider string
		model    string
	)
	cmd := &cobra.Command{
		Use:   "inspect <crawl.json> <index>",
		Short: "Show the testable components of one page",
		Long: `inspect summarises the forms, links, APIs, authentication, performance,
accessibility and security of the page at <index> among the displayed pages
(see the # column of analyze). With --suggest it also asks the configured AI
provider for test cases.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.WithHint(errors.Newf("invalid index %q", args[1]), "use the # column printed by analyze")
			}
			a, err := sel.load(args[0])
			if err != nil {
				return err
			}

			var suggester ai.Suggester
			if suggest {
				aiCfg := cfg.AI
				if provider != "" {
					aiCfg.Provider = provider
				}
				if model != "" {
					aiCfg.Model = model
				}
				suggester = ai.New(cmd.Context(), aiCfg)
				fmt.Printf("→ Generating test cases via %s... ", aiCfg.Provider)
			}

			report, err := pipeline.Inspect(cmd.Context(), a, index, suggester)
			if err != nil {
				if suggest {
					fmt.Println("failed")
				}
				return err
			}
			if suggest {
				fmt.Printf("done (%d test cases)\n", len(report.Suggestions))
			}
			printReport(report)
			return nil
		},
	}
	sel.bind(cmd)
	cmd.Flags().BoolVar(&suggest, "suggest", false, "Ask the AI provider for test cases")
	cmd.Flags().StringVar(&provider, "provider", "", "AI provider: gemini, claude, openai (default: from config)")
	cmd.Flags().StringVar(&model, "model", "", "Specific model override")
	return cmd
}

func printReport(r *pipeline.NodeReport) {
	s := r.Summary
	pterm.DefaultSection.Println(r.Label)

	overview := pterm.TableData{
		{"Forms", "Links", "APIs", "Interactive", "Auth", "HTTPS"},
		{
			strconv.Itoa(s.Forms.TotalCount),
			strconv.Itoa(s.Links.TotalCount),
			strconv.Itoa(s.APIs.TotalCount),
			strconv.Itoa(r.InteractiveElements),
			strconv.FormatBool(s.Authentication.HasAuthentication),
			strconv.FormatBool(s.Security.UsesHTTPS),
		},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(overview).Render()

	if s.Forms.TotalCount > 0 {
		data := pterm.TableData{{"Type", "Method", "Action", "Inputs", "Validation"}}
		for _, f := range s.Forms.Items {
			data = append(data, []string{string(f.FormType), f.Method, f.Action, strconv.Itoa(f.InputCount), strconv.FormatBool(f.HasValidation)})
		}
		pterm.Println("Forms")
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	if s.Links.TotalCount > 0 {
		data := pterm.TableData{{"Category", "Text", "Href"}}
		for _, l := range s.Links.Items {
			data = append(data, []string{string(l.LinkType), l.Text, l.Href})
		}
		pterm.Println("Links")
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	if s.APIs.TotalCount > 0 {
		data := pterm.TableData{{"Category", "Method", "Status", "Time", "URL"}}
		for _, a := range s.APIs.Items {
			data = append(data, []string{string(a.APIType), a.Method, strconv.Itoa(a.Status), fmt.Sprintf("%.0fms", a.ResponseTime), a.URL})
		}
		pterm.Println("APIs")
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}

	p := s.Performance
	vitals := pterm.TableData{
		{"LCP", "FID", "CLS", "FCP", "TTFB"},
		{
			fmt.Sprintf("%.2fs %s", p.LCP, r.Ratings["LCP"]),
			fmt.Sprintf("%.0fms %s", p.FID, r.Ratings["FID"]),
			fmt.Sprintf("%.3f %s", p.CLS, r.Ratings["CLS"]),
			fmt.Sprintf("%.2fs", p.FCP),
			fmt.Sprintf("%.2fs", p.TTFB),
		},
	}
	pterm.Println("Performance")
	_ = pterm.DefaultTable.WithHasHeader().WithData(vitals).Render()

	acc := s.Accessibility
	pterm.Printf("Accessibility: WCAG %s, %d ARIA failures, %d contrast failures\n",
		acc.WCAGLevel, acc.ARIAFailures, acc.ColorContrastFailures)
	if len(acc.KeyboardNavigation) > 0 {
		keys := make([]string, 0, len(acc.KeyboardNavigation))
		for k := range acc.KeyboardNavigation {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			logVerbose("  keyboard %s: %v", k, acc.KeyboardNavigation[k])
		}
	}

	if len(r.Suggestions) > 0 {
		data := pterm.TableData{{"Category", "Priority", "Type", "Test case"}}
		for _, tc := range r.Suggestions {
			data = append(data, []string{tc.Category, tc.Priority, tc.Type, tc.TestCase})
		}
		pterm.Println("Suggested test cases")
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
}
