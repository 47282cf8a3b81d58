package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/v0xg/crawlgraph/internal/crawldoc"
	"github.com/v0xg/crawlgraph/internal/crawler"
	"github.com/v0xg/crawlgraph/internal/errors"
)

func crawlCmd() *cobra.Command {
	var (
		output   string
		maxPages int
		maxDepth int
		role     string
		profile  string
		stealth  bool
	)
	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl a site with a headless browser and write a crawl document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := crawler.Options{
				Width:      cfg.Crawl.Width,
				Height:     cfg.Crawl.Height,
				Timeout:    cfg.Crawl.Timeout,
				MaxPages:   cfg.Crawl.MaxPages,
				MaxDepth:   cfg.Crawl.MaxDepth,
				Role:       string(crawldoc.ParseRole(role)),
				ProfileDir: profile,
				Stealth:    cfg.Crawl.Stealth || stealth,
			}
			if cmd.Flags().Changed("max-pages") {
				opts.MaxPages = maxPages
			}
			if cmd.Flags().Changed("max-depth") {
				opts.MaxDepth = maxDepth
			}
			logVerbose("  max pages: %d, max depth: %d, role: %s", opts.MaxPages, opts.MaxDepth, opts.Role)

			fmt.Printf("→ Crawling %s... ", args[0])
			doc, err := crawler.Crawl(cmd.Context(), args[0], opts)
			if err != nil {
				fmt.Println("failed")
				return err
			}
			fmt.Printf("done (%d pages, %d edges", doc.Statistics.TotalPages, doc.Statistics.TotalEdges)
			if doc.Statistics.FailedPages > 0 {
				fmt.Printf(", %d failed", doc.Statistics.FailedPages)
			}
			fmt.Println(")")

			f, err := os.Create(output)
			if err != nil {
				return errors.Wrapf(err, "create %s", output)
			}
			defer f.Close()
			if err := doc.Write(f); err != nil {
				return err
			}
			fmt.Printf("✓ Saved to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "crawl.json", "Output filename")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Page budget (default: from config)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Link depth from the start page (default: from config)")
	cmd.Flags().StringVar(&role, "role", "guest", "Role recorded on pages: guest, user, admin")
	cmd.Flags().StringVar(&profile, "profile", "", "Chrome/Chromium profile directory for authenticated sessions (close browser first)")
	cmd.Flags().BoolVar(&stealth, "stealth", false, "Mask headless browser fingerprints")
	return cmd
}
