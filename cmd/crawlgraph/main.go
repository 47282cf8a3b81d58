package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/v0xg/crawlgraph/internal/config"
	"github.com/v0xg/crawlgraph/internal/crawldoc"
	"github.com/v0xg/crawlgraph/internal/errors"
	"github.com/v0xg/crawlgraph/internal/filter"
	"github.com/v0xg/crawlgraph/internal/graph"
	"github.com/v0xg/crawlgraph/internal/logger"
	"github.com/v0xg/crawlgraph/internal/pipeline"
)

var (
	configPath string
	verbose    bool
	jsonLogs   bool

	cfg *config.Config
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "crawlgraph",
		Short: "Explore web crawl graphs and their testable components",
		Long: `crawlgraph reads the JSON document produced by a web crawler, builds the
page graph, lays it out, summarises what can be tested on each page and asks
an AI provider for black-box test cases.

Example:
  crawlgraph crawl https://shop.example -o crawl.json
  crawlgraph analyze crawl.json --layout hierarchical
  crawlgraph inspect crawl.json 3 --suggest`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./crawlgraph.toml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")

	rootCmd.AddCommand(
		analyzeCmd(),
		inspectCmd(),
		exportCmd(),
		renderCmd(),
		crawlCmd(),
		serveCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	if err := logger.Initialize(jsonLogs, verbose); err != nil {
		return errors.Wrap(err, "initialize logger")
	}
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func printError(err error) {
	pterm.Error.Println(err.Error())
	if hint := errors.FlattenHints(err); hint != "" {
		pterm.Info.Println(hint)
	}
}

// selection holds the filter and layout flags shared by the graph commands
type selection struct {
	layout        string
	roles         []string
	hideSimulated bool
	maxNodes      int
	seed          int64
}

func (s *selection) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.layout, "layout", "l", "", "Layout: "+strings.Join(graph.LayoutNames, ", ")+" (default: from config)")
	cmd.Flags().StringSliceVar(&s.roles, "roles", nil, "Roles to include (default: all)")
	cmd.Flags().BoolVar(&s.hideSimulated, "hide-simulated", false, "Hide pages reached by simulated actions")
	cmd.Flags().IntVar(&s.maxNodes, "max-nodes", 0, "Cap on displayed pages (default: from config)")
	cmd.Flags().Int64Var(&s.seed, "seed", 0, "Layout seed (default: from config)")
}

func (s *selection) request() (pipeline.Request, error) {
	req := pipeline.DefaultRequest()
	req.Layout = cfg.Layout.Default
	req.Seed = cfg.Layout.Seed
	req.MaxNodes = cfg.Display.MaxNodes
	req.Display = cfg.Display
	req.ShowSimulated = !s.hideSimulated

	if s.layout != "" {
		req.Layout = s.layout
	}
	if s.maxNodes > 0 {
		req.MaxNodes = s.maxNodes
	}
	if s.seed != 0 {
		req.Seed = s.seed
	}
	if len(s.roles) > 0 {
		roles, err := filter.ParseRoles(s.roles)
		if err != nil {
			return req, err
		}
		req.Roles = roles
	}
	return req, nil
}

// load parses the crawl document and runs one analysis cycle
func (s *selection) load(path string) (*pipeline.Analysis, error) {
	req, err := s.request()
	if err != nil {
		return nil, err
	}

	fmt.Printf("→ Loading %s... ", path)
	doc, err := crawldoc.Load(path)
	if err != nil {
		fmt.Println("failed")
		return nil, err
	}
	fmt.Printf("done (%d pages, %d edges)\n", len(doc.Nodes), len(doc.Edges))
	logVerbose("  skipped entries: %d", doc.SkippedNodes)

	fmt.Printf("→ Building graph (%s layout)... ", req.Layout)
	a, err := pipeline.Analyze(doc, req)
	if err != nil {
		fmt.Println("failed")
		return nil, err
	}
	fmt.Printf("done (%d vertices, %d edges)\n", a.Graph.Order(), a.Graph.Size())

	if a.Layout.FellBack {
		pterm.Warning.Printf("%s layout unavailable (%v), used %s\n", a.Layout.Requested, a.Layout.Reason, a.Layout.Used)
	}
	if a.Filter.Truncated {
		pterm.Warning.Printf("Showing first %d of %d pages\n", len(a.Filter.Nodes), a.Filter.Matched)
	}
	return a, nil
}

func logVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}
