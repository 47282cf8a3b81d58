package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/v0xg/crawlgraph/internal/errors"
	"github.com/v0xg/crawlgraph/internal/pipeline"
)

func analyzeCmd() *cobra.Command {
	var (
		sel     selection
		limit   int
		jsonOut string
	)
	cmd := &cobra.Command{
		Use:   "analyze <crawl.json>",
		Short: "Show crawl statistics and the laid out page graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := sel.load(args[0])
			if err != nil {
				return err
			}
			printStats(a)
			printPages(a, limit)

			if jsonOut != "" {
				if err := writeAnalysis(jsonOut, a); err != nil {
					return err
				}
				fmt.Printf("✓ Saved graph to %s\n", jsonOut)
			}
			return nil
		},
	}
	sel.bind(cmd)
	cmd.Flags().IntVar(&limit, "limit", 20, "Pages to list (0 lists all)")
	cmd.Flags().StringVarP(&jsonOut, "output", "o", "", "Write vertices, positions and edges as JSON")
	return cmd
}

func printStats(a *pipeline.Analysis) {
	s := a.Filter.Stats
	data := pterm.TableData{
		{"Total nodes", "Total edges", "Roles", "Crawl time"},
		{strconv.Itoa(s.TotalNodes), strconv.Itoa(s.TotalEdges), strconv.Itoa(s.DistinctRoles), fmt.Sprintf("%.1fs", s.CrawlSeconds)},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
	logVerbose("  dropped edges: %d, implicit vertices: %d", a.Graph.Dropped(), a.Graph.ImplicitCount())
}

func printPages(a *pipeline.Analysis, limit int) {
	rows := a.Pages()
	data := pterm.TableData{{"#", "ID", "Role", "Title", "URL", "x", "y"}}
	for _, r := range rows {
		if limit > 0 && r.Index >= limit {
			break
		}
		id, x, y := r.Node.ID, "-", "-"
		if id == "" {
			id = "-"
		}
		if r.Position != nil {
			x = fmt.Sprintf("%.3f", r.Position.X)
			y = fmt.Sprintf("%.3f", r.Position.Y)
		}
		data = append(data, []string{
			strconv.Itoa(r.Index),
			id,
			string(r.Node.Role),
			r.Node.Title,
			r.Node.URL,
			x,
			y,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if limit > 0 && len(rows) > limit {
		pterm.Info.Printf("%d more pages not listed\n", len(rows)-limit)
	}
}

func writeAnalysis(path string, a *pipeline.Analysis) error {
	data, err := json.MarshalIndent(map[string]any{
		"layout": a.Layout.Used,
		"stats":  a.Filter.Stats,
		"nodes":  a.Nodes,
		"edges":  a.Edges,
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode graph")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "write %s", path)
}
