package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/v0xg/crawlgraph/internal/ai"
	"github.com/v0xg/crawlgraph/internal/server"
)

func serveCmd() *cobra.Command {
	var (
		addr      string
		noSuggest bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			var suggester ai.Suggester
			if !noSuggest {
				suggester = ai.New(cmd.Context(), cfg.AI)
			}
			pterm.Info.Printf("Listening on http://%s (provider: %s)\n", cfg.Server.Addr, cfg.AI.Provider)
			return server.New(cfg, suggester).ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: from config)")
	cmd.Flags().BoolVar(&noSuggest, "no-suggest", false, "Disable AI suggestions")
	return cmd
}
