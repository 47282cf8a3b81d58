package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/v0xg/crawlgraph/internal/errors"
	"github.com/v0xg/crawlgraph/internal/export"
	"github.com/v0xg/crawlgraph/internal/logger"
)

func exportCmd() *cobra.Command {
	var (
		sel    selection
		format string
		output string
	)
	formats := make([]string, len(export.Formats))
	for i, f := range export.Formats {
		formats[i] = string(f)
	}

	cmd := &cobra.Command{
		Use:   "export <crawl.json>",
		Short: "Export the page graph or page table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := sel.load(args[0])
			if err != nil {
				return err
			}
			f := export.Format(format)
			if output == "" {
				output = f.FileName()
			}

			fmt.Printf("→ Writing %s... ", format)
			var buf bytes.Buffer
			if err := export.Write(&buf, f, a.Graph, a.Filter.Nodes, a.Document.Edges); err != nil {
				fmt.Println("failed")
				if errors.Is(err, export.ErrUnknownFormat) {
					return err
				}
				logger.Named("export").Errorw("export failed", "format", format, "error", err)
				return errors.Wrapf(err, "Error generating %s", f.Label())
			}
			if output == "-" {
				fmt.Println("done")
				_, err := os.Stdout.Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				fmt.Println("failed")
				return errors.Wrapf(err, "write %s", output)
			}
			fmt.Println("done")
			fmt.Printf("✓ Saved to %s (%.1f KB)\n", output, float64(buf.Len())/1024)
			return nil
		},
	}
	sel.bind(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatGraphML), "Format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout (default: graph.<ext> or <table>.csv)")
	return cmd
}
