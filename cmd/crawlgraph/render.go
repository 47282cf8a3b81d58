package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/v0xg/crawlgraph/internal/errors"
	"github.com/v0xg/crawlgraph/internal/preview"
)

func renderCmd() *cobra.Command {
	var (
		sel       selection
		output    string
		width     int
		height    int
		thumbnail int
	)
	cmd := &cobra.Command{
		Use:   "render <crawl.json>",
		Short: "Draw the laid out page graph as a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := sel.load(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("→ Rendering %dx%d... ", width, height)
			img := preview.Render(a.Nodes, a.Edges, preview.Options{Width: width, Height: height})
			if thumbnail > 0 {
				img = preview.Thumbnail(img, thumbnail)
			}

			f, err := os.Create(output)
			if err != nil {
				fmt.Println("failed")
				return errors.Wrapf(err, "create %s", output)
			}
			defer f.Close()
			if err := preview.WritePNG(f, img); err != nil {
				fmt.Println("failed")
				return err
			}
			fmt.Println("done")
			fmt.Printf("✓ Saved to %s\n", output)
			return nil
		},
	}
	sel.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "graph.png", "Output filename")
	cmd.Flags().IntVar(&width, "width", 1200, "Image width")
	cmd.Flags().IntVar(&height, "height", 800, "Image height")
	cmd.Flags().IntVar(&thumbnail, "thumbnail", 0, "Scale the image down to this width")
	return cmd
}
