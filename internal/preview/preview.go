// Package preview rasterizes a laid out crawl graph to a PNG image
package preview

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/nfnt/resize"

	"github.com/v0xg/crawlgraph/internal/config"
	"github.com/v0xg/crawlgraph/internal/errors"
	"github.com/v0xg/crawlgraph/internal/graph"
)

// Options controls the output image
type Options struct {
	Width  int
	Height int
	// NodeRadius is in output pixels
	NodeRadius int
	// Supersample draws at this multiple of the output size and scales down
	Supersample int
	Background  color.RGBA
}

var (
	edgeColor   = color.RGBA{150, 150, 150, 255}
	fallbackHex = parseHex(config.DefaultNodeColor, color.RGBA{211, 211, 211, 255})
)

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1200
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	if o.NodeRadius <= 0 {
		o.NodeRadius = 8
	}
	if o.Supersample <= 0 {
		o.Supersample = 2
	}
	if o.Background.A == 0 {
		o.Background = color.RGBA{255, 255, 255, 255}
	}
	return o
}

// Render draws edges with arrow heads, then vertices in their display colour
func Render(nodes []graph.DisplayNode, edges []graph.DisplayEdge, opts Options) image.Image {
	opts = opts.withDefaults()
	canvas := rasterize(nodes, edges, opts)
	if opts.Supersample == 1 {
		return canvas
	}
	return resize.Resize(uint(opts.Width), uint(opts.Height), canvas, resize.Lanczos3)
}

func rasterize(nodes []graph.DisplayNode, edges []graph.DisplayEdge, opts Options) *image.RGBA {
	ss := opts.Supersample
	w, h := opts.Width*ss, opts.Height*ss
	radius := opts.NodeRadius * ss
	margin := radius * 2

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: opts.Background}, image.Point{}, draw.Src)

	// layout coordinates are in [-1, 1] with y pointing up
	project := func(p graph.Position) (int, int) {
		x := float64(margin) + (p.X+1)/2*float64(w-2*margin)
		y := float64(margin) + (1-p.Y)/2*float64(h-2*margin)
		return int(math.Round(x)), int(math.Round(y))
	}

	at := make(map[string][2]int, len(nodes))
	for _, n := range nodes {
		x, y := project(n.Position)
		at[n.ID] = [2]int{x, y}
	}

	for _, e := range edges {
		from, ok1 := at[e.From]
		to, ok2 := at[e.To]
		if !ok1 || !ok2 || from == to {
			continue
		}
		// stop at the target's rim so the head stays visible
		dx, dy := float64(to[0]-from[0]), float64(to[1]-from[1])
		length := math.Hypot(dx, dy)
		if length <= float64(radius) {
			continue
		}
		tipX := to[0] - int(math.Round(dx/length*float64(radius)))
		tipY := to[1] - int(math.Round(dy/length*float64(radius)))
		drawThickLine(img, from[0], from[1], tipX, tipY, ss, edgeColor)
		drawArrowHead(img, from[0], from[1], tipX, tipY, radius, edgeColor)
	}

	for _, n := range nodes {
		p := at[n.ID]
		fill := parseHex(n.Color, fallbackHex)
		fillCircle(img, p[0], p[1], radius, fill)
		drawRing(img, p[0], p[1], radius, darken(fill, 0.6))
	}
	return img
}

// Thumbnail scales img to width, keeping the aspect ratio
func Thumbnail(img image.Image, width int) image.Image {
	if width <= 0 || width >= img.Bounds().Dx() {
		return img
	}
	return resize.Resize(uint(width), 0, img, resize.Lanczos3)
}

// WritePNG encodes img
func WritePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "encode png")
}
