package graph

import (
	"math"

	"github.com/v0xg/crawlgraph/internal/errors"
)

// Layout algorithm names
const (
	LayoutSpring       = "spring"
	LayoutHierarchical = "hierarchical"
	LayoutCircular     = "circular"
	LayoutKamadaKawai  = "kamada_kawai"
	LayoutShell        = "shell"
)

// DefaultLayout is used for unknown names and as the fallback for layouts
// that cannot place a graph
const DefaultLayout = LayoutSpring

// LayoutNames lists the selectable layouts in menu order
var LayoutNames = []string{LayoutSpring, LayoutHierarchical, LayoutCircular, LayoutKamadaKawai, LayoutShell}

// Spring layout parameters
const (
	SpringK          = 0.5
	SpringIterations = 50
)

var (
	// ErrUnknownLayout is reported when the requested name is not a layout
	ErrUnknownLayout = errors.New("unknown layout")
	// ErrNoLayering is reported by the hierarchical layout when no vertex can
	// head a layer, i.e. every vertex has an incoming edge
	ErrNoLayering = errors.New("graph has no root vertex to layer from")
)

// Position is a 2-D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positions maps vertex id to coordinate
type Positions map[string]Position

// Options tunes layout computation. Zero values select the defaults.
type Options struct {
	// Seed drives the initial placement of the spring layout
	Seed int64
	// Iterations caps spring layout iterations
	Iterations int
	// K is the spring layout optimal distance
	K float64
	// Shells partitions vertex ids into concentric shells, innermost first.
	// Vertices not listed go on an extra outer shell.
	Shells [][]string
}

func (o Options) withDefaults() Options {
	if o.Iterations <= 0 {
		o.Iterations = SpringIterations
	}
	if o.K <= 0 {
		o.K = SpringK
	}
	return o
}

// Result is the outcome of a layout request
type Result struct {
	Positions Positions
	// Requested is the name asked for, Used the algorithm that produced
	// Positions
	Requested string
	Used      string
	// FellBack is set when Used differs from Requested; Reason says why
	FellBack bool
	Reason   error
}

type algorithm func(g *Graph, opts Options) ([][2]float64, error)

var algorithms = map[string]algorithm{
	LayoutSpring:       springLayout,
	LayoutHierarchical: hierarchicalLayout,
	LayoutCircular:     circularLayout,
	LayoutKamadaKawai:  kamadaKawaiLayout,
	LayoutShell:        shellLayout,
}

// IsLayout reports whether name is a known layout
func IsLayout(name string) bool {
	_, ok := algorithms[name]
	return ok
}

// Layout computes coordinates for every vertex of g. Unknown names and
// algorithms that fail on this graph fall back to the spring layout; the
// Result records the substitution. Coordinates are centred on the origin
// and scaled into [-1, 1].
func Layout(g *Graph, name string, opts Options) Result {
	opts = opts.withDefaults()
	res := Result{Requested: name, Used: name}

	algo, ok := algorithms[name]
	if !ok {
		res.Used, res.FellBack = DefaultLayout, true
		res.Reason = errors.Wrapf(ErrUnknownLayout, "%q", name)
		algo = algorithms[DefaultLayout]
	}

	coords, err := algo(g, opts)
	if err != nil {
		res.Used, res.FellBack, res.Reason = DefaultLayout, true, err
		// spring never fails
		coords, _ = springLayout(g, opts)
	}

	res.Positions = make(Positions, len(coords))
	for i, v := range g.vertices {
		res.Positions[v.ID] = Position{X: coords[i][0], Y: coords[i][1]}
	}
	return res
}

// rescale centres coordinates on the origin and scales the largest absolute
// component to 1
func rescale(coords [][2]float64) [][2]float64 {
	n := len(coords)
	if n == 0 {
		return coords
	}
	var mean [2]float64
	for _, c := range coords {
		mean[0] += c[0]
		mean[1] += c[1]
	}
	mean[0] /= float64(n)
	mean[1] /= float64(n)

	lim := 0.0
	for i := range coords {
		coords[i][0] -= mean[0]
		coords[i][1] -= mean[1]
		lim = math.Max(lim, math.Max(math.Abs(coords[i][0]), math.Abs(coords[i][1])))
	}
	if lim > 0 {
		for i := range coords {
			coords[i][0] /= lim
			coords[i][1] /= lim
		}
	}
	return coords
}

// onCircle places n points evenly on a circle of the given radius, starting
// at angle offset
func onCircle(n int, radius, offset float64) [][2]float64 {
	coords := make([][2]float64, n)
	for i := range coords {
		theta := offset + 2*math.Pi*float64(i)/float64(n)
		coords[i] = [2]float64{radius * math.Cos(theta), radius * math.Sin(theta)}
	}
	return coords
}
