package graph

import (
	"math"
)

// circularLayout spaces vertices evenly on the unit circle in insertion order
func circularLayout(g *Graph, _ Options) ([][2]float64, error) {
	switch n := g.Order(); n {
	case 0:
		return nil, nil
	case 1:
		return [][2]float64{{0, 0}}, nil
	default:
		return onCircle(n, 1, 0), nil
	}
}

// shellLayout places vertices on concentric circles. Without an explicit
// partition every vertex goes on one shell. A shell holding a single vertex
// in the innermost position sits at the centre.
func shellLayout(g *Graph, opts Options) ([][2]float64, error) {
	n := g.Order()
	if n == 0 {
		return nil, nil
	}

	shells := partitionShells(g, opts.Shells)
	coords := make([][2]float64, n)

	bump := 1 / float64(len(shells))
	radius := bump
	if len(shells[0]) == 1 {
		radius = 0
	}
	rotate := math.Pi / float64(len(shells))

	for s, shell := range shells {
		ring := onCircle(len(shell), radius, rotate*float64(s))
		for i, idx := range shell {
			coords[idx] = ring[i]
		}
		radius += bump
	}
	return coords, nil
}

// partitionShells resolves shell ids to vertex positions. Unknown and
// repeated ids are ignored; unlisted vertices form one more outer shell.
func partitionShells(g *Graph, requested [][]string) [][]int {
	placed := make(map[int]bool, g.Order())
	var shells [][]int
	for _, ids := range requested {
		var shell []int
		for _, id := range ids {
			i, ok := g.index[id]
			if !ok || placed[i] {
				continue
			}
			placed[i] = true
			shell = append(shell, i)
		}
		if len(shell) > 0 {
			shells = append(shells, shell)
		}
	}

	var rest []int
	for i := range g.vertices {
		if !placed[i] {
			rest = append(rest, i)
		}
	}
	if len(rest) > 0 {
		shells = append(shells, rest)
	}
	return shells
}
