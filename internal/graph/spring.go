package graph

import (
	"math"
	"math/rand"
)

const minDistance = 0.01

// springLayout is Fruchterman-Reingold force-directed placement: every pair
// repels with k²/d, neighbours attract with d²/k. Starting positions come
// from opts.Seed so equal inputs give equal layouts. Edge direction is
// ignored.
func springLayout(g *Graph, opts Options) ([][2]float64, error) {
	n := g.Order()
	switch n {
	case 0:
		return nil, nil
	case 1:
		return [][2]float64{{0, 0}}, nil
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	pos := make([][2]float64, n)
	for i := range pos {
		pos[i] = [2]float64{rng.Float64(), rng.Float64()}
	}

	adjacent := make([]map[int]bool, n)
	for i, nbrs := range g.undirected() {
		adjacent[i] = make(map[int]bool, len(nbrs))
		for _, j := range nbrs {
			adjacent[i][j] = true
		}
	}

	k := opts.K
	// initial temperature is a tenth of the starting extent, cooled linearly
	t := 0.1 * extent(pos)
	dt := t / float64(opts.Iterations+1)

	disp := make([][2]float64, n)
	for iter := 0; iter < opts.Iterations; iter++ {
		for i := range disp {
			disp[i] = [2]float64{}
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				dx := pos[i][0] - pos[j][0]
				dy := pos[i][1] - pos[j][1]
				d := math.Max(math.Hypot(dx, dy), minDistance)
				force := k * k / (d * d)
				if adjacent[i][j] {
					force -= d / k
				}
				disp[i][0] += dx * force
				disp[i][1] += dy * force
			}
		}
		for i := 0; i < n; i++ {
			length := math.Max(math.Hypot(disp[i][0], disp[i][1]), minDistance)
			pos[i][0] += disp[i][0] * t / length
			pos[i][1] += disp[i][1] * t / length
		}
		t -= dt
	}

	return rescale(pos), nil
}

func extent(pos [][2]float64) float64 {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pos {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	return math.Max(maxX-minX, maxY-minY)
}
