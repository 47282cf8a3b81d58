package graph

import (
	"math"
)

const (
	stressIterations = 300
	stressTolerance  = 1e-6
)

// kamadaKawaiLayout places vertices so that euclidean distances follow
// graph-theoretic distances, minimising weighted stress
// Σ d⁻²(‖xᵢ−xⱼ‖ − d)² by localized stress majorization. Distances ignore
// edge direction; vertices in different components are one hop further
// apart than the graph diameter. Starts from the circular layout.
func kamadaKawaiLayout(g *Graph, opts Options) ([][2]float64, error) {
	n := g.Order()
	if n <= 1 {
		return circularLayout(g, opts)
	}

	dist := shortestPaths(g.undirected())
	pos := onCircle(n, 1, 0)

	for iter := 0; iter < stressIterations; iter++ {
		moved := 0.0
		for i := 0; i < n; i++ {
			var num [2]float64
			den := 0.0
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				d := dist[i][j]
				w := 1 / (d * d)
				dx := pos[i][0] - pos[j][0]
				dy := pos[i][1] - pos[j][1]
				norm := math.Hypot(dx, dy)
				if norm < minDistance {
					norm = minDistance
				}
				num[0] += w * (pos[j][0] + d*dx/norm)
				num[1] += w * (pos[j][1] + d*dy/norm)
				den += w
			}
			next := [2]float64{num[0] / den, num[1] / den}
			moved = math.Max(moved, math.Hypot(next[0]-pos[i][0], next[1]-pos[i][1]))
			pos[i] = next
		}
		if moved < stressTolerance {
			break
		}
	}
	return rescale(pos), nil
}

// shortestPaths returns all-pairs hop counts by breadth-first search.
// Unreachable pairs get the largest finite distance plus one.
func shortestPaths(adj [][]int) [][]float64 {
	n := len(adj)
	dist := make([][]float64, n)
	longest := 0.0
	for s := 0; s < n; s++ {
		row := make([]float64, n)
		for i := range row {
			row[i] = -1
		}
		row[s] = 0
		queue := []int{s}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range adj[cur] {
				if row[next] < 0 {
					row[next] = row[cur] + 1
					longest = math.Max(longest, row[next])
					queue = append(queue, next)
				}
			}
		}
		dist[s] = row
	}
	for _, row := range dist {
		for i, d := range row {
			if d < 0 {
				row[i] = longest + 1
			}
		}
	}
	return dist
}
