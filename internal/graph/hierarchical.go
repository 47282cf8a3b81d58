package graph

import (
	"sort"
)

// hierarchicalLayout stacks vertices in layers, top to bottom, by their
// breadth-first distance from the root vertices (those without incoming
// edges). Vertices unreachable from any root start a new descent from
// themselves. Within a layer vertices are ordered by the mean x of their
// parents in the layer above. A graph with no root cannot be layered.
func hierarchicalLayout(g *Graph, _ Options) ([][2]float64, error) {
	n := g.Order()
	if n == 0 {
		return nil, nil
	}

	succ, pred := g.adjacency()

	layer := make([]int, n)
	for i := range layer {
		layer[i] = -1
	}

	var queue []int
	for i := 0; i < n; i++ {
		if len(pred[i]) == 0 {
			layer[i] = 0
			queue = append(queue, i)
		}
	}
	if len(queue) == 0 {
		return nil, ErrNoLayering
	}

	descend := func(queue []int) {
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range succ[cur] {
				if layer[next] == -1 {
					layer[next] = layer[cur] + 1
					queue = append(queue, next)
				}
			}
		}
	}
	descend(queue)
	for i := 0; i < n; i++ {
		if layer[i] == -1 {
			layer[i] = 0
			descend([]int{i})
		}
	}

	depth := 0
	for _, l := range layer {
		if l > depth {
			depth = l
		}
	}
	layers := make([][]int, depth+1)
	for i, l := range layer {
		layers[l] = append(layers[l], i)
	}

	coords := make([][2]float64, n)
	for l, members := range layers {
		if l > 0 {
			sortByParents(members, pred, coords)
		}
		width := float64(len(members) - 1)
		for slot, idx := range members {
			coords[idx] = [2]float64{float64(slot) - width/2, -float64(l)}
		}
	}
	return rescale(coords), nil
}

func sortByParents(members []int, pred [][]int, coords [][2]float64) {
	key := make(map[int]float64, len(members))
	for _, idx := range members {
		sum, count := 0.0, 0
		for _, p := range pred[idx] {
			sum += coords[p][0]
			count++
		}
		if count > 0 {
			key[idx] = sum / float64(count)
		}
	}
	sort.SliceStable(members, func(a, b int) bool {
		return key[members[a]] < key[members[b]]
	})
}
