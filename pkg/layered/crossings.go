package layered

import "slices"

// CountCrossings returns the total number of edge crossings between each
// pair of consecutive layers. Edges spanning more than one layer are not
// counted.
func CountCrossings(layers [][]int, out [][]int) int {
	pos := positions(layers)
	crossings := 0
	for i := 0; i+1 < len(layers); i++ {
		crossings += countLayerCrossings(layers[i], layers[i+1], out, pos)
	}
	return crossings
}

// positions maps every box to its index within its layer.
func positions(layers [][]int) map[int]int {
	pos := make(map[int]int)
	for _, l := range layers {
		for i, n := range l {
			pos[n] = i
		}
	}
	return pos
}

// countLayerCrossings counts crossings between two adjacent layers with a
// Fenwick tree. Two edges (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and
// pos(v1) > pos(v2), so the count is the number of inversions in the target
// positions once edges are sorted by source position. Edges in either
// direction between the layers are included.
func countLayerCrossings(upper, lower []int, out [][]int, pos map[int]int) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	inUpper := make(map[int]bool, len(upper))
	for _, n := range upper {
		inUpper[n] = true
	}
	inLower := make(map[int]bool, len(lower))
	for _, n := range lower {
		inLower[n] = true
	}

	type edge struct{ upper, lower int }
	var edges []edge
	for _, u := range upper {
		for _, v := range out[u] {
			if inLower[v] {
				edges = append(edges, edge{pos[u], pos[v]})
			}
		}
	}
	for _, v := range lower {
		for _, u := range out[v] {
			if inUpper[u] {
				edges = append(edges, edge{pos[u], pos[v]})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
