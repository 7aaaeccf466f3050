package layered

import "slices"

// orderLayers runs sweeps rounds of barycenter ordering, each a downward
// pass followed by an upward pass, and returns the ordering with the fewest
// crossings seen, including the initial one. Ties keep the earlier ordering.
func orderLayers(layers [][]int, adj adjacency, sweeps int) ([][]int, int) {
	best := cloneLayers(layers)
	bestCross := CountCrossings(best, adj.out)
	cur := cloneLayers(layers)

	for s := 0; s < sweeps && bestCross > 0; s++ {
		for i := 1; i < len(cur); i++ {
			sortByBarycenter(cur[i], cur[i-1], adj.in)
		}
		for i := len(cur) - 2; i >= 0; i-- {
			sortByBarycenter(cur[i], cur[i+1], adj.out)
		}
		if c := CountCrossings(cur, adj.out); c < bestCross {
			best, bestCross = cloneLayers(cur), c
		}
	}
	return best, bestCross
}

// sortByBarycenter reorders layer by the mean position of each box's
// neighbours in the adjacent layer. Boxes without such neighbours keep their
// current index as barycenter.
func sortByBarycenter(layer, adjacent []int, nbrs [][]int) {
	at := make(map[int]int, len(adjacent))
	for i, n := range adjacent {
		at[n] = i
	}
	bary := make(map[int]float64, len(layer))
	for i, n := range layer {
		sum, cnt := 0, 0
		for _, m := range nbrs[n] {
			if p, ok := at[m]; ok {
				sum += p
				cnt++
			}
		}
		if cnt == 0 {
			bary[n] = float64(i)
			continue
		}
		bary[n] = float64(sum) / float64(cnt)
	}
	slices.SortStableFunc(layer, func(a, b int) int {
		switch {
		case bary[a] < bary[b]:
			return -1
		case bary[a] > bary[b]:
			return 1
		}
		return 0
	})
}

func cloneLayers(layers [][]int) [][]int {
	out := make([][]int, len(layers))
	for i, l := range layers {
		out[i] = slices.Clone(l)
	}
	return out
}
