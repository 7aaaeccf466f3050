package layered

import "github.com/matzehuels/autolayout/pkg/board"

// adjacency holds the deduplicated neighbour lists of a board's boxes.
type adjacency struct {
	out [][]int
	in  [][]int
}

func buildAdjacency(b *board.Board) adjacency {
	n := b.Len()
	adj := adjacency{out: make([][]int, n), in: make([][]int, n)}
	seen := make(map[[2]int]bool, len(b.Edges()))
	for _, e := range b.Edges() {
		if e.From == e.To {
			continue
		}
		k := [2]int{e.From, e.To}
		if seen[k] {
			continue
		}
		seen[k] = true
		adj.out[e.From] = append(adj.out[e.From], e.To)
		adj.in[e.To] = append(adj.in[e.To], e.From)
	}
	return adj
}

// AssignLayers assigns every box to a layer using a longest-path traversal
// (Kahn's algorithm): sources sit in layer 0 and every other box one below
// its deepest parent. Boxes on a cycle never reach in-degree zero; they are
// appended to the last layer in declaration order.
//
// The result lists box indices per layer, each layer in declaration order.
// It runs in O(V + E).
func AssignLayers(b *board.Board) [][]int {
	return assignLayers(b.Len(), buildAdjacency(b))
}

func assignLayers(n int, adj adjacency) [][]int {
	if n == 0 {
		return nil
	}
	inDegree := make([]int, n)
	rows := make([]int, n)
	done := make([]bool, n)
	queue := make([]int, 0, n)

	for i := 0; i < n; i++ {
		inDegree[i] = len(adj.in[i])
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		done[curr] = true

		for _, child := range adj.out[curr] {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	last := 0
	for i := 0; i < n; i++ {
		if done[i] {
			last = max(last, rows[i])
		}
	}
	layers := make([][]int, last+1)
	for i := 0; i < n; i++ {
		r := last
		if done[i] {
			r = rows[i]
		}
		layers[r] = append(layers[r], i)
	}
	return layers
}
