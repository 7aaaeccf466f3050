package diagram

// Edge is a connection lifted to top-level placement units. From and To are
// node indices of top-level nodes; Conn points back at the connection it came
// from.
type Edge struct {
	Conn       int
	From, To   int
	FromAnchor Anchor
	ToAnchor   Anchor
}

type edgeKey struct {
	from, to   int
	fromAnchor Anchor
	toAnchor   Anchor
}

// Promote rewrites every connection so both endpoints are top-level nodes:
// an endpoint inside a frame is replaced by its outermost enclosing frame.
// Connections naming unknown nodes, self-loops (before or after promotion)
// and exact duplicates of an already promoted edge are dropped.
//
// Anchors are taken as-is; call [Normalize] first to default them.
func Promote(d *Diagram, f *Forest) []Edge {
	seen := make(map[edgeKey]bool, len(d.Connections))
	edges := make([]Edge, 0, len(d.Connections))
	for ci, c := range d.Connections {
		from, ok := f.Index(c.From)
		if !ok {
			continue
		}
		to, ok := f.Index(c.To)
		if !ok {
			continue
		}
		from, to = f.Root(from), f.Root(to)
		if from == to {
			continue
		}
		k := edgeKey{from, to, c.FromAnchor, c.ToAnchor}
		if seen[k] {
			continue
		}
		seen[k] = true
		edges = append(edges, Edge{
			Conn:       ci,
			From:       from,
			To:         to,
			FromAnchor: c.FromAnchor,
			ToAnchor:   c.ToAnchor,
		})
	}
	return edges
}

// Degrees returns the in+out degree of every node slot over edges.
func Degrees(n int, edges []Edge) []int {
	deg := make([]int, n)
	for _, e := range edges {
		deg[e.From]++
		deg[e.To]++
	}
	return deg
}
