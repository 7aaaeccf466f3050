package diagram

// Forest is the containment structure of a diagram, indexed by the
// position of each node in [Diagram.Nodes]. It is built once per run so
// parent and children lookups are O(1).
//
// Malformed containment is tolerated rather than reported: children that
// name unknown ids or the frame itself are skipped, a child claimed by a
// second frame keeps its first parent, and claims that would close a cycle
// are ignored.
type Forest struct {
	index    map[string]int
	parent   []int
	children [][]int
	topLevel []int
}

// NewForest builds the containment forest of d. Nodes with duplicate ids
// after the first are not indexed.
func NewForest(d *Diagram) *Forest {
	n := len(d.Nodes)
	f := &Forest{
		index:    make(map[string]int, n),
		parent:   make([]int, n),
		children: make([][]int, n),
	}
	for i := range d.Nodes {
		f.parent[i] = -1
		if _, dup := f.index[d.Nodes[i].ID]; !dup {
			f.index[d.Nodes[i].ID] = i
		}
	}
	for i := range d.Nodes {
		node := &d.Nodes[i]
		if node.Frame == nil || f.index[node.ID] != i {
			continue
		}
		for _, cid := range node.Frame.Children {
			c, ok := f.index[cid]
			if !ok || c == i || f.parent[c] != -1 || f.isAncestor(c, i) {
				continue
			}
			f.parent[c] = i
			f.children[i] = append(f.children[i], c)
		}
	}
	for i := range d.Nodes {
		if f.parent[i] == -1 && f.index[d.Nodes[i].ID] == i {
			f.topLevel = append(f.topLevel, i)
		}
	}
	return f
}

// Len returns the number of node slots, including unindexed duplicates.
func (f *Forest) Len() int { return len(f.parent) }

// Index returns the node index for id.
func (f *Forest) Index(id string) (int, bool) {
	i, ok := f.index[id]
	return i, ok
}

// Indexed reports whether slot i holds the canonical node for its id.
func (f *Forest) Indexed(i int, d *Diagram) bool {
	j, ok := f.index[d.Nodes[i].ID]
	return ok && j == i
}

// Parent returns the direct parent frame of i, or -1.
func (f *Forest) Parent(i int) int { return f.parent[i] }

// Children returns the ordered children of frame i.
func (f *Forest) Children(i int) []int { return f.children[i] }

// IsChild reports whether i sits inside some frame.
func (f *Forest) IsChild(i int) bool { return f.parent[i] != -1 }

// Root returns the top-level ancestor of i (i itself when top-level).
func (f *Forest) Root(i int) int {
	for f.parent[i] != -1 {
		i = f.parent[i]
	}
	return i
}

// TopLevel returns the top-level nodes in declaration order.
func (f *Forest) TopLevel() []int { return f.topLevel }

// IsDescendant reports whether i lies anywhere inside frame anc.
func (f *Forest) IsDescendant(i, anc int) bool {
	for p := f.parent[i]; p != -1; p = f.parent[p] {
		if p == anc {
			return true
		}
	}
	return false
}

// isAncestor reports whether a is an ancestor of (or equal to) i under the
// links added so far.
func (f *Forest) isAncestor(a, i int) bool {
	for p := i; p != -1; p = f.parent[p] {
		if p == a {
			return true
		}
	}
	return false
}

// PostOrder returns every frame reachable from the top level with each
// frame listed after all frames nested inside it.
func (f *Forest) PostOrder(d *Diagram) []int {
	var out []int
	var visit func(i int)
	visit = func(i int) {
		for _, c := range f.children[i] {
			visit(c)
		}
		if d.Nodes[i].Frame != nil {
			out = append(out, i)
		}
	}
	for _, i := range f.topLevel {
		visit(i)
	}
	return out
}
