package frame

import (
	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/geom"
)

// Layout holds resolved sizes for every node slot of a diagram and the
// parent-relative offsets of every frame child. Slots are indexed like
// [diagram.Diagram.Nodes].
type Layout struct {
	Sizes   []geom.Size
	Offsets []geom.Point
}

// PackAll resolves the size of every node and packs every frame, innermost
// first, so a nested frame contributes its packed size to its parent.
// Atomic children fall back to opts.ChildSize and top-level atomic nodes to
// opts.NodeSize.
func PackAll(d *diagram.Diagram, f *diagram.Forest, opts Options) *Layout {
	n := len(d.Nodes)
	out := &Layout{
		Sizes:   make([]geom.Size, n),
		Offsets: make([]geom.Point, n),
	}
	for i := range d.Nodes {
		if !f.Indexed(i, d) || d.Nodes[i].IsFrame() {
			continue
		}
		def := opts.NodeSize
		if f.IsChild(i) {
			def = opts.ChildSize
		}
		out.Sizes[i] = withDefault(d.Nodes[i].Size, def)
	}

	for _, fi := range f.PostOrder(d) {
		node := &d.Nodes[fi]
		kids := f.Children(fi)
		children := make([]Child, len(kids))
		for k, c := range kids {
			children[k] = Child{Size: out.Sizes[c], Position: d.Nodes[c].Position}
		}
		band := 0.0
		if node.HasLabelBand() {
			band = opts.LabelBand
		}
		p := Pack(node.Frame, node.Size, band, children, opts)
		out.Sizes[fi] = p.Size
		for k, c := range kids {
			out.Offsets[c] = p.Offsets[k]
		}
	}
	return out
}

// Absolute returns the top-left of slot i given the top-left of every
// top-level node, walking parent offsets up the forest.
func (l *Layout) Absolute(i int, f *diagram.Forest, topLeft func(int) geom.Point) geom.Point {
	var dx, dy float64
	for f.Parent(i) != -1 {
		dx += l.Offsets[i].X
		dy += l.Offsets[i].Y
		i = f.Parent(i)
	}
	return topLeft(i).Add(dx, dy)
}
