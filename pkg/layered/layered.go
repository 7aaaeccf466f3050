// Package layered is the fallback placement used when the backtracking
// search gives up. It always succeeds.
//
// Boxes are layered with Kahn's algorithm over the promoted edges, each
// layer is reordered by alternating barycenter sweeps while keeping the
// ordering with the fewest crossings, and coordinates are assigned so that
// layers advance along the primary axis of the chosen [Direction] and boxes
// within a layer are spread along the other axis, centred on the canvas.
// Spacing grows with box size, so frames never overlap their neighbours.
package layered

import (
	"github.com/matzehuels/autolayout/pkg/board"
	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/geom"
)

// Direction is the flow direction of the layers.
type Direction string

const (
	DirectionAuto Direction = "auto"
	TopToBottom   Direction = "TB"
	BottomToTop   Direction = "BT"
	LeftToRight   Direction = "LR"
	RightToLeft   Direction = "RL"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	switch d {
	case DirectionAuto, TopToBottom, BottomToTop, LeftToRight, RightToLeft:
		return true
	}
	return false
}

// Horizontal reports whether layers advance along x.
func (d Direction) Horizontal() bool { return d == LeftToRight || d == RightToLeft }

// Options tunes the fallback.
type Options struct {
	Direction Direction
	// NodeSpacing is the minimum centre distance within a layer.
	NodeSpacing float64
	// RankSpacing is the minimum centre distance between layers.
	RankSpacing float64
	// NodeGap and RankGap are the minimum free space between neighbouring
	// boxes, used when boxes are large enough to beat the spacings.
	NodeGap float64
	RankGap float64
	Sweeps  int
	Center  geom.Point
}

// DefaultOptions returns the stock fallback parameters.
func DefaultOptions() Options {
	return Options{
		Direction:   DirectionAuto,
		NodeSpacing: 150,
		RankSpacing: 250,
		NodeGap:     40,
		RankGap:     80,
		Sweeps:      4,
		Center:      geom.Point{X: 600, Y: 400},
	}
}

// SetDefaults fills zero fields from [DefaultOptions].
func (o *Options) SetDefaults() {
	d := DefaultOptions()
	if !o.Direction.Valid() {
		o.Direction = d.Direction
	}
	if o.NodeSpacing <= 0 {
		o.NodeSpacing = d.NodeSpacing
	}
	if o.RankSpacing <= 0 {
		o.RankSpacing = d.RankSpacing
	}
	if o.NodeGap <= 0 {
		o.NodeGap = d.NodeGap
	}
	if o.RankGap <= 0 {
		o.RankGap = d.RankGap
	}
	if o.Sweeps <= 0 {
		o.Sweeps = d.Sweeps
	}
	if o.Center == (geom.Point{}) {
		o.Center = d.Center
	}
}

// Result describes a finished fallback layout.
type Result struct {
	Direction Direction // resolved, never auto
	Layers    [][]int   // box indices per layer, in final order
	Crossings int       // between adjacent layers
}

// Layout places every box of b, overwriting whatever was placed, and
// commits the board.
func Layout(b *board.Board, opts Options) Result {
	opts.SetDefaults()
	dir := opts.Direction
	if dir == DirectionAuto {
		dir = InferDirection(b.Edges())
	}
	res := Result{Direction: dir}
	if b.Len() == 0 {
		return res
	}

	adj := buildAdjacency(b)
	layers := assignLayers(b.Len(), adj)
	res.Layers, res.Crossings = orderLayers(layers, adj, opts.Sweeps)

	for i, c := range coordinates(b, res.Layers, dir, opts) {
		s := b.Box(i).Size
		b.Place(i, c.Add(-s.Width/2, -s.Height/2))
	}
	b.Commit()
	return res
}

// InferDirection picks a flow from the dominant axis of the edges' source
// anchors: mostly left/right anchors flow horizontally, anything else
// vertically. Within the axis the more common anchor wins, ties going to
// LR or TB.
func InferDirection(edges []board.Edge) Direction {
	var count [4]int
	for _, e := range edges {
		switch e.FromAnchor {
		case diagram.AnchorTop:
			count[0]++
		case diagram.AnchorBottom:
			count[1]++
		case diagram.AnchorLeft:
			count[2]++
		case diagram.AnchorRight:
			count[3]++
		}
	}
	if count[2]+count[3] > count[0]+count[1] {
		if count[2] > count[3] {
			return RightToLeft
		}
		return LeftToRight
	}
	if count[0] > count[1] {
		return BottomToTop
	}
	return TopToBottom
}

// coordinates returns the centre of every box.
func coordinates(b *board.Board, layers [][]int, dir Direction, opts Options) []geom.Point {
	horizontal := dir.Horizontal()
	// along: extent on the layer axis; across: extent within a layer
	extent := func(i int) (along, across float64) {
		s := b.Box(i).Size
		if horizontal {
			return s.Width, s.Height
		}
		return s.Height, s.Width
	}

	thick := make([]float64, len(layers))
	for k, l := range layers {
		for _, n := range l {
			a, _ := extent(n)
			thick[k] = max(thick[k], a)
		}
	}
	primary := make([]float64, len(layers))
	for k := 1; k < len(layers); k++ {
		adv := max(opts.RankSpacing, (thick[k-1]+thick[k])/2+opts.RankGap)
		primary[k] = primary[k-1] + adv
	}
	span := 0.0
	if len(primary) > 0 {
		span = primary[len(primary)-1]
	}

	centers := make([]geom.Point, b.Len())
	for k, l := range layers {
		p := primary[k] - span/2
		if dir == BottomToTop || dir == RightToLeft {
			p = -p
		}

		sec := make([]float64, len(l))
		for i := 1; i < len(l); i++ {
			_, prev := extent(l[i-1])
			_, cur := extent(l[i])
			sec[i] = sec[i-1] + max(opts.NodeSpacing, (prev+cur)/2+opts.NodeGap)
		}
		shift := 0.0
		if len(sec) > 0 {
			shift = sec[len(sec)-1] / 2
		}

		for i, n := range l {
			s := sec[i] - shift
			if horizontal {
				centers[n] = geom.Point{X: opts.Center.X + p, Y: opts.Center.Y + s}
			} else {
				centers[n] = geom.Point{X: opts.Center.X + s, Y: opts.Center.Y + p}
			}
		}
	}
	return centers
}
