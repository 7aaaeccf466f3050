// Package align nudges external nodes so they line up with the frame
// children they connect to.
//
// For a connection between a node nested in a frame and a top-level node
// outside that frame, the external node is moved so its cross-axis centre
// matches the child's and it sits a fixed gap beyond the frame, on the side
// the connection's from-anchor points to. A move is kept only when the
// constraint checker still accepts the board; otherwise it is undone. The
// pass is best effort and never fails.
package align

import (
	"context"

	"github.com/matzehuels/autolayout/pkg/board"
	"github.com/matzehuels/autolayout/pkg/constraint"
	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/frame"
	"github.com/matzehuels/autolayout/pkg/geom"
	"github.com/matzehuels/autolayout/pkg/observability"
)

// DefaultExternalGap is the distance kept between a frame and an aligned
// external node.
const DefaultExternalGap = 50

// Stats counts what a pass did.
type Stats struct {
	Candidates int // connections eligible for alignment
	Applied    int
	Rejected   int
}

// Aligner runs the post pass.
type Aligner struct {
	Gap     float64
	Checker *constraint.Checker
	Hooks   observability.LayoutHooks
}

// New returns an aligner with the default gap and checker.
func New() *Aligner {
	return &Aligner{
		Gap:     DefaultExternalGap,
		Checker: constraint.New(),
		Hooks:   observability.NoopLayoutHooks{},
	}
}

// Scene is everything a pass needs to know about a placed diagram.
type Scene struct {
	Diagram *diagram.Diagram
	Forest  *diagram.Forest
	Layout  *frame.Layout
	Board   *board.Board
	BoxOf   []int // node slot -> board box, -1 for nested nodes
}

// Align runs one pass over every connection in declaration order and
// commits the board.
func (a *Aligner) Align(ctx context.Context, runID string, s Scene) Stats {
	var st Stats
	hooks := a.Hooks
	if hooks == nil {
		hooks = observability.NoopLayoutHooks{}
	}
	checker := a.Checker
	if checker == nil {
		checker = constraint.New()
	}
	b := s.Board
	topLeft := func(i int) geom.Point { return b.Pos(s.BoxOf[i]) }

	for _, c := range s.Diagram.Connections {
		from, ok1 := s.Forest.Index(c.From)
		to, ok2 := s.Forest.Index(c.To)
		if !ok1 || !ok2 {
			continue
		}
		child, ext, side := from, to, c.FromAnchor
		switch {
		case s.Forest.IsChild(from) && !s.Forest.IsChild(to):
		case !s.Forest.IsChild(from) && s.Forest.IsChild(to):
			child, ext, side = to, from, c.FromAnchor.Opposite()
		default:
			continue
		}
		root := s.Forest.Root(child)
		if ext == root || !side.Valid() {
			continue
		}
		fb, eb := s.BoxOf[root], s.BoxOf[ext]
		if fb < 0 || eb < 0 || !b.Placed(fb) || !b.Placed(eb) {
			continue
		}
		st.Candidates++

		childRect := geom.RectAt(s.Layout.Absolute(child, s.Forest, topLeft), s.Layout.Sizes[child])
		target := a.target(b.Rect(fb), childRect, b.Box(eb).Size, side)
		if target == b.Pos(eb) {
			st.Applied++
			continue
		}

		mark := b.Mark()
		b.Move(eb, target)
		v := checker.Check(b, eb)
		if !v.OK {
			b.Rollback(mark)
			st.Rejected++
		} else {
			st.Applied++
		}
		hooks.OnAlign(ctx, runID, b.Box(eb).ID, v.OK)
	}
	b.Commit()
	return st
}

// target returns the top-left that puts a box of size ext on side of the
// frame, centred on the child along the other axis.
func (a *Aligner) target(fr, child geom.Rect, ext geom.Size, side diagram.Anchor) geom.Point {
	cc := child.Center()
	var c geom.Point
	switch side {
	case diagram.AnchorBottom:
		c = geom.Point{X: cc.X, Y: fr.Bottom() + a.Gap + ext.Height/2}
	case diagram.AnchorTop:
		c = geom.Point{X: cc.X, Y: fr.Top() - a.Gap - ext.Height/2}
	case diagram.AnchorRight:
		c = geom.Point{X: fr.Right() + a.Gap + ext.Width/2, Y: cc.Y}
	case diagram.AnchorLeft:
		c = geom.Point{X: fr.Left() - a.Gap - ext.Width/2, Y: cc.Y}
	}
	return c.Add(-ext.Width/2, -ext.Height/2)
}
