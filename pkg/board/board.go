// Package board holds the mutable state of one layout run: the top-level
// boxes being placed, the promoted edges between them, and the routed path
// of every edge whose endpoints are both placed.
//
// Boxes are addressed by dense integer index. Every Place, Move and Unplace
// is recorded in an undo log, so the search can take a [Board.Mark] before
// trying a candidate and [Board.Rollback] to it on failure. Routes are
// cached per edge and recomputed only after an endpoint changes.
//
// A Board is not safe for concurrent use.
package board

import (
	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/geom"
	"github.com/matzehuels/autolayout/pkg/route"
)

// Box is one top-level placement unit.
type Box struct {
	Node  int // slot in diagram.Diagram.Nodes
	ID    string
	Size  geom.Size
	Frame bool
}

// Edge connects two boxes.
type Edge struct {
	Conn       int // index in diagram.Diagram.Connections
	From, To   int
	FromAnchor diagram.Anchor
	ToAnchor   diagram.Anchor
}

// Other returns the endpoint of e that is not b.
func (e Edge) Other(b int) int {
	if e.From == b {
		return e.To
	}
	return e.From
}

type change struct {
	box       int
	pos       geom.Point
	wasPlaced bool
}

// Board is the working arena of a layout run.
type Board struct {
	boxes    []Box
	pos      []geom.Point
	placed   []bool
	nPlaced  int
	edges    []Edge
	incident [][]int
	standoff float64

	routes []route.Polyline
	fresh  []bool

	log []change
}

// New builds a board with every box unplaced.
func New(boxes []Box, edges []Edge, standoff float64) *Board {
	b := &Board{
		boxes:    boxes,
		pos:      make([]geom.Point, len(boxes)),
		placed:   make([]bool, len(boxes)),
		edges:    edges,
		incident: make([][]int, len(boxes)),
		standoff: standoff,
		routes:   make([]route.Polyline, len(edges)),
		fresh:    make([]bool, len(edges)),
	}
	for i, e := range edges {
		b.incident[e.From] = append(b.incident[e.From], i)
		if e.To != e.From {
			b.incident[e.To] = append(b.incident[e.To], i)
		}
	}
	return b
}

// FromDiagram builds a board whose boxes are the top-level nodes of d in
// declaration order. sizes holds the resolved size of every node slot. It
// also returns the box index of every node slot (-1 for non top-level).
func FromDiagram(d *diagram.Diagram, f *diagram.Forest, sizes []geom.Size, promoted []diagram.Edge, standoff float64) (*Board, []int) {
	boxOf := make([]int, len(d.Nodes))
	for i := range boxOf {
		boxOf[i] = -1
	}
	top := f.TopLevel()
	boxes := make([]Box, len(top))
	for bi, ni := range top {
		n := &d.Nodes[ni]
		boxes[bi] = Box{Node: ni, ID: n.ID, Size: sizes[ni], Frame: n.IsFrame()}
		boxOf[ni] = bi
	}
	edges := make([]Edge, len(promoted))
	for i, e := range promoted {
		edges[i] = Edge{
			Conn:       e.Conn,
			From:       boxOf[e.From],
			To:         boxOf[e.To],
			FromAnchor: e.FromAnchor,
			ToAnchor:   e.ToAnchor,
		}
	}
	return New(boxes, edges, standoff), boxOf
}

// Len returns the number of boxes.
func (b *Board) Len() int { return len(b.boxes) }

// Box returns box i.
func (b *Board) Box(i int) Box { return b.boxes[i] }

// Placed reports whether box i has a position.
func (b *Board) Placed(i int) bool { return b.placed[i] }

// PlacedCount returns the number of placed boxes.
func (b *Board) PlacedCount() int { return b.nPlaced }

// Done reports whether every box is placed.
func (b *Board) Done() bool { return b.nPlaced == len(b.boxes) }

// Pos returns the top-left of box i. Meaningless when unplaced.
func (b *Board) Pos(i int) geom.Point { return b.pos[i] }

// Rect returns the rectangle box i would occupy at its current position.
func (b *Board) Rect(i int) geom.Rect { return geom.RectAt(b.pos[i], b.boxes[i].Size) }

// Center returns the centre of box i.
func (b *Board) Center(i int) geom.Point { return b.Rect(i).Center() }

// Place puts box i at top-left p, recording the previous state.
func (b *Board) Place(i int, p geom.Point) {
	b.log = append(b.log, change{box: i, pos: b.pos[i], wasPlaced: b.placed[i]})
	b.set(i, p, true)
}

// Move is Place for a box that is already placed.
func (b *Board) Move(i int, p geom.Point) { b.Place(i, p) }

// Unplace removes box i from the board, recording the previous state.
func (b *Board) Unplace(i int) {
	b.log = append(b.log, change{box: i, pos: b.pos[i], wasPlaced: b.placed[i]})
	b.set(i, b.pos[i], false)
}

// Mark returns a token for [Board.Rollback].
func (b *Board) Mark() int { return len(b.log) }

// Undo reverts the most recent change. It is a no-op on an empty log.
func (b *Board) Undo() {
	if len(b.log) == 0 {
		return
	}
	c := b.log[len(b.log)-1]
	b.log = b.log[:len(b.log)-1]
	b.set(c.box, c.pos, c.wasPlaced)
}

// Rollback reverts every change made after mark.
func (b *Board) Rollback(mark int) {
	for len(b.log) > mark {
		b.Undo()
	}
}

// Commit forgets the undo history.
func (b *Board) Commit() { b.log = b.log[:0] }

func (b *Board) set(i int, p geom.Point, placed bool) {
	if b.placed[i] != placed {
		if placed {
			b.nPlaced++
		} else {
			b.nPlaced--
		}
	}
	b.pos[i] = p
	b.placed[i] = placed
	for _, e := range b.incident[i] {
		b.fresh[e] = false
	}
}

// Edges returns every edge.
func (b *Board) Edges() []Edge { return b.edges }

// Edge returns edge e.
func (b *Board) Edge(e int) Edge { return b.edges[e] }

// Incident returns the indices of edges touching box i.
func (b *Board) Incident(i int) []int { return b.incident[i] }

// Ready reports whether both endpoints of edge e are placed.
func (b *Board) Ready(e int) bool {
	return b.placed[b.edges[e].From] && b.placed[b.edges[e].To]
}

// Route returns the routed path of edge e. Only valid when [Board.Ready].
func (b *Board) Route(e int) route.Polyline {
	if !b.fresh[e] {
		ed := b.edges[e]
		b.routes[e] = route.Route(b.Rect(ed.From), ed.FromAnchor, b.Rect(ed.To), ed.ToAnchor, b.standoff)
		b.fresh[e] = true
	}
	return b.routes[e]
}

// Bounds returns the union of all placed rectangles.
func (b *Board) Bounds() (geom.Rect, bool) {
	var out geom.Rect
	found := false
	for i := range b.boxes {
		if !b.placed[i] {
			continue
		}
		if !found {
			out, found = b.Rect(i), true
			continue
		}
		out = out.Union(b.Rect(i))
	}
	return out, found
}

// Translate shifts every placed box by (dx, dy) without touching the undo
// log.
func (b *Board) Translate(dx, dy float64) {
	for i := range b.boxes {
		if b.placed[i] {
			b.pos[i] = b.pos[i].Add(dx, dy)
		}
	}
	for i := range b.fresh {
		b.fresh[i] = false
	}
}
