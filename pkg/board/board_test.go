package board

import (
	"testing"

	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/geom"
	"github.com/matzehuels/autolayout/pkg/route"
)

func twoBoxes() *Board {
	boxes := []Box{
		{ID: "a", Size: geom.Size{Width: 120, Height: 80}},
		{ID: "b", Size: geom.Size{Width: 120, Height: 80}},
		{ID: "c", Size: geom.Size{Width: 120, Height: 80}},
	}
	edges := []Edge{{From: 0, To: 1, FromAnchor: diagram.AnchorBottom, ToAnchor: diagram.AnchorTop}}
	return New(boxes, edges, route.DefaultStandoff)
}

func TestPlaceUndo(t *testing.T) {
	b := twoBoxes()
	mark := b.Mark()
	b.Place(0, geom.Point{X: 10, Y: 20})
	b.Place(1, geom.Point{X: 10, Y: 300})
	if b.PlacedCount() != 2 || b.Done() {
		t.Fatalf("PlacedCount = %d", b.PlacedCount())
	}
	b.Move(1, geom.Point{X: 50, Y: 300})
	b.Undo()
	if b.Pos(1) != (geom.Point{X: 10, Y: 300}) || !b.Placed(1) {
		t.Errorf("Undo of Move restored %v placed=%v", b.Pos(1), b.Placed(1))
	}
	b.Rollback(mark)
	if b.PlacedCount() != 0 || b.Placed(0) || b.Placed(1) {
		t.Error("Rollback did not clear placements")
	}
	b.Undo() // empty log is a no-op
}

func TestUnplace(t *testing.T) {
	b := twoBoxes()
	b.Place(2, geom.Point{})
	b.Commit()
	b.Unplace(2)
	if b.Placed(2) || b.PlacedCount() != 0 {
		t.Error("Unplace did not remove box")
	}
	b.Undo()
	if !b.Placed(2) {
		t.Error("Undo of Unplace did not restore box")
	}
}

func TestRouteCache(t *testing.T) {
	b := twoBoxes()
	b.Place(0, geom.Point{X: 0, Y: 0})
	if b.Ready(0) {
		t.Fatal("edge ready with one endpoint")
	}
	b.Place(1, geom.Point{X: 0, Y: 250})
	r1 := b.Route(0)
	if r1.Points[0] != (geom.Point{X: 60, Y: 80}) {
		t.Errorf("route start = %v", r1.Points[0])
	}
	b.Move(1, geom.Point{X: 200, Y: 250})
	r2 := b.Route(0)
	if last := r2.Points[len(r2.Points)-1]; last != (geom.Point{X: 260, Y: 250}) {
		t.Errorf("stale route end = %v", last)
	}
	b.Translate(100, 0)
	r3 := b.Route(0)
	if r3.Points[0] != (geom.Point{X: 160, Y: 80}) {
		t.Errorf("route after translate = %v", r3.Points[0])
	}
}

func TestBounds(t *testing.T) {
	b := twoBoxes()
	if _, ok := b.Bounds(); ok {
		t.Error("empty board has bounds")
	}
	b.Place(0, geom.Point{X: 0, Y: 0})
	b.Place(2, geom.Point{X: 300, Y: 100})
	r, ok := b.Bounds()
	if !ok || r != (geom.Rect{X: 0, Y: 0, W: 420, H: 180}) {
		t.Errorf("Bounds = %v", r)
	}
}

func TestFromDiagram(t *testing.T) {
	d := &diagram.Diagram{
		Nodes: []diagram.Node{
			diagram.Atomic("x", 0, 0),
			diagram.NewFrame("f", "F", diagram.WithChildren("x")),
			diagram.Atomic("y", 0, 0),
		},
		Connections: []diagram.Connection{{From: "y", To: "x"}},
	}
	diagram.Normalize(d)
	f := diagram.NewForest(d)
	sizes := []geom.Size{{Width: 85, Height: 100}, {Width: 133, Height: 178}, {Width: 120, Height: 80}}
	b, boxOf := FromDiagram(d, f, sizes, diagram.Promote(d, f), route.DefaultStandoff)

	if b.Len() != 2 {
		t.Fatalf("Len = %d", b.Len())
	}
	if boxOf[0] != -1 || boxOf[1] != 0 || boxOf[2] != 1 {
		t.Errorf("boxOf = %v", boxOf)
	}
	if !b.Box(0).Frame || b.Box(0).Size.Height != 178 {
		t.Errorf("frame box = %+v", b.Box(0))
	}
	e := b.Edge(0)
	if e.From != 1 || e.To != 0 || e.Other(1) != 0 {
		t.Errorf("edge = %+v", e)
	}
	if len(b.Incident(0)) != 1 || len(b.Incident(1)) != 1 {
		t.Error("incidence not built")
	}
}
