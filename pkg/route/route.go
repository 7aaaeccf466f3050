// Package route builds orthogonal elbow paths between two anchored boxes.
//
// The path leaves the source at the midpoint of its anchor side, runs a
// fixed stand-off straight out, and then:
//   - for two vertical anchors (top/bottom), turns at the shared mid y,
//     crosses, and descends or climbs into the target;
//   - for two horizontal anchors, does the same around the shared mid x;
//   - for mixed anchors, makes a single perpendicular jog into the target.
//
// Zero-length segments are dropped. Routing is a pure function of its
// inputs, which the constraint checker relies on to cache paths.
package route

import (
	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/geom"
)

// DefaultStandoff is the straight run before the first and after the last turn.
const DefaultStandoff = 20

// Polyline is an ordered list of points joined by straight segments.
type Polyline struct {
	Points []geom.Point
}

// Len returns the number of segments.
func (p Polyline) Len() int {
	if len(p.Points) < 2 {
		return 0
	}
	return len(p.Points) - 1
}

// Segment returns the i-th segment.
func (p Polyline) Segment(i int) geom.Segment {
	return geom.Segment{A: p.Points[i], B: p.Points[i+1]}
}

// Segments returns every segment as a new slice.
func (p Polyline) Segments() []geom.Segment {
	out := make([]geom.Segment, p.Len())
	for i := range out {
		out[i] = p.Segment(i)
	}
	return out
}

// Crosses reports whether any segment of p crosses any segment of q at a
// point interior to both.
func (p Polyline) Crosses(q Polyline) bool {
	for i := 0; i < p.Len(); i++ {
		a := p.Segment(i)
		for j := 0; j < q.Len(); j++ {
			if geom.SegmentsIntersect(a, q.Segment(j)) {
				return true
			}
		}
	}
	return false
}

// Hits reports whether any segment of p passes through the interior of r.
func (p Polyline) Hits(r geom.Rect) bool {
	for i := 0; i < p.Len(); i++ {
		if geom.SegmentIntersectsRect(p.Segment(i), r) {
			return true
		}
	}
	return false
}

// Length returns the total path length.
func (p Polyline) Length() float64 {
	total := 0.0
	for i := 0; i < p.Len(); i++ {
		total += p.Segment(i).Len()
	}
	return total
}

// AnchorPoint returns the midpoint of r's side named by a.
func AnchorPoint(r geom.Rect, a diagram.Anchor) geom.Point {
	c := r.Center()
	switch a {
	case diagram.AnchorTop:
		return geom.Point{X: c.X, Y: r.Top()}
	case diagram.AnchorBottom:
		return geom.Point{X: c.X, Y: r.Bottom()}
	case diagram.AnchorLeft:
		return geom.Point{X: r.Left(), Y: c.Y}
	case diagram.AnchorRight:
		return geom.Point{X: r.Right(), Y: c.Y}
	}
	return c
}

// Route returns the elbow path from the fa side of from to the ta side of to.
func Route(from geom.Rect, fa diagram.Anchor, to geom.Rect, ta diagram.Anchor, standoff float64) Polyline {
	s := AnchorPoint(from, fa)
	e := AnchorPoint(to, ta)
	sdx, sdy := fa.Direction()
	edx, edy := ta.Direction()
	s2 := s.Add(sdx*standoff, sdy*standoff)
	e2 := e.Add(edx*standoff, edy*standoff)

	var pts []geom.Point
	switch {
	case !fa.Horizontal() && !ta.Horizontal():
		midY := (s2.Y + e2.Y) / 2
		pts = []geom.Point{s, s2, {X: s.X, Y: midY}, {X: e.X, Y: midY}, e2, e}
	case fa.Horizontal() && ta.Horizontal():
		midX := (s2.X + e2.X) / 2
		pts = []geom.Point{s, s2, {X: midX, Y: s.Y}, {X: midX, Y: e.Y}, e2, e}
	case !fa.Horizontal():
		pts = []geom.Point{s, s2, {X: s.X, Y: e.Y}, e}
	default:
		pts = []geom.Point{s, s2, {X: e.X, Y: s.Y}, e}
	}
	return Polyline{Points: dedupe(pts)}
}

// dedupe drops consecutive repeated points in place.
func dedupe(pts []geom.Point) []geom.Point {
	out := pts[:1]
	for _, p := range pts[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
