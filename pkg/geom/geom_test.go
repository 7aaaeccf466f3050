package geom

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRectsOverlap(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Rect
		clearance float64
		want      bool
	}{
		{"Disjoint", Rect{0, 0, 10, 10}, Rect{20, 0, 10, 10}, 0, false},
		{"Touching", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, 0, false},
		{"Overlapping", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, 0, true},
		{"ClearanceBridgesGap", Rect{0, 0, 10, 10}, Rect{15, 0, 10, 10}, 6, true},
		{"ClearanceTooSmall", Rect{0, 0, 10, 10}, Rect{15, 0, 10, 10}, 5, false},
		{"SameColumnFarApart", Rect{0, 0, 10, 10}, Rect{0, 50, 10, 10}, 20, false},
		{"Nested", Rect{0, 0, 100, 100}, Rect{10, 10, 5, 5}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RectsOverlap(tt.a, tt.b, tt.clearance); got != tt.want {
				t.Errorf("RectsOverlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentIntersectsRect(t *testing.T) {
	r := Rect{10, 10, 20, 20}
	tests := []struct {
		name string
		seg  Segment
		want bool
	}{
		{"HorizontalThrough", Segment{Point{0, 20}, Point{40, 20}}, true},
		{"HorizontalAbove", Segment{Point{0, 5}, Point{40, 5}}, false},
		{"HorizontalOnTopEdge", Segment{Point{0, 10}, Point{40, 10}}, false},
		{"HorizontalStopsShort", Segment{Point{0, 20}, Point{10, 20}}, false},
		{"VerticalThrough", Segment{Point{20, 0}, Point{20, 40}}, true},
		{"VerticalOnRightEdge", Segment{Point{30, 0}, Point{30, 40}}, false},
		{"VerticalEndsInside", Segment{Point{20, 0}, Point{20, 15}}, true},
		{"DiagonalThrough", Segment{Point{0, 0}, Point{40, 40}}, true},
		{"DiagonalMisses", Segment{Point{0, 30}, Point{5, 40}}, false},
		{"DiagonalClipsCorner", Segment{Point{15, 0}, Point{40, 25}}, true},
		{"DiagonalTouchesCorner", Segment{Point{0, 20}, Point{20, 0}}, false},
		{"PointInside", Segment{Point{15, 15}, Point{15, 15}}, true},
		{"PointOnBoundary", Segment{Point{10, 15}, Point{10, 15}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentIntersectsRect(tt.seg, r); got != tt.want {
				t.Errorf("SegmentIntersectsRect(%v) = %v, want %v", tt.seg, got, tt.want)
			}
		})
	}
}

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name   string
		s1, s2 Segment
		want   bool
	}{
		{"Cross", Segment{Point{0, 5}, Point{10, 5}}, Segment{Point{5, 0}, Point{5, 10}}, true},
		{"SharedEndpoint", Segment{Point{0, 0}, Point{10, 0}}, Segment{Point{10, 0}, Point{10, 10}}, false},
		{"TJunction", Segment{Point{0, 5}, Point{10, 5}}, Segment{Point{5, 5}, Point{5, 10}}, false},
		{"Parallel", Segment{Point{0, 0}, Point{10, 0}}, Segment{Point{0, 1}, Point{10, 1}}, false},
		{"Collinear", Segment{Point{0, 0}, Point{10, 0}}, Segment{Point{5, 0}, Point{15, 0}}, false},
		{"Apart", Segment{Point{0, 0}, Point{1, 1}}, Segment{Point{5, 0}, Point{6, -1}}, false},
		{"Diagonals", Segment{Point{0, 0}, Point{10, 10}}, Segment{Point{0, 10}, Point{10, 0}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentsIntersect(tt.s1, tt.s2); got != tt.want {
				t.Errorf("SegmentsIntersect() = %v, want %v", got, tt.want)
			}
			if got := SegmentsIntersect(tt.s2, tt.s1); got != tt.want {
				t.Errorf("SegmentsIntersect() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointInRect(t *testing.T) {
	r := Rect{0, 0, 10, 10}
	if !PointInRect(Point{0, 0}, r) {
		t.Error("corner should be contained")
	}
	if !PointInRect(Point{5, 5}, r) {
		t.Error("center should be contained")
	}
	if PointInRect(Point{11, 5}, r) {
		t.Error("outside point should not be contained")
	}
}

func TestRectHelpers(t *testing.T) {
	r := Rect{10, 20, 30, 40}
	if c := r.Center(); c != (Point{25, 40}) {
		t.Errorf("Center = %v", c)
	}
	if got := r.Inflate(5); got != (Rect{5, 15, 40, 50}) {
		t.Errorf("Inflate = %v", got)
	}
	u := Rect{0, 0, 5, 5}.Union(Rect{10, 10, 5, 5})
	if u != (Rect{0, 0, 15, 15}) {
		t.Errorf("Union = %v", u)
	}
	if !u.Contains(Rect{1, 1, 2, 2}) || u.Contains(Rect{14, 14, 2, 2}) {
		t.Error("Contains mismatch")
	}
}

func TestGeometryProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	coord := gen.Float64Range(-500, 500)
	dim := gen.Float64Range(1, 200)

	properties.Property("overlap is symmetric", prop.ForAll(
		func(ax, ay, aw, bx, by, bw float64) bool {
			a := Rect{ax, ay, aw, aw}
			b := Rect{bx, by, bw, bw}
			return RectsOverlap(a, b, 0) == RectsOverlap(b, a, 0)
		},
		coord, coord, dim, coord, coord, dim,
	))

	properties.Property("clearance only adds overlaps", prop.ForAll(
		func(ax, ay, aw, bx, by, bw float64) bool {
			a := Rect{ax, ay, aw, aw}
			b := Rect{bx, by, bw, bw}
			return !RectsOverlap(a, b, 0) || RectsOverlap(a, b, 20)
		},
		coord, coord, dim, coord, coord, dim,
	))

	properties.Property("segment through center hits rect", prop.ForAll(
		func(x, y, w, h, fx, fy float64) bool {
			r := Rect{x, y, w, h}
			c := r.Center()
			from := Point{c.X + fx, c.Y + fy}
			return SegmentIntersectsRect(Segment{from, c}, r)
		},
		coord, coord, dim, dim, coord, coord,
	))

	properties.Property("crossing is symmetric", prop.ForAll(
		func(a, b, c, d, e, f, g, h float64) bool {
			s1 := Segment{Point{a, b}, Point{c, d}}
			s2 := Segment{Point{e, f}, Point{g, h}}
			return SegmentsIntersect(s1, s2) == SegmentsIntersect(s2, s1)
		},
		coord, coord, coord, coord, coord, coord, coord, coord,
	))

	properties.TestingRun(t)
}
