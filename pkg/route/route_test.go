package route

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/geom"
)

func pts(xy ...float64) []geom.Point {
	out := make([]geom.Point, 0, len(xy)/2)
	for i := 0; i < len(xy); i += 2 {
		out = append(out, geom.Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func TestRoute(t *testing.T) {
	a := geom.Rect{X: 0, Y: 0, W: 120, H: 80}
	tests := []struct {
		name   string
		to     geom.Rect
		fa, ta diagram.Anchor
		want   []geom.Point
	}{
		{
			name: "StraightDown",
			to:   geom.Rect{X: 0, Y: 250, W: 120, H: 80},
			fa:   diagram.AnchorBottom, ta: diagram.AnchorTop,
			want: pts(60, 80, 60, 100, 60, 165, 60, 230, 60, 250),
		},
		{
			name: "VerticalElbow",
			to:   geom.Rect{X: 200, Y: 250, W: 120, H: 80},
			fa:   diagram.AnchorBottom, ta: diagram.AnchorTop,
			want: pts(60, 80, 60, 100, 60, 165, 260, 165, 260, 230, 260, 250),
		},
		{
			name: "StraightRight",
			to:   geom.Rect{X: 300, Y: 0, W: 120, H: 80},
			fa:   diagram.AnchorRight, ta: diagram.AnchorLeft,
			want: pts(120, 40, 140, 40, 210, 40, 280, 40, 300, 40),
		},
		{
			name: "MixedVerticalFirst",
			to:   geom.Rect{X: 200, Y: 200, W: 120, H: 80},
			fa:   diagram.AnchorBottom, ta: diagram.AnchorLeft,
			want: pts(60, 80, 60, 100, 60, 240, 200, 240),
		},
		{
			name: "MixedHorizontalFirst",
			to:   geom.Rect{X: 300, Y: 200, W: 120, H: 80},
			fa:   diagram.AnchorRight, ta: diagram.AnchorTop,
			want: pts(120, 40, 140, 40, 360, 40, 360, 200),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Route(a, tt.fa, tt.to, tt.ta, DefaultStandoff)
			if len(got.Points) != len(tt.want) {
				t.Fatalf("Points = %v, want %v", got.Points, tt.want)
			}
			for i := range tt.want {
				if got.Points[i] != tt.want[i] {
					t.Fatalf("Points = %v, want %v", got.Points, tt.want)
				}
			}
		})
	}
}

func TestPolylineCrossesAndHits(t *testing.T) {
	down := Route(geom.Rect{X: 0, Y: 0, W: 120, H: 80}, diagram.AnchorBottom,
		geom.Rect{X: 0, Y: 300, W: 120, H: 80}, diagram.AnchorTop, DefaultStandoff)
	across := Route(geom.Rect{X: -200, Y: 160, W: 120, H: 80}, diagram.AnchorRight,
		geom.Rect{X: 300, Y: 160, W: 120, H: 80}, diagram.AnchorLeft, DefaultStandoff)

	if !down.Crosses(across) || !across.Crosses(down) {
		t.Error("perpendicular routes should cross")
	}

	// Two edges fanning out of the same anchor share their first run.
	left := Route(geom.Rect{X: 0, Y: 0, W: 120, H: 80}, diagram.AnchorBottom,
		geom.Rect{X: -80, Y: 250, W: 120, H: 80}, diagram.AnchorTop, DefaultStandoff)
	right := Route(geom.Rect{X: 0, Y: 0, W: 120, H: 80}, diagram.AnchorBottom,
		geom.Rect{X: 80, Y: 250, W: 120, H: 80}, diagram.AnchorTop, DefaultStandoff)
	if left.Crosses(right) {
		t.Error("siblings from one anchor should not cross")
	}

	if !down.Hits(geom.Rect{X: 40, Y: 150, W: 40, H: 40}) {
		t.Error("route through box not detected")
	}
	if down.Hits(geom.Rect{X: 200, Y: 150, W: 40, H: 40}) {
		t.Error("box beside route reported as hit")
	}
	if down.Length() != 220 {
		t.Errorf("Length = %v, want 220", down.Length())
	}
}

func TestRouteProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	anchor := gen.IntRange(0, 3).Map(func(i int) diagram.Anchor { return diagram.Anchors[i] })
	coord := gen.Float64Range(-1000, 1000)

	properties.Property("routes are orthogonal and end on anchors", prop.ForAll(
		func(x, y float64, fa, ta diagram.Anchor) bool {
			from := geom.Rect{X: 0, Y: 0, W: 120, H: 80}
			to := geom.Rect{X: x, Y: y, W: 120, H: 80}
			p := Route(from, fa, to, ta, DefaultStandoff)
			if p.Points[0] != AnchorPoint(from, fa) || p.Points[len(p.Points)-1] != AnchorPoint(to, ta) {
				return false
			}
			for i := 0; i < p.Len(); i++ {
				s := p.Segment(i)
				if s.A == s.B || !(s.IsHorizontal() || s.IsVertical()) {
					return false
				}
			}
			return true
		},
		coord, coord, anchor, anchor,
	))

	properties.Property("routing is deterministic", prop.ForAll(
		func(x, y float64, fa, ta diagram.Anchor) bool {
			from := geom.Rect{X: 0, Y: 0, W: 120, H: 80}
			to := geom.Rect{X: x, Y: y, W: 85, H: 100}
			a := Route(from, fa, to, ta, DefaultStandoff)
			b := Route(from, fa, to, ta, DefaultStandoff)
			if len(a.Points) != len(b.Points) {
				return false
			}
			for i := range a.Points {
				if a.Points[i] != b.Points[i] {
					return false
				}
			}
			return true
		},
		coord, coord, anchor, anchor,
	))

	properties.TestingRun(t)
}
