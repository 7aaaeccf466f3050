package layered

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/autolayout/pkg/board"
	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/geom"
	"github.com/matzehuels/autolayout/pkg/route"
)

var nodeSize = geom.Size{Width: 120, Height: 80}

func newBoard(n int, pairs ...[2]int) *board.Board {
	boxes := make([]board.Box, n)
	for i := range boxes {
		boxes[i] = board.Box{Node: i, Size: nodeSize}
	}
	edges := make([]board.Edge, len(pairs))
	for i, p := range pairs {
		edges[i] = board.Edge{From: p[0], To: p[1], FromAnchor: diagram.AnchorBottom, ToAnchor: diagram.AnchorTop}
	}
	return board.New(boxes, edges, route.DefaultStandoff)
}

func TestAssignLayers(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
		want  [][]int
	}{
		{"Empty", 0, nil, nil},
		{"Isolated", 2, nil, [][]int{{0, 1}}},
		{"Chain", 3, [][2]int{{0, 1}, {1, 2}}, [][]int{{0}, {1}, {2}}},
		{"LongestPath", 3, [][2]int{{0, 1}, {1, 2}, {0, 2}}, [][]int{{0}, {1}, {2}}},
		{"Diamond", 4, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, [][]int{{0}, {1, 2}, {3}}},
		{"CycleJoinsLastLayer", 4, [][2]int{{0, 1}, {2, 3}, {3, 2}}, [][]int{{0}, {1, 2, 3}}},
		{"AllCyclic", 2, [][2]int{{0, 1}, {1, 0}}, [][]int{{0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssignLayers(newBoard(tt.n, tt.edges...))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AssignLayers = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountCrossings(t *testing.T) {
	out := [][]int{{3}, {2}, nil, nil}
	if got := CountCrossings([][]int{{0, 1}, {2, 3}}, out); got != 1 {
		t.Errorf("crossed = %d, want 1", got)
	}
	if got := CountCrossings([][]int{{0, 1}, {3, 2}}, out); got != 0 {
		t.Errorf("uncrossed = %d, want 0", got)
	}
	// K2,2 always crosses once
	k22 := [][]int{{2, 3}, {2, 3}, nil, nil}
	if got := CountCrossings([][]int{{0, 1}, {2, 3}}, k22); got != 1 {
		t.Errorf("K2,2 = %d, want 1", got)
	}
}

func TestOrderLayersRemovesCrossing(t *testing.T) {
	b := newBoard(4, [2]int{0, 3}, [2]int{1, 2})
	adj := buildAdjacency(b)
	got, cross := orderLayers(assignLayers(4, adj), adj, 4)
	if cross != 0 {
		t.Errorf("crossings = %d, layers %v", cross, got)
	}
	if !reflect.DeepEqual(got, [][]int{{0, 1}, {3, 2}}) {
		t.Errorf("layers = %v", got)
	}
}

func TestInferDirection(t *testing.T) {
	e := func(a diagram.Anchor) board.Edge { return board.Edge{FromAnchor: a} }
	tests := []struct {
		name  string
		edges []board.Edge
		want  Direction
	}{
		{"None", nil, TopToBottom},
		{"Down", []board.Edge{e(diagram.AnchorBottom)}, TopToBottom},
		{"Up", []board.Edge{e(diagram.AnchorTop), e(diagram.AnchorTop), e(diagram.AnchorBottom)}, BottomToTop},
		{"Right", []board.Edge{e(diagram.AnchorRight), e(diagram.AnchorRight), e(diagram.AnchorBottom)}, LeftToRight},
		{"Left", []board.Edge{e(diagram.AnchorLeft)}, RightToLeft},
		{"TieGoesVertical", []board.Edge{e(diagram.AnchorLeft), e(diagram.AnchorBottom)}, TopToBottom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferDirection(tt.edges); got != tt.want {
				t.Errorf("InferDirection = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLayoutDirections(t *testing.T) {
	tests := []struct {
		dir  Direction
		a, b geom.Point // centres
	}{
		{TopToBottom, geom.Point{X: 600, Y: 275}, geom.Point{X: 600, Y: 525}},
		{BottomToTop, geom.Point{X: 600, Y: 525}, geom.Point{X: 600, Y: 275}},
		{LeftToRight, geom.Point{X: 475, Y: 400}, geom.Point{X: 725, Y: 400}},
		{RightToLeft, geom.Point{X: 725, Y: 400}, geom.Point{X: 475, Y: 400}},
	}
	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			b := newBoard(2, [2]int{0, 1})
			opts := DefaultOptions()
			opts.Direction = tt.dir
			res := Layout(b, opts)
			if res.Direction != tt.dir {
				t.Errorf("Direction = %v", res.Direction)
			}
			if b.Center(0) != tt.a || b.Center(1) != tt.b {
				t.Errorf("centres = %v %v, want %v %v", b.Center(0), b.Center(1), tt.a, tt.b)
			}
		})
	}
}

func TestLayoutSpacingGrowsWithFrames(t *testing.T) {
	boxes := []board.Box{
		{Size: geom.Size{Width: 500, Height: 300}, Frame: true},
		{Size: nodeSize},
	}
	b := board.New(boxes, nil, route.DefaultStandoff)
	Layout(b, DefaultOptions())
	gap := b.Rect(1).Left() - b.Rect(0).Right()
	if gap != DefaultOptions().NodeGap {
		t.Errorf("gap between frame and node = %v", gap)
	}
}

func TestLayoutProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	const n = 8
	properties.Property("every box placed without overlap", prop.ForAll(
		func(codes []int, widths []float64, dirIdx int) bool {
			boxes := make([]board.Box, n)
			for i := range boxes {
				boxes[i] = board.Box{Node: i, Size: geom.Size{Width: widths[i], Height: widths[(i+3)%n] / 2}}
			}
			var edges []board.Edge
			for _, c := range codes {
				if from, to := c/n, c%n; from != to {
					edges = append(edges, board.Edge{From: from, To: to, FromAnchor: diagram.AnchorBottom, ToAnchor: diagram.AnchorTop})
				}
			}
			b := board.New(boxes, edges, route.DefaultStandoff)
			opts := DefaultOptions()
			opts.Direction = []Direction{TopToBottom, BottomToTop, LeftToRight, RightToLeft}[dirIdx]
			Layout(b, opts)
			if !b.Done() {
				return false
			}
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					if geom.RectsOverlap(b.Rect(i), b.Rect(j), 0) {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(12, gen.IntRange(0, n*n-1)),
		gen.SliceOfN(n, gen.Float64Range(20, 400)),
		gen.IntRange(0, 3),
	))

	properties.Property("layout is deterministic", prop.ForAll(
		func(codes []int) bool {
			build := func() *board.Board {
				var pairs [][2]int
				for _, c := range codes {
					if c/n != c%n {
						pairs = append(pairs, [2]int{c / n, c % n})
					}
				}
				return newBoard(n, pairs...)
			}
			b1, b2 := build(), build()
			Layout(b1, DefaultOptions())
			Layout(b2, DefaultOptions())
			for i := 0; i < n; i++ {
				if b1.Pos(i) != b2.Pos(i) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(10, gen.IntRange(0, n*n-1)),
	))

	properties.TestingRun(t)
}
