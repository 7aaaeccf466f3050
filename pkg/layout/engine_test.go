package layout

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/errors"
	"github.com/matzehuels/autolayout/pkg/geom"
	"github.com/matzehuels/autolayout/pkg/observability"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func link(id, from, to string) diagram.Connection {
	return diagram.Connection{ID: id, From: from, To: to, FromAnchor: diagram.AnchorBottom, ToAnchor: diagram.AnchorTop}
}

func mustLayout(t *testing.T, e *Engine, d *diagram.Diagram) *Result {
	t.Helper()
	res, err := e.Layout(context.Background(), d)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return res
}

func TestLayoutVerticalLink(t *testing.T) {
	d := &diagram.Diagram{
		Nodes:       []diagram.Node{diagram.Atomic("a", 0, 0), diagram.Atomic("b", 0, 0)},
		Connections: []diagram.Connection{link("c1", "a", "b")},
	}
	res := mustLayout(t, newEngine(t), d)

	if res.Strategy != StrategyBacktracking {
		t.Fatalf("Strategy = %s (%s)", res.Strategy, res.Stats.FallbackReason)
	}
	a, b := res.Placements["a"], res.Placements["b"]
	if a != (Placement{X: 540, Y: 235, Width: 120, Height: 80}) {
		t.Errorf("a = %+v", a)
	}
	if b != (Placement{X: 540, Y: 485, Width: 120, Height: 80}) {
		t.Errorf("b = %+v", b)
	}
	if len(res.Routes) != 1 || res.Routes[0].Connection != "c1" {
		t.Errorf("Routes = %+v", res.Routes)
	}
	if d.Nodes[0].Position != (geom.Point{}) {
		t.Error("input diagram was modified")
	}
	if got := res.Diagram.Nodes[1].Position; got != (geom.Point{X: 540, Y: 485}) {
		t.Errorf("result diagram b at %v", got)
	}
}

func TestLayoutFrameRow(t *testing.T) {
	d := &diagram.Diagram{
		Nodes: []diagram.Node{
			diagram.NewFrame("f", "Services", diagram.WithChildren("a", "b")),
			diagram.Atomic("a", 0, 0),
			diagram.Atomic("b", 0, 0),
		},
	}
	res := mustLayout(t, newEngine(t), d)

	f := res.Placements["f"]
	if f.Width != 230 || f.Height != 178 || f.Parent != "" {
		t.Errorf("f = %+v", f)
	}
	tests := []struct {
		id   string
		want Placement
	}{
		{"a", Placement{X: 24, Y: 54, Width: 85, Height: 100, Parent: "f"}},
		{"b", Placement{X: 121, Y: 54, Width: 85, Height: 100, Parent: "f"}},
	}
	for _, tt := range tests {
		if got := res.Placements[tt.id]; got != tt.want {
			t.Errorf("%s = %+v, want %+v", tt.id, got, tt.want)
		}
	}
	abs, ok := res.Absolute("b")
	if !ok || abs.X != f.X+121 || abs.Y != f.Y+54 {
		t.Errorf("Absolute(b) = %v", abs)
	}
}

func TestLayoutSiblings(t *testing.T) {
	d := &diagram.Diagram{
		Nodes: []diagram.Node{diagram.Atomic("a", 0, 0), diagram.Atomic("b", 0, 0), diagram.Atomic("c", 0, 0)},
		Connections: []diagram.Connection{
			link("ab", "a", "b"),
			link("ac", "a", "c"),
		},
	}
	res := mustLayout(t, newEngine(t), d)
	b, c := res.Placements["b"], res.Placements["c"]
	if b.Y != c.Y {
		t.Errorf("b.Y = %v, c.Y = %v", b.Y, c.Y)
	}
	if math.Abs(c.X-b.X) < DefaultConfig().SiblingGap {
		t.Errorf("siblings %v apart", math.Abs(c.X-b.X))
	}
	if res.Stats.Violation != "" {
		t.Errorf("Violation = %s", res.Stats.Violation)
	}
}

func TestLayoutUnrelatedNodeLeavesFrame(t *testing.T) {
	d := &diagram.Diagram{
		Nodes: []diagram.Node{
			diagram.NewFrame("f", "F", diagram.WithChildren("a", "b")),
			diagram.Atomic("a", 0, 0),
			diagram.Atomic("b", 0, 0),
			diagram.Atomic("y", 0, 0),
		},
	}
	res := mustLayout(t, newEngine(t), d)
	if geom.RectsOverlap(res.Placements["y"].Rect(), res.Placements["f"].Rect(), 0) {
		t.Errorf("y %+v overlaps f %+v", res.Placements["y"], res.Placements["f"])
	}
}

func TestLayoutChildEdgeIsPromotedAndAligned(t *testing.T) {
	d := &diagram.Diagram{
		Nodes: []diagram.Node{
			diagram.NewFrame("f", "F", diagram.WithChildren("a", "b")),
			diagram.Atomic("a", 0, 0),
			diagram.Atomic("b", 0, 0),
			diagram.Atomic("x", 0, 0),
		},
		Connections: []diagram.Connection{link("bx", "b", "x")},
	}
	res := mustLayout(t, newEngine(t), d)
	if res.Stats.Edges != 1 || res.Routes[0].From != "f" {
		t.Fatalf("routes = %+v", res.Routes)
	}
	if res.Stats.Aligned != 1 {
		t.Fatalf("Aligned = %d", res.Stats.Aligned)
	}
	bAbs, _ := res.Absolute("b")
	x := res.Placements["x"].Rect()
	if bAbs.Center().X != x.Center().X {
		t.Errorf("x centre %v not under b centre %v", x.Center().X, bAbs.Center().X)
	}
	f := res.Placements["f"].Rect()
	if x.Top()-f.Bottom() != DefaultConfig().ExternalGap {
		t.Errorf("gap below frame = %v", x.Top()-f.Bottom())
	}
}

type fallbackCounter struct {
	observability.NoopLayoutHooks
	fallbacks int
	strategy  string
}

func (h *fallbackCounter) OnFallback(context.Context, string, string) { h.fallbacks++ }

func (h *fallbackCounter) OnLayoutComplete(_ context.Context, _, strategy string, _ time.Duration, _ error) {
	h.strategy = strategy
}

func TestLayoutFallsBackOnContradiction(t *testing.T) {
	d := &diagram.Diagram{
		Nodes: []diagram.Node{diagram.Atomic("a", 0, 0), diagram.Atomic("b", 0, 0)},
		Connections: []diagram.Connection{
			link("ab", "a", "b"),
			link("ba", "b", "a"),
		},
	}
	h := &fallbackCounter{}
	res := mustLayout(t, newEngine(t, WithHooks(h)), d)
	if res.Strategy != StrategyLayered || res.Stats.FallbackReason == "" {
		t.Fatalf("Strategy = %s, reason %q", res.Strategy, res.Stats.FallbackReason)
	}
	if h.fallbacks != 1 || h.strategy != string(StrategyLayered) {
		t.Errorf("hooks saw %d fallbacks, strategy %q", h.fallbacks, h.strategy)
	}
	if geom.RectsOverlap(res.Placements["a"].Rect(), res.Placements["b"].Rect(), 0) {
		t.Error("fallback produced overlap")
	}
}

func TestLayoutToleratesMalformedInput(t *testing.T) {
	d := &diagram.Diagram{
		Nodes: []diagram.Node{diagram.Atomic("a", 0, 0), diagram.Atomic("b", 0, 0)},
		Connections: []diagram.Connection{
			{From: "a", To: "ghost"},
			{From: "a", To: "a"},
			{From: "a", To: "b", FromAnchor: "sideways"},
		},
	}
	res := mustLayout(t, newEngine(t), d)
	if res.Stats.Edges != 1 {
		t.Errorf("Edges = %d, want 1", res.Stats.Edges)
	}
	if res.Placements["b"].Y <= res.Placements["a"].Y {
		t.Error("defaulted bottom anchor not honoured")
	}
}

func TestLayoutEmpty(t *testing.T) {
	res := mustLayout(t, newEngine(t), &diagram.Diagram{})
	if len(res.Placements) != 0 || res.Strategy != StrategyBacktracking {
		t.Errorf("res = %+v", res)
	}
}

func TestLayoutCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newEngine(t).Layout(ctx, &diagram.Diagram{})
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Errorf("err = %v, want CANCELED", err)
	}
}

func TestPackKeepsDeclaredPositions(t *testing.T) {
	f := diagram.NewFrame("f", "", diagram.WithChildren("a"), diagram.WithLayout(diagram.LayoutColumn))
	f.Position = geom.Point{X: 10, Y: 20}
	d := &diagram.Diagram{Nodes: []diagram.Node{f, diagram.Atomic("a", 0, 0)}}
	res, err := newEngine(t).Pack(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	got := res.Placements["f"]
	if got != (Placement{X: 10, Y: 20, Width: 133, Height: 148}) {
		t.Errorf("f = %+v", got)
	}
	if res.Strategy != StrategyPack || len(res.Routes) != 0 {
		t.Errorf("res = %+v", res)
	}
}

func TestLayoutProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	cfg := DefaultConfig()
	cfg.MaxTrials = 2000
	eng, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ids := []string{"n0", "n1", "n2", "n3", "n4", "n5", "n6"}

	build := func(codes []int, framed bool) *diagram.Diagram {
		d := &diagram.Diagram{}
		for _, id := range ids {
			d.Nodes = append(d.Nodes, diagram.Atomic(id, 0, 0))
		}
		if framed {
			d.Nodes = append(d.Nodes, diagram.NewFrame("f", "F", diagram.WithChildren("n5", "n6")))
		}
		for _, c := range codes {
			from, to, a := c%7, (c/7)%7, diagram.Anchors[(c/49)%4]
			d.Connections = append(d.Connections, diagram.Connection{
				From: ids[from], To: ids[to], FromAnchor: a, ToAnchor: a.Opposite(),
			})
		}
		return d
	}
	codes := gen.SliceOfN(6, gen.IntRange(0, 7*7*4-1))

	properties.Property("top-level nodes never overlap and stay centred", prop.ForAll(
		func(codes []int, framed bool) bool {
			res, err := eng.Layout(context.Background(), build(codes, framed))
			if err != nil {
				return false
			}
			var top []geom.Rect
			for _, id := range res.Order {
				if p := res.Placements[id]; p.Parent == "" {
					top = append(top, p.Rect())
				}
			}
			for i := range top {
				for j := i + 1; j < len(top); j++ {
					if geom.RectsOverlap(top[i], top[j], 0) {
						return false
					}
				}
			}
			bounds, _ := res.Bounds()
			c := bounds.Center()
			return math.Abs(c.X-cfg.CenterX) < 1e-6 && math.Abs(c.Y-cfg.CenterY) < 1e-6
		},
		codes, gen.Bool(),
	))

	properties.Property("children stay inside their frame", prop.ForAll(
		func(codes []int) bool {
			res, err := eng.Layout(context.Background(), build(codes, true))
			if err != nil {
				return false
			}
			f := res.Placements["f"].Rect()
			for _, id := range []string{"n5", "n6"} {
				r, ok := res.Absolute(id)
				if !ok || !f.Contains(r) {
					return false
				}
			}
			return true
		},
		codes,
	))

	properties.Property("backtracking results honour every anchor", prop.ForAll(
		func(codes []int) bool {
			res, err := eng.Layout(context.Background(), build(codes, false))
			if err != nil {
				return false
			}
			if res.Strategy != StrategyBacktracking {
				return true
			}
			if res.Stats.Violation != "" {
				return false
			}
			for _, c := range res.Diagram.Connections {
				if c.From == c.To {
					continue
				}
				from, to := res.Placements[c.From].Rect(), res.Placements[c.To].Rect()
				if !c.FromAnchor.Holds(from.Center(), to.Center()) {
					return false
				}
			}
			return true
		},
		codes,
	))

	properties.Property("layout is deterministic", prop.ForAll(
		func(codes []int, framed bool) bool {
			d := build(codes, framed)
			r1, err1 := eng.Layout(context.Background(), d)
			r2, err2 := eng.Layout(context.Background(), d)
			return err1 == nil && err2 == nil &&
				r1.Strategy == r2.Strategy &&
				reflect.DeepEqual(r1.Placements, r2.Placements)
		},
		codes, gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gap = -1
	if _, err := New(cfg); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}
