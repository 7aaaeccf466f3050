// Package layout is the entry point of the auto-layout engine.
//
// An [Engine] takes a [diagram.Diagram] and returns a [Result] with the
// position and size of every node:
//
//  1. Frames are packed innermost first, fixing every frame size and every
//     child offset.
//  2. Connections are promoted to top-level endpoints and the top-level
//     nodes are placed by the backtracking search, consulting the
//     constraint checker and the orthogonal router.
//  3. If the search is abandoned, the layered fallback replaces its partial
//     result wholesale.
//  4. External nodes linked to frame children are aligned with them where
//     the checker allows it.
//  5. Everything is translated so the bounding box is centred on the
//     configured canvas centre.
//
// # Usage
//
//	eng, err := layout.New(layout.ForStyle("flowchart"), layout.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	res, err := eng.Layout(ctx, d)
//
// Malformed graphs never fail: unknown endpoints, self-loops and containment
// mistakes are dropped. Errors are returned only for an invalid [Config] and
// for context cancellation.
//
// An Engine is immutable and safe for concurrent use; every call works on
// its own copy of the diagram.
package layout

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/autolayout/pkg/align"
	"github.com/matzehuels/autolayout/pkg/board"
	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/errors"
	"github.com/matzehuels/autolayout/pkg/frame"
	"github.com/matzehuels/autolayout/pkg/layered"
	"github.com/matzehuels/autolayout/pkg/observability"
	"github.com/matzehuels/autolayout/pkg/placer"
)

// Engine runs layouts with a fixed configuration.
type Engine struct {
	cfg    Config
	logger *log.Logger
	hooks  observability.LayoutHooks // nil means the global registry
}

// Option configures an [Engine].
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithHooks routes trace events to h instead of the global
// [observability.Layout] hooks.
func WithHooks(h observability.LayoutHooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// New validates cfg after filling its zero fields and returns an engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) traceHooks() observability.LayoutHooks {
	h := e.hooks
	if h == nil {
		h = observability.Layout()
	}
	return observability.MultiLayoutHooks{h, LogHooks{Logger: e.logger}}
}

// run is the state shared by the stages of one call.
type run struct {
	id     string
	d      *diagram.Diagram
	forest *diagram.Forest
	lay    *frame.Layout
	edges  []diagram.Edge
	board  *board.Board
	boxOf  []int
}

func (e *Engine) prepare(d *diagram.Diagram) *run {
	r := &run{id: uuid.NewString(), d: d.Clone()}
	diagram.Normalize(r.d)
	r.forest = diagram.NewForest(r.d)
	r.lay = frame.PackAll(r.d, r.forest, e.cfg.frameOptions())
	r.edges = diagram.Promote(r.d, r.forest)
	r.board, r.boxOf = board.FromDiagram(r.d, r.forest, r.lay.Sizes, r.edges, e.cfg.Standoff)
	return r
}

// Layout computes positions for every node of d. d is not modified.
func (e *Engine) Layout(ctx context.Context, d *diagram.Diagram) (res *Result, err error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.FromContext(err)
	}
	start := time.Now()
	hooks := e.traceHooks()
	r := e.prepare(d)
	b := r.board

	hooks.OnLayoutStart(ctx, r.id, len(r.d.Nodes), len(r.edges))
	strategy := StrategyBacktracking
	defer func() {
		hooks.OnLayoutComplete(ctx, r.id, string(strategy), time.Since(start), err)
	}()

	stats := Stats{Nodes: len(r.d.Nodes), TopLevel: b.Len(), Edges: len(r.edges)}

	checker := e.cfg.checker()
	pl := placer.New(e.cfg.placerOptions(), checker, placer.WithHooks(hooks))
	out, err := pl.Place(ctx, r.id, b)
	if err != nil {
		return nil, errors.FromContext(err)
	}
	stats.Seeds = out.Seeds
	stats.Trials = out.Trials
	stats.Backtracks = out.Backtracks
	stats.MaxDepth = out.Depth
	if len(out.Rejections) > 0 {
		stats.Rejections = make(map[string]int, len(out.Rejections))
		for rule, n := range out.Rejections {
			stats.Rejections[rule.String()] = n
		}
	}

	if out.Status == placer.Abandoned {
		strategy = StrategyLayered
		stats.FallbackReason = out.Reason
		hooks.OnFallback(ctx, r.id, out.Reason)
		fb := layered.Layout(b, e.cfg.layeredOptions())
		stats.Direction = string(fb.Direction)
		stats.Crossings = fb.Crossings
	}

	if !e.cfg.SkipAlign {
		al := &align.Aligner{Gap: e.cfg.ExternalGap, Checker: checker, Hooks: hooks}
		st := al.Align(ctx, r.id, align.Scene{
			Diagram: r.d,
			Forest:  r.forest,
			Layout:  r.lay,
			Board:   b,
			BoxOf:   r.boxOf,
		})
		stats.Aligned = st.Applied
	}

	e.center(b)
	if v := checker.CheckAll(b); !v.OK {
		stats.Violation = v.Rule.String()
	}
	stats.Duration = time.Since(start)

	res = e.collect(r, strategy, stats)
	e.logger.Info("layout complete",
		"nodes", stats.Nodes,
		"strategy", strategy,
		"trials", stats.Trials,
		"duration", stats.Duration)
	return res, nil
}

// center translates the board so the bounding box centre lands on the
// configured canvas centre.
func (e *Engine) center(b *board.Board) {
	bounds, ok := b.Bounds()
	if !ok {
		return
	}
	c := bounds.Center()
	b.Translate(e.cfg.CenterX-c.X, e.cfg.CenterY-c.Y)
}

// Pack sizes every frame and positions every child without moving
// top-level nodes, which keep their declared positions.
func (e *Engine) Pack(ctx context.Context, d *diagram.Diagram) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.FromContext(err)
	}
	start := time.Now()
	r := e.prepare(d)
	for bi := 0; bi < r.board.Len(); bi++ {
		r.board.Place(bi, r.d.Nodes[r.board.Box(bi).Node].Position)
	}
	r.board.Commit()
	stats := Stats{
		Nodes:    len(r.d.Nodes),
		TopLevel: r.board.Len(),
		Edges:    len(r.edges),
		Duration: time.Since(start),
	}
	return e.collect(r, StrategyPack, stats), nil
}

// collect reads the board back into a Result and writes positions and sizes
// into the run's diagram copy.
func (e *Engine) collect(r *run, strategy Strategy, stats Stats) *Result {
	res := &Result{
		RunID:      r.id,
		Strategy:   strategy,
		Placements: make(map[string]Placement, len(r.d.Nodes)),
		Stats:      stats,
		Diagram:    r.d,
	}
	for i := range r.d.Nodes {
		if !r.forest.Indexed(i, r.d) {
			continue
		}
		n := &r.d.Nodes[i]
		size := r.lay.Sizes[i]
		pl := Placement{Width: size.Width, Height: size.Height}
		if bi := r.boxOf[i]; bi >= 0 {
			p := r.board.Pos(bi)
			pl.X, pl.Y = p.X, p.Y
		} else {
			off := r.lay.Offsets[i]
			pl.X, pl.Y = off.X, off.Y
			pl.Parent = r.d.Nodes[r.forest.Parent(i)].ID
		}
		n.Position.X, n.Position.Y = pl.X, pl.Y
		n.Size = size
		res.Placements[n.ID] = pl
		res.Order = append(res.Order, n.ID)
	}
	if strategy == StrategyPack {
		return res
	}
	for ei, ed := range r.board.Edges() {
		if !r.board.Ready(ei) {
			continue
		}
		res.Routes = append(res.Routes, Route{
			Connection: r.d.Connections[ed.Conn].ID,
			From:       r.board.Box(ed.From).ID,
			To:         r.board.Box(ed.To).ID,
			Points:     r.board.Route(ei).Points,
		})
	}
	return res
}
