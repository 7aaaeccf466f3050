// Package placer implements the backtracking placement search.
//
// The search seeds a core group of best-connected boxes around the canvas
// centre, then repeatedly picks the unplaced box with the most links to
// placed boxes and tries anchor-derived candidate positions depth first,
// undoing a tentative placement whenever the constraint checker rejects it
// or the subtree below it fails. It ends in one of two states: every box
// placed, or abandoned.
package placer

import (
	"context"

	"github.com/matzehuels/autolayout/pkg/board"
	"github.com/matzehuels/autolayout/pkg/constraint"
	"github.com/matzehuels/autolayout/pkg/geom"
	"github.com/matzehuels/autolayout/pkg/observability"
)

// Status is the terminal state of a search.
type Status int

const (
	AllPlaced Status = iota
	Abandoned
)

func (s Status) String() string {
	if s == AllPlaced {
		return "all-placed"
	}
	return "abandoned"
}

// Reasons a search is abandoned.
const (
	ReasonExhausted = "exhausted"
	ReasonDepth     = "depth"
	ReasonTrials    = "trials"
)

// pollEvery is how many trials pass between context checks.
const pollEvery = 256

// Outcome summarises a search.
type Outcome struct {
	Status     Status
	Reason     string // set when Abandoned
	Seeds      int
	Trials     int
	Backtracks int
	Depth      int // deepest recursion reached
	Rejections map[constraint.Rule]int
}

// Placer runs the search. It is immutable and safe for concurrent use on
// different boards.
type Placer struct {
	opts    Options
	checker *constraint.Checker
	hooks   observability.LayoutHooks
}

// Option configures a [Placer].
type Option func(*Placer)

// WithHooks routes search events to h.
func WithHooks(h observability.LayoutHooks) Option {
	return func(p *Placer) {
		if h != nil {
			p.hooks = h
		}
	}
}

// New returns a placer. Zero option fields take their defaults.
func New(opts Options, checker *constraint.Checker, options ...Option) *Placer {
	opts.SetDefaults()
	if checker == nil {
		checker = constraint.New()
	}
	p := &Placer{opts: opts, checker: checker, hooks: observability.NoopLayoutHooks{}}
	for _, o := range options {
		o(p)
	}
	return p
}

// search is the per-run state.
type search struct {
	*Placer
	ctx   context.Context
	runID string
	b     *board.Board
	out   Outcome
	abort string
}

// Place positions every box of b. On [Abandoned] the board is left with
// whatever the seeding placed; callers replace it wholesale. The only error
// is the context's.
func (p *Placer) Place(ctx context.Context, runID string, b *board.Board) (Outcome, error) {
	s := &search{
		Placer: p,
		ctx:    ctx,
		runID:  runID,
		b:      b,
		out:    Outcome{Rejections: make(map[constraint.Rule]int)},
	}
	if err := ctx.Err(); err != nil {
		return s.out, err
	}
	if b.Len() == 0 {
		return s.out, nil
	}
	s.seed()
	b.Commit()

	ok, err := s.place(0)
	if err != nil {
		return s.out, err
	}
	if !ok {
		s.out.Status = Abandoned
		s.out.Reason = s.abort
		if s.out.Reason == "" {
			s.out.Reason = ReasonExhausted
		}
	}
	return s.out, nil
}

// seed places the core group: the boxes of highest degree, or only the
// first box when nothing is linked. The first is centred on the canvas and
// the rest are offset from an already placed core neighbour. A seed the
// checker rejects is left for the search.
func (s *search) seed() {
	b := s.b
	deg := make([]int, b.Len())
	for _, e := range b.Edges() {
		deg[e.From]++
		deg[e.To]++
	}
	maxDeg := 0
	for _, d := range deg {
		maxDeg = max(maxDeg, d)
	}
	var core []int
	if maxDeg == 0 {
		core = []int{0}
	} else {
		for i, d := range deg {
			if d == maxDeg {
				core = append(core, i)
			}
		}
	}

	for k, n := range core {
		size := b.Box(n).Size
		var c geom.Point
		switch {
		case k == 0:
			c = s.opts.Center
		default:
			if r, ok := s.coreRelation(n, core); ok {
				c, _, _ = s.ideal(b, n, r)
			} else {
				c = s.opts.Center.Add(float64(k)*s.opts.Gap, 0)
			}
		}
		pos := s.shiftPastFrames(n, c.Add(-size.Width/2, -size.Height/2))
		b.Place(n, pos)
		if v := s.checker.Check(b, n); !v.OK {
			s.reject(n, v)
			b.Undo()
			continue
		}
		s.out.Seeds++
	}
}

// coreRelation finds an edge from n to a placed core box.
func (s *search) coreRelation(n int, core []int) (relation, bool) {
	for _, r := range relations(s.b, n) {
		for _, c := range core {
			if c == r.neighbor {
				return r, true
			}
		}
	}
	return relation{}, false
}

// shiftPastFrames moves pos right past any placed frame it would overlap.
func (s *search) shiftPastFrames(n int, pos geom.Point) geom.Point {
	b := s.b
	size := b.Box(n).Size
	for attempt := 0; attempt < s.opts.FrameShiftAttempts; attempt++ {
		moved := false
		for i := 0; i < b.Len(); i++ {
			if i == n || !b.Placed(i) || !b.Box(i).Frame {
				continue
			}
			fr := b.Rect(i)
			if geom.RectsOverlap(geom.RectAt(pos, size), fr, s.opts.Clearance) {
				pos.X = fr.Right() + s.opts.Clearance
				moved = true
				break
			}
		}
		if !moved {
			break
		}
	}
	return pos
}

// next picks the unplaced box with the most edges to placed boxes, ties by
// declaration order.
func (s *search) next() int {
	b := s.b
	best, bestScore := -1, -1
	for i := 0; i < b.Len(); i++ {
		if b.Placed(i) {
			continue
		}
		score := 0
		for _, e := range b.Incident(i) {
			if b.Placed(b.Edge(e).Other(i)) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func (s *search) place(depth int) (bool, error) {
	b := s.b
	if b.Done() {
		return true, nil
	}
	if depth > s.opts.MaxDepth {
		s.abort = ReasonDepth
		return false, nil
	}
	s.out.Depth = max(s.out.Depth, depth)

	n := s.next()
	for _, pos := range s.candidates(b, n) {
		s.out.Trials++
		if s.out.Trials > s.opts.MaxTrials {
			s.abort = ReasonTrials
			return false, nil
		}
		if s.out.Trials%pollEvery == 0 {
			if err := s.ctx.Err(); err != nil {
				return false, err
			}
		}

		mark := b.Mark()
		b.Place(n, pos)
		if v := s.checker.Check(b, n); !v.OK {
			s.reject(n, v)
			b.Rollback(mark)
			continue
		}
		ok, err := s.place(depth + 1)
		if err != nil || ok {
			return ok, err
		}
		b.Rollback(mark)
		if s.abort != "" {
			return false, nil
		}
		s.out.Backtracks++
		s.hooks.OnBacktrack(s.ctx, s.runID, b.Box(n).ID, depth)
	}
	return false, nil
}

func (s *search) reject(n int, v constraint.Verdict) {
	s.out.Rejections[v.Rule]++
	s.hooks.OnCandidateRejected(s.ctx, s.runID, s.b.Box(n).ID, v.Rule.String())
}
