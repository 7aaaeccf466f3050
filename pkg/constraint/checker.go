// Package constraint validates a placement on a [board.Board].
//
// [Checker.Check] runs six rules against the box that just changed,
// cheapest first, and stops at the first violation:
//
//  1. overlap with a placed atomic box, with clearance
//  2. overlap with a placed frame, with clearance, unless the box is a
//     child of that frame
//  3. containment: no partial or full overlap with a frame it does not
//     belong to, without clearance
//  4. direction: every edge touching the box honours its from-anchor
//  5. path vs node: no other edge's route passes through the box, and no
//     route of its own edges passes through another box
//  6. path vs path: no route of its own edges crosses any other route
//
// Edges with an unplaced endpoint are skipped. Each call is linear in the
// number of boxes plus edges for a box of bounded degree.
package constraint

import (
	"github.com/matzehuels/autolayout/pkg/board"
	"github.com/matzehuels/autolayout/pkg/geom"
)

// Rule identifies a constraint.
type Rule int

const (
	RuleNone Rule = iota
	RuleNodeOverlap
	RuleFrameOverlap
	RuleContainment
	RuleDirection
	RulePathThroughNode
	RulePathCrossing
)

var ruleNames = [...]string{
	RuleNone:            "none",
	RuleNodeOverlap:     "node-overlap",
	RuleFrameOverlap:    "frame-overlap",
	RuleContainment:     "containment",
	RuleDirection:       "direction",
	RulePathThroughNode: "path-through-node",
	RulePathCrossing:    "path-crossing",
}

func (r Rule) String() string {
	if r < 0 || int(r) >= len(ruleNames) {
		return "unknown"
	}
	return ruleNames[r]
}

// Verdict is the outcome of a check. When OK is false, Rule names the
// failing constraint. Other is the conflicting box for rules 1-3 and for a
// route of the changed box hitting another box, otherwise the conflicting
// edge.
type Verdict struct {
	OK    bool
	Rule  Rule
	Other int
}

var pass = Verdict{OK: true, Other: -1}

func fail(r Rule, other int) Verdict { return Verdict{Rule: r, Other: other} }

// Defaults for the checker distances.
const (
	DefaultClearance     = 20
	DefaultPathClearance = 15
)

// Checker holds the rule parameters. The zero value has no clearances.
type Checker struct {
	// Clearance inflates the changed box for rules 1 and 2.
	Clearance float64
	// PathClearance inflates boxes for rule 5.
	PathClearance float64
	// ChildOf reports whether box is a declared child of frame. Top-level
	// boxes never are, so nil is fine for boards that only hold top-level
	// boxes.
	ChildOf func(box, frame int) bool
}

// New returns a checker with the default distances.
func New() *Checker {
	return &Checker{Clearance: DefaultClearance, PathClearance: DefaultPathClearance}
}

func (c *Checker) childOf(box, frame int) bool {
	return c.ChildOf != nil && c.ChildOf(box, frame)
}

// Check validates the current position of box changed against every other
// placed box and every routable edge. changed must be placed.
func (c *Checker) Check(b *board.Board, changed int) Verdict {
	r := b.Rect(changed)
	self := b.Box(changed)

	// 1 and 2
	for i := 0; i < b.Len(); i++ {
		if i == changed || !b.Placed(i) {
			continue
		}
		if !geom.RectsOverlap(r, b.Rect(i), c.Clearance) {
			continue
		}
		if !b.Box(i).Frame {
			return fail(RuleNodeOverlap, i)
		}
		if !c.childOf(changed, i) {
			return fail(RuleFrameOverlap, i)
		}
	}

	// 3
	for i := 0; i < b.Len(); i++ {
		if i == changed || !b.Placed(i) {
			continue
		}
		other := b.Box(i)
		switch {
		case other.Frame && !c.childOf(changed, i):
			if geom.RectsOverlap(r, b.Rect(i), 0) {
				return fail(RuleContainment, i)
			}
		case self.Frame && !other.Frame && !c.childOf(i, changed):
			if geom.RectsOverlap(b.Rect(i), r, 0) {
				return fail(RuleContainment, i)
			}
		}
	}

	// 4
	for _, e := range b.Incident(changed) {
		if !b.Ready(e) {
			continue
		}
		ed := b.Edge(e)
		if !ed.FromAnchor.Holds(b.Center(ed.From), b.Center(ed.To)) {
			return fail(RuleDirection, e)
		}
	}

	// 5: other routes through the changed box
	inflated := r.Inflate(c.PathClearance)
	for e, ed := range b.Edges() {
		if ed.From == changed || ed.To == changed || !b.Ready(e) {
			continue
		}
		if b.Route(e).Hits(inflated) {
			return fail(RulePathThroughNode, e)
		}
	}
	// 5: own routes through other boxes
	for _, e := range b.Incident(changed) {
		if !b.Ready(e) {
			continue
		}
		ed := b.Edge(e)
		path := b.Route(e)
		for i := 0; i < b.Len(); i++ {
			if i == ed.From || i == ed.To || !b.Placed(i) {
				continue
			}
			if path.Hits(b.Rect(i).Inflate(c.PathClearance)) {
				return fail(RulePathThroughNode, i)
			}
		}
	}

	// 6
	for _, e := range b.Incident(changed) {
		if !b.Ready(e) {
			continue
		}
		path := b.Route(e)
		for o := range b.Edges() {
			if o == e || !b.Ready(o) {
				continue
			}
			if path.Crosses(b.Route(o)) {
				return fail(RulePathCrossing, o)
			}
		}
	}

	return pass
}

// CheckAll validates every placed box in turn and returns the first
// violation. It is used to audit finished layouts.
func (c *Checker) CheckAll(b *board.Board) Verdict {
	for i := 0; i < b.Len(); i++ {
		if !b.Placed(i) {
			continue
		}
		if v := c.Check(b, i); !v.OK {
			return v
		}
	}
	return pass
}
