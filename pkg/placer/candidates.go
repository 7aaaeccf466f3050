package placer

import (
	"math"
	"slices"

	"github.com/matzehuels/autolayout/pkg/board"
	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/geom"
)

// relation is one way box n hangs off an already placed neighbour.
type relation struct {
	neighbor int
	anchor   diagram.Anchor
	outgoing bool // n is the source of the edge
	edge     int
}

// siblings returns the edges of neighbour m that share the relation's anchor
// and orientation, in incidence order.
func siblings(b *board.Board, r relation) []int {
	var out []int
	for _, e := range b.Incident(r.neighbor) {
		ed := b.Edge(e)
		if ed.FromAnchor != r.anchor {
			continue
		}
		// r.outgoing means m is the target of these edges.
		if (ed.To == r.neighbor) == r.outgoing {
			out = append(out, e)
		}
	}
	return out
}

// ideal returns the centre at which box n satisfies relation r exactly, and
// the unit vector from the neighbour towards n.
func (p *Placer) ideal(b *board.Board, n int, r relation) (geom.Point, float64, float64) {
	dx, dy := r.anchor.Direction()
	if r.outgoing {
		// the neighbour is the target; n sits on the opposite side
		dx, dy = -dx, -dy
	}
	ms, ns := b.Box(r.neighbor).Size, b.Box(n).Size

	var along, nAcross float64
	if dx != 0 {
		along, nAcross = (ms.Width+ns.Width)/2, ns.Height
	} else {
		along, nAcross = (ms.Height+ns.Height)/2, ns.Width
	}
	dist := math.Max(p.opts.Gap, along+p.opts.MinLinkGap)

	sib := siblings(b, r)
	idx := slices.Index(sib, r.edge)
	if idx < 0 {
		idx = 0
	}
	unit := math.Max(p.opts.SiblingGap, nAcross+p.opts.Clearance)
	spread := (float64(idx) - float64(len(sib)-1)/2) * unit

	c := b.Center(r.neighbor)
	// spread runs along +x for vertical links and +y for horizontal ones
	px, py := math.Abs(dy), math.Abs(dx)
	return geom.Point{
		X: c.X + dx*dist + px*spread,
		Y: c.Y + dy*dist + py*spread,
	}, dx, dy
}

// relations lists the distinct placed-neighbour relations of n in incidence
// order.
func relations(b *board.Board, n int) []relation {
	var out []relation
	for _, e := range b.Incident(n) {
		ed := b.Edge(e)
		m := ed.Other(n)
		if !b.Placed(m) {
			continue
		}
		r := relation{neighbor: m, anchor: ed.FromAnchor, outgoing: ed.From == n, edge: e}
		dup := false
		for _, o := range out {
			if o.neighbor == r.neighbor && o.anchor == r.anchor && o.outgoing == r.outgoing {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}

// candidates returns top-left positions to try for n, best first.
func (p *Placer) candidates(b *board.Board, n int) []geom.Point {
	rels := relations(b, n)
	if len(rels) == 0 {
		return p.freePositions(b, n)
	}

	size := b.Box(n).Size
	var centers []geom.Point
	for _, r := range rels {
		c, dx, dy := p.ideal(b, n, r)
		centers = append(centers, c)

		sib := siblings(b, r)
		if idx := slices.Index(sib, r.edge); len(sib) > 1 && idx%2 == 1 && p.opts.Stagger > 0 {
			centers = append(centers, c.Add(dx*p.opts.Stagger, dy*p.opts.Stagger))
		}
		centers = append(centers, p.perturb(c)...)
	}

	out := make([]geom.Point, 0, len(centers))
	seen := make(map[geom.Point]bool, len(centers))
	for _, c := range centers {
		tl := c.Add(-size.Width/2, -size.Height/2)
		if seen[tl] {
			continue
		}
		seen[tl] = true
		out = append(out, tl)
	}
	return out
}

// perturb returns the grid of nudged centres around c, nearest first.
func (p *Placer) perturb(c geom.Point) []geom.Point {
	steps := append([]float64{0}, p.opts.Perturbations...)
	out := make([]geom.Point, 0, len(steps)*len(steps))
	for _, fx := range steps {
		for _, fy := range steps {
			if fx == 0 && fy == 0 {
				continue
			}
			out = append(out, c.Add(fx*p.opts.Gap, fy*p.opts.Gap))
		}
	}
	slices.SortStableFunc(out, func(a, b geom.Point) int {
		da := math.Hypot(a.X-c.X, a.Y-c.Y)
		db := math.Hypot(b.X-c.X, b.Y-c.Y)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
	return out
}

// freePositions searches rings around the canvas centre for spots where n
// does not overlap anything placed. The spot right of everything placed is
// always appended last.
func (p *Placer) freePositions(b *board.Board, n int) []geom.Point {
	size := b.Box(n).Size
	var out []geom.Point
	seen := make(map[geom.Point]bool)
	for r := 0; r < p.opts.RingRadii; r++ {
		for k := 0; k < p.opts.RingSteps; k++ {
			a := float64(k) / float64(p.opts.RingSteps) * 2 * math.Pi
			c := geom.Point{
				X: p.opts.Center.X + math.Round(math.Cos(a)*float64(r)*p.opts.Gap),
				Y: p.opts.Center.Y + math.Round(math.Sin(a)*float64(r)*p.opts.Gap),
			}
			tl := c.Add(-size.Width/2, -size.Height/2)
			if seen[tl] || p.collides(b, n, geom.RectAt(tl, size)) {
				continue
			}
			seen[tl] = true
			out = append(out, tl)
		}
	}
	if bounds, ok := b.Bounds(); ok {
		tl := geom.Point{X: bounds.Right() + p.opts.Gap, Y: p.opts.Center.Y - size.Height/2}
		if !seen[tl] {
			out = append(out, tl)
		}
	} else if len(out) == 0 {
		out = append(out, p.opts.Center.Add(-size.Width/2, -size.Height/2))
	}
	return out
}

// collides reports whether r overlaps any placed box other than n.
func (p *Placer) collides(b *board.Board, n int, r geom.Rect) bool {
	for i := 0; i < b.Len(); i++ {
		if i != n && b.Placed(i) && geom.RectsOverlap(r, b.Rect(i), p.opts.Clearance) {
			return true
		}
	}
	return false
}
