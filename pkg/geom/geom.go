package geom

import "math"

// paramEpsilon is the parametric tolerance used by [SegmentsIntersect] to keep
// shared endpoints from registering as crossings.
const paramEpsilon = 1e-6

// Point is a 2D coordinate in canvas units.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{p.X + dx, p.Y + dy} }

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// IsZero reports whether both dimensions are unset.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// RectAt builds the rectangle of a box of size s whose top-left corner is p.
func RectAt(p Point, s Size) Rect { return Rect{p.X, p.Y, s.Width, s.Height} }

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of r.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// TopLeft returns the anchor corner of r.
func (r Rect) TopLeft() Point { return Point{r.X, r.Y} }

// Inflate grows r by d on every side. Negative d shrinks it.
func (r Rect) Inflate(d float64) Rect {
	return Rect{r.X - d, r.Y - d, r.W + 2*d, r.H + 2*d}
}

// Translate moves r by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{r.X + dx, r.Y + dy, r.W, r.H}
}

// Union returns the smallest rectangle enclosing both r and o.
func (r Rect) Union(o Rect) Rect {
	left := math.Min(r.Left(), o.Left())
	top := math.Min(r.Top(), o.Top())
	right := math.Max(r.Right(), o.Right())
	bottom := math.Max(r.Bottom(), o.Bottom())
	return Rect{left, top, right - left, bottom - top}
}

// Contains reports whether o lies entirely inside r (boundaries inclusive).
func (r Rect) Contains(o Rect) bool {
	return o.Left() >= r.Left() && o.Right() <= r.Right() &&
		o.Top() >= r.Top() && o.Bottom() <= r.Bottom()
}

// Segment is a straight line between two points.
type Segment struct {
	A, B Point
}

// IsHorizontal reports whether s runs along the x axis.
func (s Segment) IsHorizontal() bool { return s.A.Y == s.B.Y }

// IsVertical reports whether s runs along the y axis.
func (s Segment) IsVertical() bool { return s.A.X == s.B.X }

// Len returns the Euclidean length of s.
func (s Segment) Len() float64 { return math.Hypot(s.B.X-s.A.X, s.B.Y-s.A.Y) }

// RectsOverlap reports whether a, inflated by clearance on every side,
// intersects b. Touching edges do not overlap.
func RectsOverlap(a, b Rect, clearance float64) bool {
	return a.Right()+clearance > b.Left() && a.Left()-clearance < b.Right() &&
		a.Bottom()+clearance > b.Top() && a.Top()-clearance < b.Bottom()
}

// PointInRect reports whether p lies inside r, boundary included.
func PointInRect(p Point, r Rect) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// pointInOpenRect is PointInRect with the boundary excluded.
func pointInOpenRect(p Point, r Rect) bool {
	return p.X > r.Left() && p.X < r.Right() && p.Y > r.Top() && p.Y < r.Bottom()
}

// SegmentIntersectsRect reports whether s passes through the interior of r.
// A segment that only runs along or touches the boundary does not intersect.
func SegmentIntersectsRect(s Segment, r Rect) bool {
	minX, maxX := minmax(s.A.X, s.B.X)
	minY, maxY := minmax(s.A.Y, s.B.Y)
	if maxX <= r.Left() || minX >= r.Right() || maxY <= r.Top() || minY >= r.Bottom() {
		return false
	}

	switch {
	case s.IsHorizontal() && s.IsVertical():
		return pointInOpenRect(s.A, r)
	case s.IsHorizontal():
		// bbox test already guarantees strict x overlap
		return s.A.Y > r.Top() && s.A.Y < r.Bottom()
	case s.IsVertical():
		return s.A.X > r.Left() && s.A.X < r.Right()
	}

	// Diagonal: clip against r (Liang–Barsky). A diagonal clipped to positive
	// length cannot lie on the boundary, so its midpoint is interior.
	t0, t1 := 0.0, 1.0
	dx, dy := s.B.X-s.A.X, s.B.Y-s.A.Y
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{s.A.X - r.Left(), r.Right() - s.A.X, s.A.Y - r.Top(), r.Bottom() - s.A.Y}
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	if t1-t0 <= paramEpsilon {
		return false
	}
	mid := (t0 + t1) / 2
	return pointInOpenRect(Point{s.A.X + dx*mid, s.A.Y + dy*mid}, r)
}

// SegmentsIntersect reports whether s1 and s2 cross at a point interior to
// both. Parallel or collinear segments never cross, and neither do segments
// that only meet at an endpoint of either one.
func SegmentsIntersect(s1, s2 Segment) bool {
	d1x, d1y := s1.B.X-s1.A.X, s1.B.Y-s1.A.Y
	d2x, d2y := s2.B.X-s2.A.X, s2.B.Y-s2.A.Y

	cross := d1x*d2y - d1y*d2x
	if math.Abs(cross) < 1e-9 {
		return false
	}

	dx, dy := s2.A.X-s1.A.X, s2.A.Y-s1.A.Y
	t1 := (dx*d2y - dy*d2x) / cross
	t2 := (dx*d1y - dy*d1x) / cross

	return t1 > paramEpsilon && t1 < 1-paramEpsilon &&
		t2 > paramEpsilon && t2 < 1-paramEpsilon
}

func minmax(a, b float64) (float64, float64) {
	if a < b {
		return a, b
	}
	return b, a
}
