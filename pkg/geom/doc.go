// Package geom is the geometry kernel of the layout engine.
//
// Every function here is pure and allocation-free. Predicates take plain
// values and return booleans.
//
// # Conventions
//
// Rectangles are anchored at their top-left corner with y growing downward,
// matching canvas coordinates. Intersection tests are strict: rectangles that
// merely touch do not overlap, a segment grazing a rectangle's boundary does not
// intersect it, and two segments that share an endpoint do not cross.
// Sibling edges leaving one anchor point therefore never cross.
package geom
