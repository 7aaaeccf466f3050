// Package diagram defines the input model of the layout engine: atomic
// nodes, frames that own an ordered list of children, and directed
// connections that attach to a side (anchor) of each endpoint.
//
// # Frames
//
// Frame-only data lives in [FrameSpec], reachable through [Node.Frame] and
// built with [NewFrame]. A nil Frame means the node is atomic.
//
// # Containment and promotion
//
// [NewForest] indexes the parent/children relation once per run. [Promote]
// lifts connections whose endpoints are frame children to the outermost
// frame, since only top-level nodes take part in placement.
//
// # Anchors
//
// An edge's FromAnchor says where its target lies relative to its source:
// bottom means below, right means to the right and so on. [Anchor.Holds] is
// the only place that mapping is written down.
package diagram
