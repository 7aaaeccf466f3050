package diagram

import (
	"slices"

	"github.com/matzehuels/autolayout/pkg/geom"
)

// Anchor names the side of a node's rectangle a connection attaches to.
type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
	AnchorLeft   Anchor = "left"
	AnchorRight  Anchor = "right"
)

// Anchors lists every valid anchor in a fixed order.
var Anchors = []Anchor{AnchorTop, AnchorBottom, AnchorLeft, AnchorRight}

// Valid reports whether a is one of the four sides.
func (a Anchor) Valid() bool {
	switch a {
	case AnchorTop, AnchorBottom, AnchorLeft, AnchorRight:
		return true
	}
	return false
}

// Horizontal reports whether a sits on a vertical side, so that a path
// leaving it runs along the x axis.
func (a Anchor) Horizontal() bool { return a == AnchorLeft || a == AnchorRight }

// Opposite returns the facing side.
func (a Anchor) Opposite() Anchor {
	switch a {
	case AnchorTop:
		return AnchorBottom
	case AnchorBottom:
		return AnchorTop
	case AnchorLeft:
		return AnchorRight
	case AnchorRight:
		return AnchorLeft
	}
	return a
}

// Direction returns the unit vector pointing away from the node through a.
// Screen coordinates: y grows downward.
func (a Anchor) Direction() (dx, dy float64) {
	switch a {
	case AnchorTop:
		return 0, -1
	case AnchorBottom:
		return 0, 1
	case AnchorLeft:
		return -1, 0
	case AnchorRight:
		return 1, 0
	}
	return 0, 0
}

// Holds reports whether a target centred at to lies on the a side of a
// source centred at from. This is the single anchor-to-inequality mapping:
// an edge's FromAnchor says where its target lies relative to its source.
func (a Anchor) Holds(from, to geom.Point) bool {
	switch a {
	case AnchorTop:
		return to.Y < from.Y
	case AnchorBottom:
		return to.Y > from.Y
	case AnchorLeft:
		return to.X < from.X
	case AnchorRight:
		return to.X > from.X
	}
	return true
}

// Kind discriminates atomic nodes from frames.
type Kind string

const (
	KindAtomic Kind = "atomic"
	KindFrame  Kind = "frame"
)

// LayoutMode selects how a frame arranges its children.
type LayoutMode string

const (
	LayoutRow    LayoutMode = "row"
	LayoutColumn LayoutMode = "column"
	LayoutGrid   LayoutMode = "grid"
	// LayoutFree keeps each child's declared position and grows the frame
	// around them.
	LayoutFree LayoutMode = "free"
)

// Valid reports whether m is a known layout mode.
func (m LayoutMode) Valid() bool {
	switch m {
	case LayoutRow, LayoutColumn, LayoutGrid, LayoutFree:
		return true
	}
	return false
}

// Frame defaults.
const (
	DefaultPadding     = 24
	DefaultGap         = 12
	DefaultGridColumns = 2
)

// FrameSpec holds the data only a frame carries. It is reachable through
// [Node.Frame] and created with [NewFrame], which resolves defaults.
type FrameSpec struct {
	Layout    LayoutMode
	Padding   float64
	Gap       float64
	Columns   int      // grid only
	Children  []string // ordered child node ids
	ShowLabel bool
}

// Clone returns a deep copy of f.
func (f *FrameSpec) Clone() *FrameSpec {
	if f == nil {
		return nil
	}
	c := *f
	c.Children = slices.Clone(f.Children)
	return &c
}

// FrameOption customizes a frame built by [NewFrame].
type FrameOption func(*FrameSpec)

// WithLayout sets the packing mode.
func WithLayout(m LayoutMode) FrameOption { return func(f *FrameSpec) { f.Layout = m } }

// WithPadding sets the inner padding. Zero is allowed.
func WithPadding(p float64) FrameOption { return func(f *FrameSpec) { f.Padding = p } }

// WithGap sets the spacing between children. Zero is allowed.
func WithGap(g float64) FrameOption { return func(f *FrameSpec) { f.Gap = g } }

// WithColumns sets the grid wrap width. Values below 1 keep the default.
func WithColumns(n int) FrameOption {
	return func(f *FrameSpec) {
		if n > 0 {
			f.Columns = n
		}
	}
}

// WithChildren sets the ordered child ids.
func WithChildren(ids ...string) FrameOption {
	return func(f *FrameSpec) { f.Children = slices.Clone(ids) }
}

// WithLabelBand toggles the label band above the children.
func WithLabelBand(show bool) FrameOption { return func(f *FrameSpec) { f.ShowLabel = show } }

// Node is a box on the canvas. A nil Frame makes it atomic.
type Node struct {
	ID    string
	Label string
	// Size of zero means "use the default for this node's role".
	Size geom.Size
	// Position is the caller's current top-left. The engine only reads it
	// for children of free-layout frames.
	Position geom.Point
	Frame    *FrameSpec
}

// Atomic builds a plain node.
func Atomic(id string, w, h float64) Node {
	return Node{ID: id, Size: geom.Size{Width: w, Height: h}}
}

// NewFrame builds a frame node. The label band is shown by default and only
// takes space when label is non-empty.
func NewFrame(id, label string, opts ...FrameOption) Node {
	spec := &FrameSpec{
		Layout:    LayoutRow,
		Padding:   DefaultPadding,
		Gap:       DefaultGap,
		Columns:   DefaultGridColumns,
		ShowLabel: true,
	}
	for _, opt := range opts {
		opt(spec)
	}
	if !spec.Layout.Valid() {
		spec.Layout = LayoutRow
	}
	return Node{ID: id, Label: label, Frame: spec}
}

// Kind reports the node's variant.
func (n *Node) Kind() Kind {
	if n.Frame != nil {
		return KindFrame
	}
	return KindAtomic
}

// IsFrame reports whether n is a frame.
func (n *Node) IsFrame() bool { return n.Frame != nil }

// HasLabelBand reports whether a frame reserves space for its label.
func (n *Node) HasLabelBand() bool {
	return n.Frame != nil && n.Frame.ShowLabel && n.Label != ""
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Connection is a directed, anchor-aware edge.
type Connection struct {
	ID         string
	From       string
	To         string
	FromAnchor Anchor
	ToAnchor   Anchor
}

// Style hints select spacing presets only.
const (
	StyleFlowchart    = "flowchart"
	StyleArchitecture = "architecture"
	StyleRoadmap      = "roadmap"
)

// Styles lists the known style hints.
var Styles = []string{StyleFlowchart, StyleArchitecture, StyleRoadmap}

// Diagram is a snapshot of the caller's graph.
type Diagram struct {
	Nodes       []Node
	Connections []Connection
	Style       string
}

// Clone returns a deep copy so a layout run never mutates caller data.
func (d *Diagram) Clone() *Diagram {
	c := &Diagram{
		Nodes:       make([]Node, len(d.Nodes)),
		Connections: slices.Clone(d.Connections),
		Style:       d.Style,
	}
	for i, n := range d.Nodes {
		n.Frame = n.Frame.Clone()
		c.Nodes[i] = n
	}
	return c
}

// Node returns the first node with the given id.
func (d *Diagram) Node(id string) (*Node, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}
