package frame

import (
	"math"

	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/geom"
)

// Options holds the packer's size constants.
type Options struct {
	// LabelBand is the height reserved above the children of a labelled frame.
	LabelBand float64
	// ChildSize replaces zero dimensions of frame children.
	ChildSize geom.Size
	// NodeSize replaces zero dimensions of top-level atomic nodes.
	NodeSize geom.Size
	// EmptyFrame is the body size of a frame without children when the
	// frame declares none.
	EmptyFrame geom.Size
}

// DefaultOptions returns the stock packer constants.
func DefaultOptions() Options {
	return Options{
		LabelBand:  30,
		ChildSize:  geom.Size{Width: 85, Height: 100},
		NodeSize:   geom.Size{Width: 120, Height: 80},
		EmptyFrame: geom.Size{Width: 300, Height: 200},
	}
}

// Child is one entry of a frame's ordered child list.
type Child struct {
	Size geom.Size
	// Position is the declared top-left relative to the frame. Only the
	// free layout reads it.
	Position geom.Point
}

// Packing is the result of sizing one frame.
type Packing struct {
	Size    geom.Size
	Offsets []geom.Point // child top-left relative to the frame, in child order
}

// Pack sizes a frame around its children and places each child relative to
// the frame's top-left. declared is the frame's own size, used only when it
// has no children or uses the free layout. band is the label band height
// (zero for unlabelled frames). Pack is pure: the same inputs always give
// the same Packing.
func Pack(spec *diagram.FrameSpec, declared geom.Size, band float64, children []Child, opts Options) Packing {
	if len(children) == 0 {
		w, h := declared.Width, declared.Height
		if w <= 0 {
			w = opts.EmptyFrame.Width
		}
		if h <= 0 {
			h = opts.EmptyFrame.Height
		}
		return Packing{Size: geom.Size{Width: w, Height: h + band}}
	}

	sizes := make([]geom.Size, len(children))
	for i, c := range children {
		sizes[i] = withDefault(c.Size, opts.ChildSize)
	}

	switch spec.Layout {
	case diagram.LayoutColumn:
		return packColumn(spec, band, sizes)
	case diagram.LayoutGrid:
		return packGrid(spec, band, sizes)
	case diagram.LayoutFree:
		return packFree(spec, declared, band, children, sizes, opts)
	default:
		return packRow(spec, band, sizes)
	}
}

func packRow(spec *diagram.FrameSpec, band float64, sizes []geom.Size) Packing {
	p := spec.Padding
	out := Packing{Offsets: make([]geom.Point, len(sizes))}
	x, maxH := p, 0.0
	for i, s := range sizes {
		out.Offsets[i] = geom.Point{X: x, Y: p + band}
		x += s.Width
		if i < len(sizes)-1 {
			x += spec.Gap
		}
		maxH = math.Max(maxH, s.Height)
	}
	out.Size = geom.Size{Width: x + p, Height: maxH + 2*p + band}
	return out
}

func packColumn(spec *diagram.FrameSpec, band float64, sizes []geom.Size) Packing {
	p := spec.Padding
	out := Packing{Offsets: make([]geom.Point, len(sizes))}
	y, maxW := p+band, 0.0
	for i, s := range sizes {
		out.Offsets[i] = geom.Point{X: p, Y: y}
		y += s.Height
		if i < len(sizes)-1 {
			y += spec.Gap
		}
		maxW = math.Max(maxW, s.Width)
	}
	out.Size = geom.Size{Width: maxW + 2*p, Height: y + p}
	return out
}

// packGrid wraps children every Columns entries. Each row is as tall as its
// tallest child; the frame is as wide as its widest row plus padding.
func packGrid(spec *diagram.FrameSpec, band float64, sizes []geom.Size) Packing {
	p, gap := spec.Padding, spec.Gap
	cols := spec.Columns
	if cols < 1 {
		cols = diagram.DefaultGridColumns
	}
	out := Packing{Offsets: make([]geom.Point, len(sizes))}
	x, y := p, p+band
	rowH, extent := 0.0, 0.0
	for i, s := range sizes {
		if i > 0 && i%cols == 0 {
			x = p
			y += rowH + gap
			rowH = 0
		}
		out.Offsets[i] = geom.Point{X: x, Y: y}
		extent = math.Max(extent, x+s.Width)
		x += s.Width + gap
		rowH = math.Max(rowH, s.Height)
	}
	out.Size = geom.Size{Width: extent + p, Height: y + rowH + p}
	return out
}

// packFree keeps declared child positions where they already lie inside the
// padded interior. Content reaching past the top or left edge is shifted in
// as a whole, and the frame grows right and down to contain it.
func packFree(spec *diagram.FrameSpec, declared geom.Size, band float64, children []Child, sizes []geom.Size, opts Options) Packing {
	p := spec.Padding
	out := Packing{Offsets: make([]geom.Point, len(children))}
	minLeft, minTop := math.Inf(1), math.Inf(1)
	for _, c := range children {
		minLeft = math.Min(minLeft, c.Position.X)
		minTop = math.Min(minTop, c.Position.Y)
	}
	dx := math.Max(0, p-minLeft)
	dy := math.Max(0, p+band-minTop)

	maxRight, maxBottom := 0.0, 0.0
	for i, c := range children {
		o := geom.Point{X: c.Position.X + dx, Y: c.Position.Y + dy}
		out.Offsets[i] = o
		maxRight = math.Max(maxRight, o.X+sizes[i].Width)
		maxBottom = math.Max(maxBottom, o.Y+sizes[i].Height)
	}
	w, h := declared.Width, declared.Height
	if w <= 0 {
		w = opts.EmptyFrame.Width
	}
	if h <= 0 {
		h = opts.EmptyFrame.Height
	}
	out.Size = geom.Size{
		Width:  math.Max(w, maxRight+p),
		Height: math.Max(h+band, maxBottom+p),
	}
	return out
}

func withDefault(s, def geom.Size) geom.Size {
	if s.Width <= 0 {
		s.Width = def.Width
	}
	if s.Height <= 0 {
		s.Height = def.Height
	}
	return s
}
