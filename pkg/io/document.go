package io

import (
	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/geom"
)

type document struct {
	Style       string       `json:"style,omitempty" yaml:"style,omitempty"`
	Nodes       []node       `json:"nodes" yaml:"nodes"`
	Connections []connection `json:"connections,omitempty" yaml:"connections,omitempty"`
}

type node struct {
	ID     string  `json:"id" yaml:"id"`
	Label  string  `json:"label,omitempty" yaml:"label,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
	X      float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y      float64 `json:"y,omitempty" yaml:"y,omitempty"`
	Frame  *frame  `json:"frame,omitempty" yaml:"frame,omitempty"`
}

// frame uses pointers where an omitted field must mean "default" rather
// than zero.
type frame struct {
	Layout    string   `json:"layout,omitempty" yaml:"layout,omitempty"`
	Padding   *float64 `json:"padding,omitempty" yaml:"padding,omitempty"`
	Gap       *float64 `json:"gap,omitempty" yaml:"gap,omitempty"`
	Columns   int      `json:"columns,omitempty" yaml:"columns,omitempty"`
	Children  []string `json:"children,omitempty" yaml:"children,omitempty"`
	ShowLabel *bool    `json:"show_label,omitempty" yaml:"show_label,omitempty"`
}

type connection struct {
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	From       string `json:"from" yaml:"from"`
	To         string `json:"to" yaml:"to"`
	FromAnchor string `json:"from_anchor,omitempty" yaml:"from_anchor,omitempty"`
	ToAnchor   string `json:"to_anchor,omitempty" yaml:"to_anchor,omitempty"`
}

func (doc *document) diagram() *diagram.Diagram {
	d := &diagram.Diagram{
		Style:       doc.Style,
		Nodes:       make([]diagram.Node, len(doc.Nodes)),
		Connections: make([]diagram.Connection, len(doc.Connections)),
	}
	for i, n := range doc.Nodes {
		var dn diagram.Node
		if f := n.Frame; f != nil {
			opts := []diagram.FrameOption{
				diagram.WithLayout(diagram.LayoutMode(f.Layout)),
				diagram.WithChildren(f.Children...),
			}
			if f.Padding != nil {
				opts = append(opts, diagram.WithPadding(*f.Padding))
			}
			if f.Gap != nil {
				opts = append(opts, diagram.WithGap(*f.Gap))
			}
			if f.Columns > 0 {
				opts = append(opts, diagram.WithColumns(f.Columns))
			}
			if f.ShowLabel != nil {
				opts = append(opts, diagram.WithLabelBand(*f.ShowLabel))
			}
			dn = diagram.NewFrame(n.ID, n.Label, opts...)
		} else {
			dn = diagram.Atomic(n.ID, 0, 0)
			dn.Label = n.Label
		}
		dn.Size = geom.Size{Width: n.Width, Height: n.Height}
		dn.Position = geom.Point{X: n.X, Y: n.Y}
		d.Nodes[i] = dn
	}
	for i, c := range doc.Connections {
		d.Connections[i] = diagram.Connection{
			ID:         c.ID,
			From:       c.From,
			To:         c.To,
			FromAnchor: diagram.Anchor(c.FromAnchor),
			ToAnchor:   diagram.Anchor(c.ToAnchor),
		}
	}
	return d
}

func fromDiagram(d *diagram.Diagram) *document {
	doc := &document{
		Style:       d.Style,
		Nodes:       make([]node, len(d.Nodes)),
		Connections: make([]connection, len(d.Connections)),
	}
	for i, n := range d.Nodes {
		out := node{
			ID:     n.ID,
			Label:  n.Label,
			Width:  n.Size.Width,
			Height: n.Size.Height,
			X:      n.Position.X,
			Y:      n.Position.Y,
		}
		if f := n.Frame; f != nil {
			padding, gap, show := f.Padding, f.Gap, f.ShowLabel
			out.Frame = &frame{
				Layout:    string(f.Layout),
				Padding:   &padding,
				Gap:       &gap,
				Columns:   f.Columns,
				Children:  f.Children,
				ShowLabel: &show,
			}
		}
		doc.Nodes[i] = out
	}
	for i, c := range d.Connections {
		doc.Connections[i] = connection{
			ID:         c.ID,
			From:       c.From,
			To:         c.To,
			FromAnchor: string(c.FromAnchor),
			ToAnchor:   string(c.ToAnchor),
		}
	}
	return doc
}
