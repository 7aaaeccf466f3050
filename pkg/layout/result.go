package layout

import (
	"time"

	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/geom"
)

// Strategy names how top-level positions were produced.
type Strategy string

const (
	StrategyBacktracking Strategy = "backtracking"
	StrategyLayered      Strategy = "layered"
	// StrategyPack marks results of [Engine.Pack], which only sizes frames.
	StrategyPack Strategy = "pack"
)

// Placement is the geometry of one node. Top-level nodes carry absolute
// top-left coordinates; children carry coordinates relative to the top-left
// of their direct parent, named by Parent.
type Placement struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Parent string  `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Rect returns the placement as a rectangle in its own coordinate space.
func (p Placement) Rect() geom.Rect { return geom.Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height} }

// Route is the routed path of one promoted connection, in absolute
// coordinates.
type Route struct {
	Connection string       `json:"connection" yaml:"connection"`
	From       string       `json:"from" yaml:"from"` // top-level endpoints after promotion
	To         string       `json:"to" yaml:"to"`
	Points     []geom.Point `json:"points" yaml:"points"`
}

// Stats describes a run.
type Stats struct {
	Nodes      int            `json:"nodes" yaml:"nodes"`
	TopLevel   int            `json:"top_level" yaml:"top_level"`
	Edges      int            `json:"edges" yaml:"edges"` // after promotion
	Seeds      int            `json:"seeds" yaml:"seeds"`
	Trials     int            `json:"trials" yaml:"trials"`
	Backtracks int            `json:"backtracks" yaml:"backtracks"`
	MaxDepth   int            `json:"max_depth" yaml:"max_depth"`
	Rejections map[string]int `json:"rejections,omitempty" yaml:"rejections,omitempty"`
	// FallbackReason is set when the search was abandoned.
	FallbackReason string `json:"fallback_reason,omitempty" yaml:"fallback_reason,omitempty"`
	Direction      string `json:"direction,omitempty" yaml:"direction,omitempty"`
	Crossings      int    `json:"crossings,omitempty" yaml:"crossings,omitempty"`
	Aligned        int    `json:"aligned" yaml:"aligned"`
	// Violation names the first constraint the final board breaks, if any.
	// Backtracking results never break one.
	Violation string        `json:"violation,omitempty" yaml:"violation,omitempty"`
	Duration  time.Duration `json:"duration_ns" yaml:"duration_ns"`
}

// Result is the outcome of a layout run.
type Result struct {
	RunID      string               `json:"run_id" yaml:"run_id"`
	Strategy   Strategy             `json:"strategy" yaml:"strategy"`
	Placements map[string]Placement `json:"placements" yaml:"placements"`
	// Order lists the placed node ids in declaration order.
	Order  []string `json:"order" yaml:"order"`
	Routes []Route  `json:"routes,omitempty" yaml:"routes,omitempty"`
	Stats  Stats    `json:"stats" yaml:"stats"`

	// Diagram is the normalised input with every Position and Size filled
	// in. Child positions are parent-relative.
	Diagram *diagram.Diagram `json:"-" yaml:"-"`
}

// Absolute returns the absolute rectangle of node id by walking the parent
// chain.
func (r *Result) Absolute(id string) (geom.Rect, bool) {
	p, ok := r.Placements[id]
	if !ok {
		return geom.Rect{}, false
	}
	rect := p.Rect()
	for seen := 0; p.Parent != "" && seen < len(r.Placements); seen++ {
		p, ok = r.Placements[p.Parent]
		if !ok {
			return geom.Rect{}, false
		}
		rect = rect.Translate(p.X, p.Y)
	}
	return rect, true
}

// Bounds returns the union of all top-level placements.
func (r *Result) Bounds() (geom.Rect, bool) {
	var out geom.Rect
	found := false
	for _, id := range r.Order {
		p := r.Placements[id]
		if p.Parent != "" {
			continue
		}
		if !found {
			out, found = p.Rect(), true
			continue
		}
		out = out.Union(p.Rect())
	}
	return out, found
}
