// Package preview renders layout results to SVG through Graphviz.
//
// Graphviz is used purely as a drawing backend: every node is pinned at the
// position the engine chose and every route bend becomes an invisible
// pinned point, so the picture shows exactly what the engine computed.
// Frames are emitted before their children so children are drawn on top.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/autolayout/pkg/layout"
)

// Options configures a preview.
type Options struct {
	// Labels draws node labels. Without it nodes are drawn empty.
	Labels bool
	// Routes draws the routed connections.
	Routes bool
}

// DefaultOptions draws labels and routes.
func DefaultOptions() Options { return Options{Labels: true, Routes: true} }

// points per inch, the unit of node width and height in DOT
const ppi = 72.0

// ToDOT converts res to a DOT document with pinned positions. Graphviz's y
// axis points up, so y is negated.
func ToDOT(res *layout.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontsize=12];\n")
	buf.WriteString("\n")

	for _, id := range drawOrder(res) {
		p := res.Placements[id]
		r, ok := res.Absolute(id)
		if !ok {
			continue
		}
		c := r.Center()
		attrs := []string{
			fmt.Sprintf("pos=\"%s,%s!\"", num(c.X), num(-c.Y)),
			fmt.Sprintf("width=%s", num(p.Width/ppi)),
			fmt.Sprintf("height=%s", num(p.Height/ppi)),
			fmt.Sprintf("label=%q", label(res, id, opts.Labels)),
		}
		if isFrame(res, id) {
			attrs = append(attrs, "fillcolor=\"#f3f4f6\"", "labelloc=t")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	if opts.Routes {
		buf.WriteString("\n")
		for ri, rt := range res.Routes {
			writeRoute(&buf, ri, rt)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// writeRoute emits one invisible point per route vertex and chains them.
// The first and last vertices sit on node borders.
func writeRoute(buf *bytes.Buffer, ri int, rt layout.Route) {
	if len(rt.Points) < 2 {
		return
	}
	names := make([]string, len(rt.Points))
	for i, p := range rt.Points {
		names[i] = fmt.Sprintf("r%d_%d", ri, i)
		fmt.Fprintf(buf, "  %q [shape=point, width=0.01, label=\"\", pos=\"%s,%s!\"];\n",
			names[i], num(p.X), num(-p.Y))
	}
	for i := 1; i < len(names); i++ {
		arrow := "none"
		if i == len(names)-1 {
			arrow = "normal"
		}
		fmt.Fprintf(buf, "  %q -- %q [dir=forward, arrowhead=%s];\n", names[i-1], names[i], arrow)
	}
}

// drawOrder lists top-level nodes first, then children by depth, so every
// frame precedes what it contains.
func drawOrder(res *layout.Result) []string {
	depth := func(id string) int {
		d := 0
		for p := res.Placements[id].Parent; p != "" && d < len(res.Placements); p = res.Placements[p].Parent {
			d++
		}
		return d
	}
	var out []string
	for level := 0; len(out) < len(res.Order) && level <= len(res.Order); level++ {
		for _, id := range res.Order {
			if depth(id) == level {
				out = append(out, id)
			}
		}
	}
	return out
}

func label(res *layout.Result, id string, show bool) string {
	if !show {
		return ""
	}
	if res.Diagram != nil {
		if n, ok := res.Diagram.Node(id); ok {
			return n.DisplayLabel()
		}
	}
	return id
}

func isFrame(res *layout.Result, id string) bool {
	if res.Diagram != nil {
		if n, ok := res.Diagram.Node(id); ok {
			return n.IsFrame()
		}
	}
	for _, p := range res.Placements {
		if p.Parent == id {
			return true
		}
	}
	return false
}

func num(v float64) string { return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".") }

// RenderSVG draws dot with neato, which keeps pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// SVG renders res.
func SVG(ctx context.Context, res *layout.Result, opts Options) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(res, opts))
}
