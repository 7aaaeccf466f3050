// Package pkg provides the libraries of the autolayout diagram engine.
//
// # Overview
//
// autolayout places the boxes of architecture diagrams. A diagram is a set of
// atomic nodes, frames that contain other nodes, and connections that leave
// and enter on a declared side of their endpoints. The engine computes a
// position and size for every node so that connections respect their
// anchors, nothing overlaps and routed connections do not cross.
//
// # Architecture
//
// A layout run flows through these packages:
//
//	diagram document (JSON/YAML)
//	         ↓
//	    [io] package (decode, validate)
//	         ↓
//	    [frame] package (size frames bottom-up)
//	         ↓
//	    [placer] package (backtracking search over [board], checked by [constraint])
//	         ↓ on failure
//	    [layered] package (layered barycenter fallback)
//	         ↓
//	    [align] package (line external nodes up with frame children)
//	         ↓
//	    [layout.Result] (placements, [route] polylines, stats)
//
// # Quick Start
//
//	eng, _ := layout.New(layout.ForStyle("architecture"))
//	res, err := eng.Layout(ctx, d)
//	if err != nil {
//	    return err
//	}
//	for _, id := range res.Order {
//	    fmt.Println(id, res.Placements[id])
//	}
//
// # Main Packages
//
// ## Engine
//
// [geom] - Points, rectangles and segment tests shared by every stage.
//
// [diagram] - The input model: nodes, frames, connections, anchors, and the
// forest of frame ownership.
//
// [frame] - Frame packing in row, column, grid and free layouts.
//
// [route] - Orthogonal elbow routes between anchored boxes.
//
// [board] - The mutable state of one run: top-level boxes, promoted edges and
// their routes.
//
// [constraint] - The rule checker run on every candidate position.
//
// [placer] - The backtracking search, seeded from the root nodes.
//
// [layered] - Layer assignment, barycenter ordering and coordinate
// assignment for diagrams the search cannot place.
//
// [align] - The post-pass aligner.
//
// [layout] - The [layout.Engine] orchestrating the stages, its TOML
// configuration and style presets, and a cached [layout.Runner].
//
// ## Infrastructure
//
// [cache] - Result caching backed by files, Redis or MongoDB, with snappy
// compression and observed wrappers.
//
// [observability] - Hook interfaces for layout, cache and HTTP events.
//
// [metrics] - A Prometheus implementation of the hooks.
//
// [errors] - Coded errors with HTTP status mapping.
//
// ## Serialization and Output
//
// [io] - Diagram documents and results in JSON or YAML.
//
// [preview] - Graphviz DOT export and SVG rendering of results.
//
// [buildinfo] - Version information stamped at build time.
package pkg
