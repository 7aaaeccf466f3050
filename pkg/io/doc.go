// Package io reads and writes diagram documents and layout results.
//
// # Document format
//
// A diagram document lists nodes and connections. Frames carry a "frame"
// object; everything else is atomic:
//
//	{
//	  "style": "architecture",
//	  "nodes": [
//	    {"id": "edge", "label": "Edge", "frame": {"layout": "column", "children": ["lb", "waf"]}},
//	    {"id": "lb"},
//	    {"id": "waf"},
//	    {"id": "api", "width": 160, "height": 90}
//	  ],
//	  "connections": [
//	    {"from": "lb", "to": "api", "from_anchor": "bottom", "to_anchor": "top"}
//	  ]
//	}
//
// The same structure is accepted as YAML. Unknown fields are rejected so a
// typo does not silently fall back to a default.
//
// # Formats
//
// [FormatFromPath] picks the format from the file extension: .json, .yaml
// and .yml are recognised. [ImportDiagram] and [ExportDiagram] work on
// paths; [ReadDiagram] and [WriteDiagram] on streams.
//
// # Results
//
// [WriteResult] encodes a [layout.Result] as JSON or YAML, and
// [ExportLaidOut] writes the input document back with every position and
// size filled in, which is the form editors re-import.
package io
