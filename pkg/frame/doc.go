// Package frame sizes container frames around their children.
//
// [Pack] handles one frame: row and column layouts advance children by their
// size plus the gap, grid wraps every Columns entries, and free keeps the
// declared child positions, shifted into the padded interior when they reach
// past its top or left edge. A labelled frame reserves a band above its
// children. A frame without children keeps its declared size, or a default.
//
// [PackAll] packs a whole diagram innermost frame first. The same function
// backs the standalone pack command, which re-flows a frame after its
// padding, gap or layout mode is edited.
package frame
