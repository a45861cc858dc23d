// Package render turns simulation frames into files.
//
// Three outputs share one set of [Option]s:
//
//   - [RenderSVG]: a self-contained SVG of circles and links, native Go
//   - [RenderJSON]: the frame and view as JSON for external tools
//   - [ToDOT] and [RenderDOT]: a DOT graph with every node pinned at its
//     simulated position, rendered to SVG or PNG through Graphviz
//
// Model coordinates are centered on the canvas: a node at (0, 0) lands at
// (width/2, height/2 + offset). The view [interact.Transform] (zoom and pan)
// is applied before centering, and an optional [interact.Highlight] dims
// every node outside the hovered group.
//
// [Grid] rasterizes a frame onto a character cell grid for the terminal viewer.
package render
