// Package pkg holds the libraries behind coauthornet, a force-directed
// layout engine for co-authorship networks.
//
// # Overview
//
// Data flows from a source to frames on a screen:
//
//	file / URL / MongoDB
//	         ↓
//	    [source] package (fetch raw payload bytes)
//	         ↓
//	    [graph] package (validate, degree, radius, color)
//	         ↓
//	    [sim] package (tick loop over [force] forces)
//	         ↓
//	    [render] package (SVG, JSON, DOT, terminal grid)
//
// [interact] turns pointer and slider events into simulation commands and
// owns the zoom/pan view. [session] runs one simulation per viewer on its
// own goroutine. [pipeline] ties load, layout and render together behind
// the [cache] so a graph that was laid out before starts warm.
//
// # Quick Start
//
//	g, err := graph.Build(payload)
//	if err != nil {
//	    return err
//	}
//	s := sim.New(g, sim.WithSeed(1))
//	s.Run(0)
//	svg := render.RenderSVG(s.Frame())
//
// Supporting packages: [config] for TOML/YAML settings, [errors] for
// coded errors, [httputil] for retrying HTTP, [observability] for hooks,
// and [buildinfo] for version stamping.
package pkg
