// Package graph builds the in-memory co-authorship network consumed by the
// layout engine.
//
// # Overview
//
// A [Payload] is the raw wire format delivered by a source (file, HTTP,
// MongoDB). [Build] normalizes it into a [Graph]: links are resolved to node
// indices, every node gets a degree, a radius and a color, and nothing about
// the structure changes afterwards.
//
//	p, _ := graph.ReadPayload(r)
//	g, err := graph.Build(p)
//	if errors.Is(err, graph.ErrMalformedGraph) {
//	    // a link referenced an unknown author
//	}
//
// # Derived Attributes
//
//   - Degree: every link increments both endpoints; a self link counts twice.
//   - Radius: square-root scale from the degree extent onto [3, 12], clamped.
//     A zero-width extent maps every node to one fixed value.
//   - Color: the ten most frequent categories (ties broken by first
//     occurrence) take the ten palette entries in rank order. Everything else
//     is [NeutralColor].
//
// # Payload Format
//
//	{
//	  "nodes": [{"id": "Ada", "country": "UK", "affiliation": "...", "publications": 3, "titles": ["..."]}],
//	  "links": [{"source": "Ada", "target": "Charles"}]
//	}
//
// The optional "category" field overrides "country" as the coloring key.
package graph
