package graph

import (
	"errors"
	"fmt"
)

// ErrMalformedGraph is matched by every [MalformedGraphError] via errors.Is.
var ErrMalformedGraph = errors.New("malformed graph")

// MalformedGraphError reports a payload that cannot be turned into a graph.
// It is fatal to the load: no simulation may start on such a payload.
type MalformedGraphError struct {
	Link   int    // Index of the offending link, or -1 for node-level problems
	NodeID string // The unknown, duplicated or empty id
	Reason string
}

func (e *MalformedGraphError) Error() string {
	if e.Link >= 0 {
		return fmt.Sprintf("malformed graph: link %d: %s %q", e.Link, e.Reason, e.NodeID)
	}
	return fmt.Sprintf("malformed graph: %s %q", e.Reason, e.NodeID)
}

// Is makes errors.Is(err, ErrMalformedGraph) hold.
func (e *MalformedGraphError) Is(target error) bool {
	return target == ErrMalformedGraph
}

// Default visual ranges.
const (
	DefaultMinRadius     = 3.0
	DefaultMaxRadius     = 12.0
	DefaultTopCategories = 10
	NeutralColor         = "#cccccc"
)

// DefaultPalette is the ten-entry categorical palette for the most frequent categories.
var DefaultPalette = []string{
	"#e41a1c", "#377eb8", "#4daf4a", "#984ea3",
	"#ff7f00", "#ffbf00", "#a65628", "#f781bf",
	"#000000", "#66c2a5",
}

type buildOptions struct {
	minRadius float64
	maxRadius float64
	palette   []string
	neutral   string
	top       int
}

// Option configures [Build].
type Option func(*buildOptions)

// WithRadiusRange overrides the [3, 12] radius range. Inverted bounds are swapped.
func WithRadiusRange(min, max float64) Option {
	return func(o *buildOptions) {
		if min > max {
			min, max = max, min
		}
		o.minRadius, o.maxRadius = min, max
	}
}

// WithPalette overrides the categorical palette. An empty palette is ignored.
func WithPalette(colors []string) Option {
	return func(o *buildOptions) {
		if len(colors) > 0 {
			o.palette = colors
		}
	}
}

// WithNeutralColor overrides the color for unranked categories.
func WithNeutralColor(c string) Option {
	return func(o *buildOptions) {
		if c != "" {
			o.neutral = c
		}
	}
}

// WithTopCategories sets how many categories receive palette colors.
// It never exceeds the palette length.
func WithTopCategories(n int) Option {
	return func(o *buildOptions) {
		if n >= 0 {
			o.top = n
		}
	}
}

// Build normalizes a payload into a [Graph].
//
// It returns a *[MalformedGraphError] when a node id is empty or duplicated,
// or when a link references an id that is not in the node set.
func Build(p Payload, opts ...Option) (*Graph, error) {
	o := buildOptions{
		minRadius: DefaultMinRadius,
		maxRadius: DefaultMaxRadius,
		palette:   DefaultPalette,
		neutral:   NeutralColor,
		top:       DefaultTopCategories,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.top = min(o.top, len(o.palette))

	g := &Graph{
		nodes: make([]*Node, len(p.Nodes)),
		links: make([]Link, len(p.Links)),
		index: make(map[string]int, len(p.Nodes)),
	}

	for i, pn := range p.Nodes {
		if pn.ID == "" {
			return nil, &MalformedGraphError{Link: -1, Reason: fmt.Sprintf("node %d has empty id", i)}
		}
		if _, dup := g.index[pn.ID]; dup {
			return nil, &MalformedGraphError{Link: -1, NodeID: pn.ID, Reason: "duplicate node id"}
		}
		g.index[pn.ID] = i
		g.nodes[i] = &Node{
			ID:       pn.ID,
			Index:    i,
			Category: pn.category(),
			Meta: Metadata{
				ID:           pn.ID,
				Affiliation:  pn.Affiliation,
				Country:      pn.Country,
				Publications: pn.Publications,
				Titles:       append([]string(nil), pn.Titles...),
			},
		}
	}

	for i, pl := range p.Links {
		src, ok := g.index[pl.Source]
		if !ok {
			return nil, &MalformedGraphError{Link: i, NodeID: pl.Source, Reason: "unknown source node"}
		}
		dst, ok := g.index[pl.Target]
		if !ok {
			return nil, &MalformedGraphError{Link: i, NodeID: pl.Target, Reason: "unknown target node"}
		}
		g.links[i] = Link{Source: src, Target: dst}
		g.nodes[src].Degree++
		g.nodes[dst].Degree++
	}

	scale := newRadiusScale(g.nodes, o.minRadius, o.maxRadius)
	for _, n := range g.nodes {
		n.Radius = scale.radius(n.Degree)
	}

	g.ranking = rankCategories(g.nodes, o.palette[:o.top], o.neutral)
	colors := make(map[string]string, len(g.ranking))
	for _, r := range g.ranking {
		colors[r.Category] = r.Color
	}
	for _, n := range g.nodes {
		if c, ok := colors[n.Category]; ok {
			n.Color = c
		} else {
			n.Color = o.neutral
		}
	}

	return g, nil
}
