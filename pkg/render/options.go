package render

import (
	"math"

	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/interact"
	"github.com/matzehuels/coauthornet/pkg/sim"
)

// Canvas defaults.
const (
	DefaultWidth   = 960.0
	DefaultHeight  = 600.0
	DefaultOffsetY = 50.0
	DimOpacity     = 0.2
	LinkColor      = "grey"
)

// Option configures a renderer.
type Option func(*options)

type options struct {
	width, height float64
	offsetY       float64
	view          interact.Transform
	fit           bool
	graph         *graph.Graph
	highlight     *interact.Highlight
	labels        bool
}

func newOptions(opts []Option) options {
	o := options{
		width:   DefaultWidth,
		height:  DefaultHeight,
		offsetY: DefaultOffsetY,
		view:    interact.Identity,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSize sets the canvas size. Values that are not positive and finite
// keep the default.
func WithSize(w, h float64) Option {
	return func(o *options) {
		if w > 0 && !math.IsInf(w, 0) {
			o.width = w
		}
		if h > 0 && !math.IsInf(h, 0) {
			o.height = h
		}
	}
}

// WithOffsetY shifts the content down, leaving room for a header.
func WithOffsetY(dy float64) Option { return func(o *options) { o.offsetY = dy } }

// WithView applies a zoom/pan transform.
func WithView(t interact.Transform) Option { return func(o *options) { o.view = t } }

// WithFit scales and centers the frame's bounding box into the canvas,
// replacing any view transform.
func WithFit() Option { return func(o *options) { o.fit = true } }

// WithGraph attaches node metadata (tooltips, labels).
func WithGraph(g *graph.Graph) Option { return func(o *options) { o.graph = g } }

// WithHighlight dims nodes outside h.
func WithHighlight(h *interact.Highlight) Option { return func(o *options) { o.highlight = h } }

// WithLabels prints node ids next to the circles.
func WithLabels() Option { return func(o *options) { o.labels = true } }

// project maps a model point to canvas coordinates.
func (o options) project(p sim.Point) sim.Point {
	q := o.view.Apply(p)
	return sim.Point{X: q.X + o.width/2, Y: q.Y + o.height/2 + o.offsetY}
}

// resolveView replaces the view with a fitted one when requested.
func (o *options) resolveView(f sim.Frame) {
	if !o.fit || len(f.Nodes) == 0 {
		return
	}
	o.offsetY = 0
	o.view = fitTransform(f, o.width, o.height, 10)
}

// fitTransform returns the transform that centers f's bounds, node radii
// included, in a w×h box with pad on every side. The scale is capped at 1.
func fitTransform(f sim.Frame, w, h, pad float64) interact.Transform {
	minX, minY, maxX, maxY := f.Bounds()
	bw, bh := maxX-minX, maxY-minY
	k := 1.0
	if bw > 0 && bh > 0 {
		k = min((w-2*pad)/bw, (h-2*pad)/bh, 1)
	}
	if k <= 0 {
		k = 1
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	return interact.Transform{X: -cx * k, Y: -cy * k, K: k}
}
