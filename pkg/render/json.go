package render

import (
	"encoding/json"

	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/interact"
	"github.com/matzehuels/coauthornet/pkg/sim"
)

type jsonOutput struct {
	Width     float64             `json:"width"`
	Height    float64             `json:"height"`
	OffsetY   float64             `json:"offset_y"`
	View      interact.Transform  `json:"view"`
	Tick      int                 `json:"tick"`
	Alpha     float64             `json:"alpha"`
	State     sim.State           `json:"state"`
	Nodes     []jsonNode          `json:"nodes"`
	Links     []sim.LinkFrame     `json:"links"`
	Highlight *interact.Highlight `json:"highlight,omitempty"`
}

type jsonNode struct {
	sim.NodeFrame
	ScreenX float64         `json:"screen_x"`
	ScreenY float64         `json:"screen_y"`
	Dimmed  bool            `json:"dimmed,omitempty"`
	Meta    *graph.Metadata `json:"meta,omitempty"`
}

// RenderJSON exports f with model and canvas coordinates. Metadata is
// included when a graph is attached with [WithGraph].
func RenderJSON(f sim.Frame, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	o.resolveView(f)

	out := jsonOutput{
		Width:     o.width,
		Height:    o.height,
		OffsetY:   o.offsetY,
		View:      o.view,
		Tick:      f.Tick,
		Alpha:     f.Alpha,
		State:     f.State,
		Nodes:     make([]jsonNode, len(f.Nodes)),
		Links:     f.Links,
		Highlight: o.highlight,
	}
	if out.Links == nil {
		out.Links = []sim.LinkFrame{}
	}
	for i, n := range f.Nodes {
		p := o.project(sim.Point{X: n.X, Y: n.Y})
		jn := jsonNode{
			NodeFrame: n,
			ScreenX:   p.X,
			ScreenY:   p.Y,
			Dimmed:    o.highlight != nil && !o.highlight.Contains(n.ID),
		}
		if o.graph != nil {
			if gn, ok := o.graph.Lookup(n.ID); ok {
				meta := gn.Meta
				jn.Meta = &meta
			}
		}
		out.Nodes[i] = jn
	}
	return json.MarshalIndent(out, "", "  ")
}
