package sim

// Frame is the per-tick output consumed by presentation adapters.
type Frame struct {
	Tick  int         `json:"tick"`
	Alpha float64     `json:"alpha"`
	State State       `json:"state"`
	Nodes []NodeFrame `json:"nodes"`
	Links []LinkFrame `json:"links"`
}

// NodeFrame is one positioned, styled node.
type NodeFrame struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
	Fixed  bool    `json:"fixed,omitempty"`
}

// LinkFrame is one positioned link.
type LinkFrame struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// Bounds returns the bounding box of all node circles.
// An empty frame returns zeros.
func (f Frame) Bounds() (minX, minY, maxX, maxY float64) {
	for i, n := range f.Nodes {
		x0, y0, x1, y1 := n.X-n.Radius, n.Y-n.Radius, n.X+n.Radius, n.Y+n.Radius
		if i == 0 {
			minX, minY, maxX, maxY = x0, y0, x1, y1
			continue
		}
		minX, minY = min(minX, x0), min(minY, y0)
		maxX, maxY = max(maxX, x1), max(maxY, y1)
	}
	return minX, minY, maxX, maxY
}

// Sink receives a frame after every completed tick. Frames are freshly
// allocated and may be retained.
type Sink interface {
	Publish(f Frame)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(f Frame)

// Publish implements [Sink].
func (fn SinkFunc) Publish(f Frame) { fn(f) }
