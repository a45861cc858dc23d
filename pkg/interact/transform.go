package interact

import (
	"math"

	"github.com/matzehuels/coauthornet/pkg/sim"
)

// Transform is a uniform scale K followed by a translation (X, Y), mapping
// model space to screen space.
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform that leaves points unchanged.
var Identity = Transform{K: 1}

// Apply maps a model point to screen space.
func (t Transform) Apply(p sim.Point) sim.Point {
	return sim.Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point to model space.
func (t Transform) Invert(p sim.Point) sim.Point {
	return sim.Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Clamp limits K to [lo, hi]. A non-finite or non-positive K becomes lo.
func (t Transform) Clamp(lo, hi float64) Transform {
	if math.IsNaN(t.K) || math.IsInf(t.K, 0) || t.K <= 0 {
		t.K = lo
	}
	t.K = math.Min(math.Max(t.K, lo), hi)
	if math.IsNaN(t.X) || math.IsInf(t.X, 0) {
		t.X = 0
	}
	if math.IsNaN(t.Y) || math.IsInf(t.Y, 0) {
		t.Y = 0
	}
	return t
}

// ZoomAt scales by factor around the screen point p, which stays fixed
// unless the scale hits a bound.
func (t Transform) ZoomAt(p sim.Point, factor, lo, hi float64) Transform {
	m := t.Invert(p)
	k := math.Min(math.Max(t.K*factor, lo), hi)
	return Transform{X: p.X - m.X*k, Y: p.Y - m.Y*k, K: k}
}

// PanBy translates by a screen-space offset.
func (t Transform) PanBy(dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}
