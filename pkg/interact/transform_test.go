package interact

import (
	"math"
	"testing"

	"github.com/matzehuels/coauthornet/pkg/sim"
)

func TestTransformInverse(t *testing.T) {
	tests := []Transform{
		Identity,
		{X: 10, Y: -20, K: 2},
		{X: -3.5, Y: 7, K: 0.5},
	}
	p := sim.Point{X: 12.25, Y: -8}
	for _, tr := range tests {
		got := tr.Invert(tr.Apply(p))
		if math.Abs(got.X-p.X) > 1e-12 || math.Abs(got.Y-p.Y) > 1e-12 {
			t.Errorf("%+v: Invert(Apply(p)) = %+v", tr, got)
		}
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	tr := Transform{X: 30, Y: 40, K: 1.5}
	anchor := sim.Point{X: 200, Y: 120}
	before := tr.Invert(anchor)

	z := tr.ZoomAt(anchor, 2, 0.5, 5)
	if z.K != 3 {
		t.Fatalf("K = %v, want 3", z.K)
	}
	after := z.Invert(anchor)
	if math.Abs(after.X-before.X) > 1e-9 || math.Abs(after.Y-before.Y) > 1e-9 {
		t.Errorf("anchor moved in model space: %+v -> %+v", before, after)
	}

	if got := tr.ZoomAt(anchor, 0.01, 0.5, 5).K; got != 0.5 {
		t.Errorf("K = %v, want clamped to 0.5", got)
	}
}

func TestTransformClampNonFinite(t *testing.T) {
	got := Transform{X: math.Inf(1), Y: math.NaN(), K: 2}.Clamp(0.5, 5)
	if got != (Transform{X: 0, Y: 0, K: 2}) {
		t.Errorf("Clamp = %+v", got)
	}
}
