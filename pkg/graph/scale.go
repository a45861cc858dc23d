package graph

import "math"

// radiusScale maps degrees onto a radius range with a square-root transform,
// matching a d3 scaleSqrt whose domain is the degree extent.
type radiusScale struct {
	d0, d1 float64 // sqrt of the degree extent
	r0, r1 float64
}

func newRadiusScale(nodes []*Node, r0, r1 float64) radiusScale {
	s := radiusScale{r0: r0, r1: r1}
	if len(nodes) == 0 {
		return s
	}
	lo, hi := nodes[0].Degree, nodes[0].Degree
	for _, n := range nodes[1:] {
		lo = min(lo, n.Degree)
		hi = max(hi, n.Degree)
	}
	s.d0, s.d1 = math.Sqrt(float64(lo)), math.Sqrt(float64(hi))
	return s
}

// radius is monotonically non-decreasing in degree and always within [r0, r1].
func (s radiusScale) radius(degree int) float64 {
	if s.d1 == s.d0 {
		// Zero-width domain: one value for everybody.
		if degree == 0 {
			return s.r0
		}
		return (s.r0 + s.r1) / 2
	}
	t := (math.Sqrt(float64(degree)) - s.d0) / (s.d1 - s.d0)
	t = min(max(t, 0), 1)
	return s.r0 + t*(s.r1-s.r0)
}
