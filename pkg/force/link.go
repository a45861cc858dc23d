package force

import (
	"math"
	"math/rand/v2"
)

// Link pulls the endpoints of each edge toward Distance apart. The correction
// is split by endpoint degree so that a well connected particle moves less.
// Self edges are ignored.
type Link struct {
	Edges    []Edge
	Distance float64
	Strength float64

	bias []float64 // per edge: share of the correction applied to the target
	rng  *rand.Rand
}

// NewLink returns a link force over edges.
func NewLink(edges []Edge, distance, strength float64) *Link {
	return &Link{Edges: edges, Distance: distance, Strength: strength}
}

// Initialize implements [Initializer]. It computes the degree bias.
func (l *Link) Initialize(ps []Particle, rng *rand.Rand) {
	l.rng = rng
	count := make([]int, len(ps))
	for _, e := range l.Edges {
		if valid(e, len(ps)) {
			count[e.Source]++
			count[e.Target]++
		}
	}
	l.bias = make([]float64, len(l.Edges))
	for i, e := range l.Edges {
		if valid(e, len(ps)) {
			l.bias[i] = float64(count[e.Source]) / float64(count[e.Source]+count[e.Target])
		}
	}
}

func valid(e Edge, n int) bool {
	return e.Source >= 0 && e.Source < n && e.Target >= 0 && e.Target < n && e.Source != e.Target
}

// Apply implements [Force].
func (l *Link) Apply(ps []Particle, alpha float64) {
	if l.Strength == 0 || len(l.Edges) == 0 {
		return
	}
	if l.rng == nil {
		l.rng = defaultRand()
	}
	if len(l.bias) != len(l.Edges) {
		l.Initialize(ps, l.rng)
	}

	for i, e := range l.Edges {
		if !valid(e, len(ps)) {
			continue
		}
		src, dst := &ps[e.Source], &ps[e.Target]
		x := dst.X + dst.VX - src.X - src.VX
		y := dst.Y + dst.VY - src.Y - src.VY
		if x == 0 {
			x = jiggle(l.rng)
		}
		if y == 0 {
			y = jiggle(l.rng)
		}
		d := math.Sqrt(x*x + y*y)
		k := (d - l.Distance) / d * alpha * l.Strength
		x *= k
		y *= k

		b := l.bias[i]
		dst.VX -= x * b
		dst.VY -= y * b
		src.VX += x * (1 - b)
		src.VY += y * (1 - b)
	}
}
