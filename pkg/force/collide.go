package force

import (
	"math"
	"math/rand/v2"
)

// Collide treats each particle as a circle of Radius × Multiplier and pushes
// overlapping pairs apart. Lighter (smaller) circles move more. Overlap is
// measured on predicted positions (x+vx, y+vy) and is not scaled by alpha.
type Collide struct {
	Multiplier float64
	Strength   float64

	rng *rand.Rand
}

// Initialize implements [Initializer].
func (c *Collide) Initialize(_ []Particle, rng *rand.Rand) { c.rng = rng }

func (c *Collide) radius(p *Particle) float64 { return p.Radius * c.Multiplier }

// Apply implements [Force].
func (c *Collide) Apply(ps []Particle, _ float64) {
	if c.Strength == 0 || c.Multiplier <= 0 || len(ps) < 2 {
		return
	}
	if c.rng == nil {
		c.rng = defaultRand()
	}

	xs := make([]float64, len(ps))
	ys := make([]float64, len(ps))
	for i := range ps {
		xs[i], ys[i] = ps[i].X+ps[i].VX, ps[i].Y+ps[i].VY
	}
	t := newQuadtree(xs, ys)
	t.fillRadii(func(i int) float64 { return c.radius(&ps[i]) })

	for i := range ps {
		xi, yi := xs[i], ys[i]
		ri := c.radius(&ps[i])
		t.visit(func(q *quad) bool {
			if q.leaf() {
				for _, j := range q.bodies {
					if j > i {
						c.resolve(&ps[i], &ps[j], xi, yi, ri)
					}
				}
				return true
			}
			r := ri + q.r
			return q.x0 > xi+r || q.x0+q.w < xi-r || q.y0 > yi+r || q.y0+q.w < yi-r
		})
	}
}

// resolve separates a from b when their circles overlap. (xi, yi) is the
// predicted position of a taken before any pair of this pass was resolved.
func (c *Collide) resolve(a, b *Particle, xi, yi, ri float64) {
	rj := c.radius(b)
	r := ri + rj
	x := xi - b.X - b.VX
	y := yi - b.Y - b.VY
	l := x*x + y*y
	if l >= r*r {
		return
	}
	if x == 0 {
		x = jiggle(c.rng)
		l += x * x
	}
	if y == 0 {
		y = jiggle(c.rng)
		l += y * y
	}
	l = math.Sqrt(l)
	l = (r - l) / l * c.Strength
	x *= l
	y *= l

	// Share the correction by squared radius.
	rj2 := rj * rj
	wa := rj2 / (ri*ri + rj2)
	a.VX += x * wa
	a.VY += y * wa
	b.VX -= x * (1 - wa)
	b.VY -= y * (1 - wa)
}
