package force

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

// ManyBody is the "charge" force. A negative strength repels, a positive one
// attracts. Pairs closer than DistanceMin are treated as DistanceMin apart;
// pairs at or beyond DistanceMax do not interact.
type ManyBody struct {
	Strength    float64
	DistanceMin float64
	DistanceMax float64

	// Theta is the Barnes-Hut opening criterion. Graphs with at least
	// Threshold particles use a Barnes-Hut plane; smaller ones are summed exactly.
	Theta     float64
	Threshold int

	rng *rand.Rand
}

// Initialize implements [Initializer].
func (m *ManyBody) Initialize(_ []Particle, rng *rand.Rand) { m.rng = rng }

// Apply implements [Force].
func (m *ManyBody) Apply(ps []Particle, alpha float64) {
	if m.Strength == 0 || len(ps) < 2 {
		return
	}
	if m.rng == nil {
		m.rng = defaultRand()
	}
	if m.Threshold > 0 && len(ps) >= m.Threshold {
		m.applyBarnesHut(ps, alpha)
		return
	}
	m.applyExact(ps, alpha)
}

func (m *ManyBody) applyExact(ps []Particle, alpha float64) {
	for i := range ps {
		for j := range ps {
			if i == j {
				continue
			}
			dx, dy := m.pull(ps[j].X-ps[i].X, ps[j].Y-ps[i].Y, m.Strength, alpha)
			ps[i].VX += dx
			ps[i].VY += dy
		}
	}
}

// pull returns the velocity change caused by a body (or cluster) of total
// strength s located at offset (x, y).
func (m *ManyBody) pull(x, y, s, alpha float64) (float64, float64) {
	l := x*x + y*y
	if m.DistanceMax > 0 && l >= m.DistanceMax*m.DistanceMax {
		return 0, 0
	}
	if x == 0 {
		x = jiggle(m.rng)
		l += x * x
	}
	if y == 0 {
		y = jiggle(m.rng)
		l += y * y
	}
	if dmin2 := m.DistanceMin * m.DistanceMin; l < dmin2 {
		l = math.Sqrt(dmin2 * l)
	}
	return x * s * alpha / l, y * s * alpha / l
}

// body is a unit-mass particle position, so the mass of a barneshut
// aggregate is the number of particles it holds.
type body struct{ pos r2.Vec }

func (b *body) Coord2() r2.Vec { return b.pos }
func (b *body) Mass() float64  { return 1 }

func (m *ManyBody) applyBarnesHut(ps []Particle, alpha float64) {
	bodies := make([]barneshut.Particle2, len(ps))
	seen := make(map[r2.Vec]struct{}, len(ps))
	for i := range ps {
		v := r2.Vec{X: ps[i].X, Y: ps[i].Y}
		if _, dup := seen[v]; dup {
			// Coincident points cannot be told apart by subdividing the plane.
			m.applyExact(ps, alpha)
			return
		}
		seen[v] = struct{}{}
		bodies[i] = &body{pos: v}
	}
	plane, err := barneshut.NewPlane(bodies)
	if err != nil {
		m.applyExact(ps, alpha)
		return
	}

	charge := func(p1, p2 barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
		if p2 == p1 {
			return r2.Vec{}
		}
		x, y := m.pull(v.X, v.Y, m.Strength*m2, alpha)
		return r2.Vec{X: x, Y: y}
	}
	for i := range ps {
		f := plane.ForceOn(bodies[i], m.Theta, charge)
		ps[i].VX += f.X
		ps[i].VY += f.Y
	}
}
