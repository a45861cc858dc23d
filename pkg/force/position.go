package force

// Axis selects the coordinate a [Position] force acts on.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Position pulls every particle toward Target along one axis.
type Position struct {
	Axis     Axis
	Target   float64
	Strength float64
}

// Apply implements [Force].
func (p *Position) Apply(ps []Particle, alpha float64) {
	if p.Strength == 0 {
		return
	}
	k := p.Strength * alpha
	for i := range ps {
		if p.Axis == AxisX {
			ps[i].VX += (p.Target - ps[i].X) * k
		} else {
			ps[i].VY += (p.Target - ps[i].Y) * k
		}
	}
}
