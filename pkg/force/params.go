package force

import "math"

// Standard force names.
const (
	NameCollide = "collide"
	NameX       = "x"
	NameY       = "y"
	NameCharge  = "charge"
	NameLink    = "link"
)

// Bounds applied by [Params.Clamp].
const (
	MinCharge            = -1000.0
	MaxCharge            = 0.0
	MaxCollideMultiplier = 10.0
	MaxLinkDistance      = 1000.0
	MaxChargeDistance    = 10000.0
)

// Params collects the tunable parameters of the standard forces.
type Params struct {
	Charge             float64 `json:"charge" toml:"charge" yaml:"charge"`
	ChargeDistanceMin  float64 `json:"charge_distance_min" toml:"charge_distance_min" yaml:"charge_distance_min"`
	ChargeDistanceMax  float64 `json:"charge_distance_max" toml:"charge_distance_max" yaml:"charge_distance_max"`
	Theta              float64 `json:"theta" toml:"theta" yaml:"theta"`
	BarnesHutThreshold int     `json:"barnes_hut_threshold" toml:"barnes_hut_threshold" yaml:"barnes_hut_threshold"`
	CollideMultiplier  float64 `json:"collide_multiplier" toml:"collide_multiplier" yaml:"collide_multiplier"`
	CollideStrength    float64 `json:"collide_strength" toml:"collide_strength" yaml:"collide_strength"`
	LinkDistance       float64 `json:"link_distance" toml:"link_distance" yaml:"link_distance"`
	LinkStrength       float64 `json:"link_strength" toml:"link_strength" yaml:"link_strength"`
	CenterX            float64 `json:"center_x" toml:"center_x" yaml:"center_x"`
	CenterY            float64 `json:"center_y" toml:"center_y" yaml:"center_y"`
}

// DefaultParams returns the parameters of a freshly loaded network.
func DefaultParams() Params {
	return Params{
		Charge:             -100,
		ChargeDistanceMin:  1,
		ChargeDistanceMax:  300,
		Theta:              0.9,
		BarnesHutThreshold: 512,
		CollideMultiplier:  2,
		CollideStrength:    1,
		LinkDistance:       50,
		LinkStrength:       0.3,
		CenterX:            0.1,
		CenterY:            0.1,
	}
}

// Clamp returns p with every value moved to the nearest valid bound.
// NaN falls back to the default for that field.
func (p Params) Clamp() Params {
	d := DefaultParams()
	p.Charge = clamp(p.Charge, MinCharge, MaxCharge, d.Charge)
	p.ChargeDistanceMin = clamp(p.ChargeDistanceMin, 0, MaxChargeDistance, d.ChargeDistanceMin)
	p.ChargeDistanceMax = clamp(p.ChargeDistanceMax, p.ChargeDistanceMin, MaxChargeDistance, d.ChargeDistanceMax)
	p.Theta = clamp(p.Theta, 0, 2, d.Theta)
	p.BarnesHutThreshold = max(p.BarnesHutThreshold, 0)
	p.CollideMultiplier = clamp(p.CollideMultiplier, 0, MaxCollideMultiplier, d.CollideMultiplier)
	p.CollideStrength = clamp(p.CollideStrength, 0, 1, d.CollideStrength)
	p.LinkDistance = clamp(p.LinkDistance, 0, MaxLinkDistance, d.LinkDistance)
	p.LinkStrength = clamp(p.LinkStrength, 0, 1, d.LinkStrength)
	p.CenterX = clamp(p.CenterX, 0, 1, d.CenterX)
	p.CenterY = clamp(p.CenterY, 0, 1, d.CenterY)
	return p
}

func clamp(v, lo, hi, def float64) float64 {
	if math.IsNaN(v) {
		v = def
	}
	return math.Min(math.Max(v, lo), hi)
}

// Standard builds the five standard forces from clamped params, in
// application order.
func Standard(p Params, edges []Edge) []Entry {
	p = p.Clamp()
	return []Entry{
		{Name: NameCollide, Enabled: true, Force: &Collide{Multiplier: p.CollideMultiplier, Strength: p.CollideStrength}},
		{Name: NameX, Enabled: true, Force: &Position{Axis: AxisX, Strength: p.CenterX}},
		{Name: NameY, Enabled: true, Force: &Position{Axis: AxisY, Strength: p.CenterY}},
		{Name: NameCharge, Enabled: true, Force: &ManyBody{
			Strength:    p.Charge,
			DistanceMin: p.ChargeDistanceMin,
			DistanceMax: p.ChargeDistanceMax,
			Theta:       p.Theta,
			Threshold:   p.BarnesHutThreshold,
		}},
		{Name: NameLink, Enabled: true, Force: NewLink(edges, p.LinkDistance, p.LinkStrength)},
	}
}

// RegisterStandard registers the standard forces on f, replacing any
// existing entries of the same names.
func RegisterStandard(f *Field, p Params, edges []Edge) {
	for _, e := range Standard(p, edges) {
		f.Register(e.Name, e.Force)
	}
}
