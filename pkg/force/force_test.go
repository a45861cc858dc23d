package force

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

func randomParticles(n int, seed uint64) []Particle {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	ps := make([]Particle, n)
	for i := range ps {
		ps[i] = Particle{
			Index:  i,
			X:      rng.Float64()*400 - 200,
			Y:      rng.Float64()*400 - 200,
			VX:     rng.Float64() - 0.5,
			VY:     rng.Float64() - 0.5,
			Radius: 3 + rng.Float64()*9,
		}
	}
	return ps
}

func ringEdges(n int) []Edge {
	edges := make([]Edge, n)
	for i := range edges {
		edges[i] = Edge{Source: i, Target: (i + 1) % n}
	}
	return edges
}

func TestZeroStrengthIsExactlyZero(t *testing.T) {
	edges := ringEdges(40)
	tests := []struct {
		name  string
		force Force
	}{
		{"Charge", &ManyBody{Strength: 0, DistanceMin: 1, DistanceMax: 300}},
		{"ChargeBarnesHut", &ManyBody{Strength: 0, DistanceMin: 1, Theta: 0.9, Threshold: 1}},
		{"Collide", &Collide{Multiplier: 2, Strength: 0}},
		{"CollideMultiplier", &Collide{Multiplier: 0, Strength: 1}},
		{"Link", NewLink(edges, 50, 0)},
		{"X", &Position{Axis: AxisX, Strength: 0}},
		{"Y", &Position{Axis: AxisY, Strength: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(0); seed < 5; seed++ {
				ps := randomParticles(40, seed)
				// Include coincident particles to exercise the jiggle path.
				ps[1].X, ps[1].Y = ps[0].X, ps[0].Y
				before := slices.Clone(ps)

				f := NewField(rand.New(rand.NewPCG(seed, 7)))
				f.Register("f", tt.force)
				f.Initialize(ps)
				f.Apply(ps, 1)

				for i := range ps {
					if ps[i] != before[i] {
						t.Fatalf("seed %d: particle %d changed: %+v -> %+v", seed, i, before[i], ps[i])
					}
				}
			}
		})
	}
}

func TestDisabledEntryIsExactlyZero(t *testing.T) {
	ps := randomParticles(30, 3)
	before := slices.Clone(ps)

	f := NewField(nil)
	RegisterStandard(f, DefaultParams(), ringEdges(30))
	f.Initialize(ps)
	for _, name := range f.Names() {
		f.Enable(name, false)
	}
	f.Apply(ps, 1)

	if !slices.Equal(ps, before) {
		t.Error("disabled field changed particles")
	}
}

func TestFieldRegistry(t *testing.T) {
	f := NewField(nil)
	RegisterStandard(f, DefaultParams(), nil)

	want := []string{NameCollide, NameX, NameY, NameCharge, NameLink}
	if got := f.Names(); !slices.Equal(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}

	t.Run("ReplaceKeepsPosition", func(t *testing.T) {
		f.Enable(NameX, false)
		repl := &Position{Axis: AxisX, Strength: 0.5}
		f.Register(NameX, repl)
		if got := f.Names(); !slices.Equal(got, want) {
			t.Errorf("Names after replace = %v", got)
		}
		got, ok := f.Get(NameX)
		if !ok || got != Force(repl) {
			t.Error("Get did not return replacement")
		}
		if f.Enabled(NameX) {
			t.Error("replacement should keep the disabled flag")
		}
		y, _ := f.Get(NameY)
		if y.(*Position).Strength != 0.1 {
			t.Error("unrelated force changed")
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if !f.Remove(NameCharge) {
			t.Fatal("Remove returned false")
		}
		if f.Remove(NameCharge) {
			t.Error("second Remove returned true")
		}
		if _, ok := f.Get(NameCharge); ok {
			t.Error("removed force still present")
		}
		if len(f.Entries()) != 4 {
			t.Errorf("entries = %d, want 4", len(f.Entries()))
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		if f.Enable("nope", true) {
			t.Error("Enable(unknown) returned true")
		}
		if f.Enabled("nope") {
			t.Error("Enabled(unknown) returned true")
		}
	})
}

func TestRegisterInitializesBoundField(t *testing.T) {
	ps := []Particle{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}}
	f := NewField(nil)
	f.Initialize(ps)

	l := NewLink([]Edge{{0, 1}, {1, 2}}, 50, 1)
	f.Register(NameLink, l)
	// Particle 1 has two links, particles 0 and 2 one each.
	if l.bias[0] != 1.0/3 || l.bias[1] != 2.0/3 {
		t.Errorf("bias = %v, want [1/3 2/3]", l.bias)
	}
}

func TestManyBodyRepels(t *testing.T) {
	ps := []Particle{{X: -10}, {X: 10}}
	m := &ManyBody{Strength: -100, DistanceMin: 1, DistanceMax: 300}
	m.Apply(ps, 1)

	if !(ps[0].VX < 0 && ps[1].VX > 0) {
		t.Errorf("velocities %v %v, want apart", ps[0].VX, ps[1].VX)
	}
	// v = x * s * alpha / l = 20 * -100 / 400
	if got := ps[1].VX; math.Abs(got-5) > 1e-12 {
		t.Errorf("VX = %v, want 5", got)
	}
	if math.Abs(ps[0].VY) > 1e-6 || math.Abs(ps[1].VY) > 1e-6 {
		t.Error("unexpected vertical velocity")
	}
}

func TestManyBodyDistanceMax(t *testing.T) {
	ps := []Particle{{X: 0}, {X: 300}}
	m := &ManyBody{Strength: -100, DistanceMin: 1, DistanceMax: 300}
	m.Apply(ps, 1)
	if ps[0].VX != 0 || ps[1].VX != 0 {
		t.Errorf("pair at DistanceMax interacted: %v %v", ps[0].VX, ps[1].VX)
	}
}

func TestManyBodyAlphaScaling(t *testing.T) {
	a := []Particle{{X: 0}, {X: 10}}
	b := []Particle{{X: 0}, {X: 10}}
	(&ManyBody{Strength: -30, DistanceMin: 1}).Apply(a, 1)
	(&ManyBody{Strength: -30, DistanceMin: 1}).Apply(b, 0.5)
	if math.Abs(a[1].VX-2*b[1].VX) > 1e-12 {
		t.Errorf("alpha scaling: %v vs %v", a[1].VX, b[1].VX)
	}
}

func TestBarnesHutMatchesExact(t *testing.T) {
	t.Run("ThetaZero", func(t *testing.T) {
		exact := randomParticles(300, 11)
		approx := slices.Clone(exact)

		(&ManyBody{Strength: -100, DistanceMin: 1, DistanceMax: 300}).Apply(exact, 1)
		(&ManyBody{Strength: -100, DistanceMin: 1, DistanceMax: 300, Theta: 0, Threshold: 1}).Apply(approx, 1)

		for i := range exact {
			if math.Abs(exact[i].VX-approx[i].VX) > 1e-9 || math.Abs(exact[i].VY-approx[i].VY) > 1e-9 {
				t.Fatalf("particle %d: exact (%v,%v) approx (%v,%v)",
					i, exact[i].VX, exact[i].VY, approx[i].VX, approx[i].VY)
			}
		}
	})

	t.Run("DefaultTheta", func(t *testing.T) {
		exact := randomParticles(600, 12)
		approx := slices.Clone(exact)
		v0 := slices.Clone(exact)

		(&ManyBody{Strength: -100, DistanceMin: 1}).Apply(exact, 1)
		(&ManyBody{Strength: -100, DistanceMin: 1, Theta: 0.9, Threshold: 1}).Apply(approx, 1)

		var errSum, magSum float64
		for i := range exact {
			ex, ey := exact[i].VX-v0[i].VX, exact[i].VY-v0[i].VY
			ax, ay := approx[i].VX-v0[i].VX, approx[i].VY-v0[i].VY
			errSum += math.Hypot(ex-ax, ey-ay)
			magSum += math.Hypot(ex, ey)
		}
		if rel := errSum / magSum; rel > 0.25 {
			t.Errorf("relative error %.3f exceeds 0.25", rel)
		}
	})
}

func TestBarnesHutCoincident(t *testing.T) {
	ps := make([]Particle, 600)
	for i := range ps {
		ps[i] = Particle{Index: i, X: 5, Y: 5}
	}
	m := &ManyBody{Strength: -100, DistanceMin: 1, DistanceMax: 300, Theta: 0.9, Threshold: 512}
	m.Initialize(ps, rand.New(rand.NewPCG(1, 1)))
	m.Apply(ps, 1)

	for i := range ps {
		if math.IsNaN(ps[i].VX) || math.IsInf(ps[i].VX, 0) {
			t.Fatalf("particle %d velocity not finite: %v", i, ps[i].VX)
		}
	}
}

func TestBarnesHutDuplicateFallsBackToExact(t *testing.T) {
	exact := randomParticles(600, 13)
	exact[1].X, exact[1].Y = exact[0].X, exact[0].Y
	approx := slices.Clone(exact)

	for _, tc := range []struct {
		ps        []Particle
		threshold int
	}{
		{exact, 0},
		{approx, 512},
	} {
		m := &ManyBody{Strength: -100, DistanceMin: 1, Theta: 0.9, Threshold: tc.threshold}
		m.Initialize(tc.ps, rand.New(rand.NewPCG(4, 4)))
		m.Apply(tc.ps, 1)
	}

	for i := range exact {
		if exact[i] != approx[i] {
			t.Fatalf("particle %d: exact %+v approx %+v", i, exact[i], approx[i])
		}
	}
}

func TestCollide(t *testing.T) {
	t.Run("SeparatesOverlap", func(t *testing.T) {
		ps := []Particle{{X: 0, Radius: 5}, {X: 4, Radius: 5}}
		(&Collide{Multiplier: 1, Strength: 1}).Apply(ps, 0)
		if !(ps[0].VX < 0 && ps[1].VX > 0) {
			t.Errorf("velocities %v %v, want apart", ps[0].VX, ps[1].VX)
		}
		// Equal radii share the correction: (10-4)/4*4 split in half.
		if math.Abs(ps[1].VX-3) > 1e-12 || math.Abs(ps[0].VX+3) > 1e-12 {
			t.Errorf("velocities %v %v, want -3 and 3", ps[0].VX, ps[1].VX)
		}
	})

	t.Run("SmallerMovesMore", func(t *testing.T) {
		ps := []Particle{{X: 0, Radius: 10}, {X: 5, Radius: 2}}
		(&Collide{Multiplier: 1, Strength: 1}).Apply(ps, 0)
		if math.Abs(ps[1].VX) <= math.Abs(ps[0].VX) {
			t.Errorf("small %v should move more than large %v", ps[1].VX, ps[0].VX)
		}
	})

	t.Run("NoOverlap", func(t *testing.T) {
		ps := []Particle{{X: 0, Radius: 5}, {X: 30, Radius: 5}}
		(&Collide{Multiplier: 2, Strength: 1}).Apply(ps, 1)
		if ps[0].VX != 0 || ps[1].VX != 0 {
			t.Error("separated circles were moved")
		}
	})

	t.Run("Multiplier", func(t *testing.T) {
		ps := []Particle{{X: 0, Radius: 5}, {X: 15, Radius: 5}}
		(&Collide{Multiplier: 2, Strength: 1}).Apply(ps, 1)
		if ps[0].VX >= 0 {
			t.Error("multiplier 2 should make radius-5 circles 15 apart overlap")
		}
	})

	t.Run("PredictedPosition", func(t *testing.T) {
		ps := []Particle{{X: 0, Radius: 5}, {X: 30, VX: -25, Radius: 5}}
		(&Collide{Multiplier: 1, Strength: 1}).Apply(ps, 1)
		if ps[0].VX >= 0 {
			t.Error("collision on predicted position not resolved")
		}
	})
}

func TestLink(t *testing.T) {
	t.Run("PullsTogether", func(t *testing.T) {
		ps := []Particle{{X: 0}, {X: 100}}
		l := NewLink([]Edge{{0, 1}}, 50, 1)
		l.Apply(ps, 1)
		// k = (100-50)/100 = 0.5 -> x = 50, split evenly.
		if math.Abs(ps[0].VX-25) > 1e-12 || math.Abs(ps[1].VX+25) > 1e-12 {
			t.Errorf("velocities %v %v, want 25 and -25", ps[0].VX, ps[1].VX)
		}
	})

	t.Run("PushesApart", func(t *testing.T) {
		ps := []Particle{{X: 0}, {X: 10}}
		NewLink([]Edge{{0, 1}}, 50, 0.3).Apply(ps, 1)
		if !(ps[0].VX < 0 && ps[1].VX > 0) {
			t.Errorf("velocities %v %v, want apart", ps[0].VX, ps[1].VX)
		}
	})

	t.Run("SelfEdgeIgnored", func(t *testing.T) {
		ps := []Particle{{X: 3, Y: 4}}
		NewLink([]Edge{{0, 0}}, 50, 1).Apply(ps, 1)
		if ps[0].VX != 0 || ps[0].VY != 0 {
			t.Error("self edge moved particle")
		}
	})

	t.Run("OutOfRangeIgnored", func(t *testing.T) {
		ps := []Particle{{X: 0}, {X: 100}}
		NewLink([]Edge{{0, 7}}, 50, 1).Apply(ps, 1)
		if ps[0].VX != 0 || ps[1].VX != 0 {
			t.Error("invalid edge moved particles")
		}
	})
}

func TestPosition(t *testing.T) {
	ps := []Particle{{X: 10, Y: -20}}
	(&Position{Axis: AxisX, Strength: 0.1}).Apply(ps, 0.5)
	(&Position{Axis: AxisY, Strength: 0.1}).Apply(ps, 0.5)
	if math.Abs(ps[0].VX+0.5) > 1e-12 || math.Abs(ps[0].VY-1) > 1e-12 {
		t.Errorf("velocity = (%v, %v), want (-0.5, 1)", ps[0].VX, ps[0].VY)
	}
}

func TestParamsClamp(t *testing.T) {
	d := DefaultParams()
	tests := []struct {
		name  string
		edit  func(*Params)
		check func(Params) bool
	}{
		{"Defaults", func(*Params) {}, func(p Params) bool { return p == d }},
		{"NegativeMultiplier", func(p *Params) { p.CollideMultiplier = -3 }, func(p Params) bool { return p.CollideMultiplier == 0 }},
		{"HugeMultiplier", func(p *Params) { p.CollideMultiplier = 99 }, func(p Params) bool { return p.CollideMultiplier == MaxCollideMultiplier }},
		{"ChargeTooStrong", func(p *Params) { p.Charge = -5000 }, func(p Params) bool { return p.Charge == MinCharge }},
		{"ChargeAttractive", func(p *Params) { p.Charge = 40 }, func(p Params) bool { return p.Charge == MaxCharge }},
		{"LinkStrengthHigh", func(p *Params) { p.LinkStrength = 2 }, func(p Params) bool { return p.LinkStrength == 1 }},
		{"LinkStrengthNegative", func(p *Params) { p.LinkStrength = -1 }, func(p Params) bool { return p.LinkStrength == 0 }},
		{"NaN", func(p *Params) { p.LinkStrength = math.NaN() }, func(p Params) bool { return p.LinkStrength == d.LinkStrength }},
		{"DistanceMaxBelowMin", func(p *Params) { p.ChargeDistanceMin = 10; p.ChargeDistanceMax = 5 }, func(p Params) bool { return p.ChargeDistanceMax == 10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.edit(&p)
			if got := p.Clamp(); !tt.check(got) {
				t.Errorf("Clamp = %+v", got)
			}
		})
	}
}

func TestDeterministicJiggle(t *testing.T) {
	run := func() []Particle {
		ps := make([]Particle, 10)
		for i := range ps {
			ps[i] = Particle{Index: i, Radius: 4}
		}
		f := NewField(rand.New(rand.NewPCG(42, 42)))
		RegisterStandard(f, DefaultParams(), ringEdges(10))
		f.Initialize(ps)
		f.Apply(ps, 1)
		return ps
	}
	a, b := run(), run()
	if !slices.Equal(a, b) {
		t.Error("same seed produced different velocities")
	}
	moved := false
	for _, p := range a {
		if p.VX != 0 || p.VY != 0 {
			moved = true
		}
	}
	if !moved {
		t.Error("coincident particles were not separated")
	}
}
