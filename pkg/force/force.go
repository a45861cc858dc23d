package force

import (
	"math/rand/v2"
	"slices"
)

// Particle is the kinematic state of one node. Index matches the node's
// position in the graph; Radius is copied from it at simulation start.
type Particle struct {
	Index  int
	X, Y   float64
	VX, VY float64

	// Fixed pins the particle at (FX, FY) during integration.
	Fixed  bool
	FX, FY float64

	Radius float64
}

// Edge is a link between two particle indices.
type Edge struct {
	Source int
	Target int
}

// Force contributes a velocity delta to each particle for one tick.
type Force interface {
	Apply(ps []Particle, alpha float64)
}

// Initializer is implemented by forces that precompute per-particle state.
// It runs when the force is registered on an initialized field and whenever
// the field is re-initialized.
type Initializer interface {
	Initialize(ps []Particle, rng *rand.Rand)
}

// Entry is a named force with its activation flag.
type Entry struct {
	Name    string
	Force   Force
	Enabled bool
}

// Field is an ordered registry of uniquely named forces.
// It is not safe for concurrent use.
type Field struct {
	entries []Entry
	rng     *rand.Rand
	ps      []Particle
}

// NewField returns an empty field. A nil rng uses a fixed seed.
func NewField(rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	return &Field{rng: rng}
}

// Initialize binds the field to a particle set and initializes every force.
func (f *Field) Initialize(ps []Particle) {
	f.ps = ps
	for _, e := range f.entries {
		f.initialize(e.Force)
	}
}

func (f *Field) initialize(force Force) {
	if f.ps == nil {
		return
	}
	if in, ok := force.(Initializer); ok {
		in.Initialize(f.ps, f.rng)
	}
}

// Register adds an enabled force under name. An existing entry with the same
// name is replaced in place, keeping its position and activation flag.
func (f *Field) Register(name string, force Force) {
	f.initialize(force)
	for i := range f.entries {
		if f.entries[i].Name == name {
			f.entries[i].Force = force
			return
		}
	}
	f.entries = append(f.entries, Entry{Name: name, Force: force, Enabled: true})
}

// Remove deletes the named force. It reports whether the name was present.
func (f *Field) Remove(name string) bool {
	i := f.find(name)
	if i < 0 {
		return false
	}
	f.entries = slices.Delete(f.entries, i, i+1)
	return true
}

// Enable toggles the named force. It reports whether the name was present.
func (f *Field) Enable(name string, on bool) bool {
	i := f.find(name)
	if i < 0 {
		return false
	}
	f.entries[i].Enabled = on
	return true
}

// Get returns the named force.
func (f *Field) Get(name string) (Force, bool) {
	i := f.find(name)
	if i < 0 {
		return nil, false
	}
	return f.entries[i].Force, true
}

// Enabled reports whether the named force exists and is active.
func (f *Field) Enabled(name string) bool {
	i := f.find(name)
	return i >= 0 && f.entries[i].Enabled
}

// Names returns the registered names in application order.
func (f *Field) Names() []string {
	names := make([]string, len(f.entries))
	for i, e := range f.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the registry.
func (f *Field) Entries() []Entry {
	return slices.Clone(f.entries)
}

// Apply runs every enabled force in registration order.
func (f *Field) Apply(ps []Particle, alpha float64) {
	for _, e := range f.entries {
		if e.Enabled {
			e.Force.Apply(ps, alpha)
		}
	}
}

func (f *Field) find(name string) int {
	return slices.IndexFunc(f.entries, func(e Entry) bool { return e.Name == name })
}

// jiggle returns a tiny non-zero offset used to separate coincident points.
func jiggle(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 1e-6
}

// defaultRand is used by forces applied without initialization.
func defaultRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}
