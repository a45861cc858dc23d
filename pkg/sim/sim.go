package sim

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/coauthornet/pkg/force"
	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/observability"
)

// Initial phyllotaxis placement.
const initialRadius = 10.0

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Simulation is a force-directed layout of one graph.
// It is not safe for concurrent use; see package session for a shared loop.
type Simulation struct {
	g     *graph.Graph
	ps    []force.Particle
	edges []force.Edge
	field *force.Field

	params        force.Params
	alpha         float64
	alphaTarget   float64
	alphaMin      float64
	alphaDecay    float64
	velocityDecay float64

	tick     int
	state    State
	stopped  bool
	cooldown time.Time // zero when no cooldown is pending
	started  time.Time // start of the current run, for convergence timing

	clock Clock
	sink  Sink
	hooks observability.SimulationHooks
}

// New places every node on a phyllotaxis spiral, registers the standard
// forces and returns a Running simulation with alpha 1.
func New(g *graph.Graph, opts ...Option) *Simulation {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Simulation{
		g:             g,
		ps:            make([]force.Particle, g.NodeCount()),
		edges:         make([]force.Edge, g.LinkCount()),
		field:         force.NewField(rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))),
		alpha:         1,
		alphaMin:      o.alphaMin,
		alphaDecay:    o.alphaDecay,
		velocityDecay: o.velocityDecay,
		state:         Running,
		clock:         o.clock,
		sink:          o.sink,
		hooks:         o.hooks,
	}
	s.started = s.clock.Now()

	for i, n := range g.Nodes() {
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		s.ps[i] = force.Particle{Index: i, X: r * math.Cos(a), Y: r * math.Sin(a), Radius: n.Radius}
	}
	for i, l := range g.Links() {
		s.edges[i] = force.Edge{Source: l.Source, Target: l.Target}
	}

	s.field.Initialize(s.ps)
	s.Configure(o.params)
	return s
}

// Graph returns the simulated graph.
func (s *Simulation) Graph() *graph.Graph { return s.g }

// Field returns the force registry. Custom forces may be registered on it;
// [Simulation.Configure] only replaces the standard names.
func (s *Simulation) Field() *force.Field { return s.field }

// Params returns the clamped parameters of the standard forces.
func (s *Simulation) Params() force.Params { return s.params }

// Alpha returns the current energy.
func (s *Simulation) Alpha() float64 { return s.alpha }

// AlphaTarget returns the value alpha decays toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// AlphaMin returns the rest threshold.
func (s *Simulation) AlphaMin() float64 { return s.alphaMin }

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int { return s.tick }

// State returns the activity state.
func (s *Simulation) State() State { return s.state }

// Stopped reports whether [Simulation.Stop] was called.
func (s *Simulation) Stopped() bool { return s.stopped }

// Configure clamps p and re-registers the standard forces with it. Forces are
// replaced in place, so activation flags and custom forces are untouched.
// It returns the clamped parameters. It does not reheat.
func (s *Simulation) Configure(p force.Params) force.Params {
	s.params = p.Clamp()
	force.RegisterStandard(s.field, s.params, s.edges)
	return s.params
}

// Step advances one tick. It returns false without doing anything when the
// simulation is Idle or stopped.
func (s *Simulation) Step() bool {
	if s.stopped || s.state == Idle {
		return false
	}

	s.field.Apply(s.ps, s.alpha)

	keep := 1 - s.velocityDecay
	for i := range s.ps {
		p := &s.ps[i]
		if p.Fixed {
			p.X, p.Y = p.FX, p.FY
			p.VX, p.VY = 0, 0
			continue
		}
		p.VX *= keep
		p.VY *= keep
		p.X += p.VX
		p.Y += p.VY
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
	s.tick++
	s.updateState()

	if s.sink != nil {
		s.sink.Publish(s.Frame())
	}
	return true
}

// Advance fires the cooldown if its deadline has passed and then steps.
func (s *Simulation) Advance() bool {
	if s.stopped {
		return false
	}
	if !s.cooldown.IsZero() && !s.clock.Now().Before(s.cooldown) {
		s.cooldown = time.Time{}
		s.alphaTarget = 0
		if s.state != Idle {
			s.updateState()
		}
	}
	return s.Step()
}

// Run steps until the simulation is Idle or maxTicks steps were taken
// (maxTicks <= 0 means no limit). Pending cooldowns fire as the clock allows.
// It returns the number of steps taken.
func (s *Simulation) Run(maxTicks int) int {
	n := 0
	for maxTicks <= 0 || n < maxTicks {
		if !s.Advance() {
			break
		}
		n++
	}
	return n
}

// Restart sets alpha, clamped to [0, 1], and resumes stepping. The
// simulation is Running until the next step re-evaluates its heat sources.
func (s *Simulation) Restart(alpha float64) {
	if s.stopped {
		return
	}
	s.alpha = unitClamp(alpha)
	if s.state == Idle {
		s.started = s.clock.Now()
	}
	s.hooks.OnRestart(s.alpha)
	s.setState(Running)
}

// unitClamp clamps v to [0, 1]; NaN becomes 0.
func unitClamp(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return min(v, 1)
}

// SetAlphaTarget sets the value alpha decays toward. A target at or above
// alphaMin holds the simulation hot. It does not wake an Idle simulation.
func (s *Simulation) SetAlphaTarget(v float64) {
	s.alphaTarget = unitClamp(v)
	if s.state != Idle {
		s.updateState()
	}
}

// ScheduleCooldown arms the cooldown to fire after d. An already pending
// cooldown is only ever pushed later, never earlier.
func (s *Simulation) ScheduleCooldown(d time.Duration) {
	if s.stopped {
		return
	}
	deadline := s.clock.Now().Add(d)
	if s.cooldown.IsZero() || deadline.After(s.cooldown) {
		s.cooldown = deadline
	}
	if s.state != Idle {
		s.updateState()
	}
}

// CancelCooldown disarms the cooldown. It reports whether one was pending.
func (s *Simulation) CancelCooldown() bool {
	pending := !s.cooldown.IsZero()
	s.cooldown = time.Time{}
	if s.state != Idle {
		s.updateState()
	}
	return pending
}

// Cooldown returns the pending cooldown deadline.
func (s *Simulation) Cooldown() (time.Time, bool) {
	return s.cooldown, !s.cooldown.IsZero()
}

// Stop tears the simulation down: the cooldown is cancelled and every
// further step is a no-op.
func (s *Simulation) Stop() {
	s.cooldown = time.Time{}
	s.stopped = true
	s.setState(Idle)
}

func (s *Simulation) updateState() {
	switch {
	case s.alphaTarget >= s.alphaMin || !s.cooldown.IsZero():
		s.setState(Running)
	case s.alpha < s.alphaMin:
		s.setState(Idle)
	default:
		s.setState(Cooling)
	}
}

func (s *Simulation) setState(next State) {
	if next == s.state {
		return
	}
	prev := s.state
	s.state = next
	s.hooks.OnStateChange(prev.String(), next.String(), s.tick)
	if next == Idle && !s.stopped {
		s.hooks.OnConverged(s.tick, s.clock.Now().Sub(s.started))
	}
}

// =============================================================================
// Particles
// =============================================================================

func (s *Simulation) particle(id string) (*force.Particle, bool) {
	n, ok := s.g.Lookup(id)
	if !ok {
		return nil, false
	}
	return &s.ps[n.Index], true
}

// Position returns the model-space position of a node.
func (s *Simulation) Position(id string) (x, y float64, ok bool) {
	p, ok := s.particle(id)
	if !ok {
		return 0, 0, false
	}
	return p.X, p.Y, true
}

// Pin fixes a node at (x, y) until [Simulation.Unpin]. The position takes
// effect at the next step. It reports whether the node exists.
func (s *Simulation) Pin(id string, x, y float64) bool {
	p, ok := s.particle(id)
	if !ok {
		return false
	}
	p.Fixed, p.FX, p.FY = true, x, y
	return true
}

// Unpin releases a pinned node back to the forces.
func (s *Simulation) Unpin(id string) bool {
	p, ok := s.particle(id)
	if !ok {
		return false
	}
	p.Fixed, p.FX, p.FY = false, 0, 0
	return true
}

// Pinned returns the pin of a node, if any.
func (s *Simulation) Pinned(id string) (x, y float64, ok bool) {
	p, found := s.particle(id)
	if !found || !p.Fixed {
		return 0, 0, false
	}
	return p.FX, p.FY, true
}

// Particles returns a copy of the kinematic state, index-aligned with the graph.
func (s *Simulation) Particles() []force.Particle {
	out := make([]force.Particle, len(s.ps))
	copy(out, s.ps)
	return out
}

// Frame builds the current frame.
func (s *Simulation) Frame() Frame {
	nodes := s.g.Nodes()
	f := Frame{
		Tick:  s.tick,
		Alpha: s.alpha,
		State: s.state,
		Nodes: make([]NodeFrame, len(nodes)),
		Links: make([]LinkFrame, len(s.edges)),
	}
	for i, n := range nodes {
		p := &s.ps[i]
		f.Nodes[i] = NodeFrame{ID: n.ID, X: p.X, Y: p.Y, Radius: n.Radius, Color: n.Color, Fixed: p.Fixed}
	}
	for i, e := range s.edges {
		a, b := &s.ps[e.Source], &s.ps[e.Target]
		f.Links[i] = LinkFrame{
			Source: nodes[e.Source].ID,
			Target: nodes[e.Target].ID,
			X1:     a.X,
			Y1:     a.Y,
			X2:     b.X,
			Y2:     b.Y,
		}
	}
	return f
}
