package sim

import (
	"math"

	"github.com/matzehuels/coauthornet/pkg/force"
	"github.com/matzehuels/coauthornet/pkg/observability"
)

// Defaults matching a d3 force simulation.
const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.4
	DefaultSeed          = 0x5eed
)

// DefaultAlphaDecay cools alpha from 1 to alphaMin in about 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

type options struct {
	params        force.Params
	alphaMin      float64
	alphaDecay    float64
	velocityDecay float64
	seed          uint64
	clock         Clock
	sink          Sink
	hooks         observability.SimulationHooks
}

// Option configures [New].
type Option func(*options)

// WithParams sets the initial force parameters. They are clamped.
func WithParams(p force.Params) Option {
	return func(o *options) { o.params = p }
}

// WithAlphaMin sets the rest threshold.
func WithAlphaMin(v float64) Option {
	return func(o *options) {
		if v > 0 {
			o.alphaMin = v
		}
	}
}

// WithAlphaDecay sets the per-tick fraction by which alpha approaches alphaTarget.
func WithAlphaDecay(v float64) Option {
	return func(o *options) {
		if v > 0 && v < 1 {
			o.alphaDecay = v
		}
	}
}

// WithVelocityDecay sets the per-tick friction applied to velocities.
func WithVelocityDecay(v float64) Option {
	return func(o *options) {
		if v >= 0 && v <= 1 {
			o.velocityDecay = v
		}
	}
}

// WithSeed seeds the random source used to separate coincident particles.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithClock injects the clock used for cooldown deadlines.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithSink sets the frame consumer.
func WithSink(s Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithHooks overrides the globally registered simulation hooks.
func WithHooks(h observability.SimulationHooks) Option {
	return func(o *options) {
		if h != nil {
			o.hooks = h
		}
	}
}

func defaultOptions() options {
	return options{
		params:        force.DefaultParams(),
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: DefaultVelocityDecay,
		seed:          DefaultSeed,
		clock:         SystemClock{},
		hooks:         observability.Simulation(),
	}
}
