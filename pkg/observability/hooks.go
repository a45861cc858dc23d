// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional: libraries call the registered hooks, which
// default to no-ops, and the binary decides what to plug in. The CLI registers
// logging implementations when run with --verbose.
//
// # Hook Categories
//
//   - [SimulationHooks]: restarts, state transitions and convergence of a
//     layout simulation.
//   - [CacheHooks]: layout snapshot cache hits, misses and writes.
//   - [HTTPHooks]: outgoing requests made by graph sources.
//
// Hooks are stored atomically, so they may be swapped while simulations run;
// in practice the binary registers them once before starting work.
//
//	observability.SetSimulationHooks(logHooks)
//	observability.Simulation().OnRestart(alpha)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives events from the layout simulation. Calls happen on
// the goroutine that drives the simulation and must not block.
type SimulationHooks interface {
	// OnRestart records a reheat to alpha.
	OnRestart(alpha float64)

	// OnStateChange records a transition between Idle, Running and Cooling.
	OnStateChange(from, to string, tick int)

	// OnConverged records the simulation coming to rest.
	OnConverged(ticks int, elapsed time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnRestart(float64)                 {}
func (NoopSimulationHooks) OnStateChange(string, string, int) {}
func (NoopSimulationHooks) OnConverged(int, time.Duration)    {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// slot holds one registered hook set and falls back to def when empty.
type slot[T any] struct {
	p   atomic.Pointer[T]
	def T
}

func (s *slot[T]) load() T {
	if h := s.p.Load(); h != nil {
		return *h
	}
	return s.def
}

func (s *slot[T]) store(h T) { s.p.Store(&h) }

func (s *slot[T]) reset() { s.p.Store(nil) }

var (
	simulationHooks = &slot[SimulationHooks]{def: NoopSimulationHooks{}}
	cacheHooks      = &slot[CacheHooks]{def: NoopCacheHooks{}}
	httpHooks       = &slot[HTTPHooks]{def: NoopHTTPHooks{}}
)

// SetSimulationHooks registers simulation hooks. Nil is ignored.
func SetSimulationHooks(h SimulationHooks) {
	if h != nil {
		simulationHooks.store(h)
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.store(h)
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpHooks.store(h)
	}
}

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks { return simulationHooks.load() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheHooks.load() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpHooks.load() }

// Reset restores the no-op defaults.
func Reset() {
	simulationHooks.reset()
	cacheHooks.reset()
	httpHooks.reset()
}
