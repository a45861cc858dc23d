// Package session shares one live layout between goroutines.
//
// The core packages (sim, interact) are single-threaded. A [Session] wraps a
// simulation and its controller in one loop goroutine that is the only
// mutation point: events arrive through a channel, ticks come from a ticker,
// and every completed frame fans out to subscribers.
//
// # Architecture
//
//	HTTP handler / TUI ──Dispatch──▶ commands ──▶ loop ──▶ sim.Advance
//	                                                 │
//	                 Subscribe ◀── Update fan-out ◀──┘
//
// Sessions are kept in a [Store]. The in-memory store assigns UUIDs and
// expires sessions that have been idle for longer than their TTL.
//
// # Usage
//
//	store := session.NewMemoryStore(logger)
//	sess, err := store.Create(ctx, g, session.Options{})
//	updates, cancel := sess.Subscribe()
//	defer cancel()
//	sess.Dispatch(ctx, interact.Click{NodeID: "Ada"})
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/interact"
	"github.com/matzehuels/coauthornet/pkg/sim"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrClosed is returned when a session has been torn down.
	ErrClosed = errors.New("session closed")
)

// Default durations.
const (
	// DefaultInterval is one tick per animation frame at 60 Hz.
	DefaultInterval = time.Second / 60

	// DefaultTTL is how long a session may go without activity.
	DefaultTTL = 30 * time.Minute

	// subscriberBuffer bounds the updates queued per subscriber.
	subscriberBuffer = 32
)

// Update kinds.
const (
	KindFrame        = "frame"
	KindHoverChanged = "hoverChanged"
	KindNodeSelected = "nodeSelected"
)

// Update is one message to a subscriber. Exactly one payload is set, except
// for a hoverChanged update with a nil Highlight, which means hover ended.
type Update struct {
	Kind      string              `json:"type"`
	Frame     *sim.Frame          `json:"frame,omitempty"`
	Highlight *interact.Highlight `json:"highlight,omitempty"`
	Selected  *graph.Metadata     `json:"selected,omitempty"`
}

// Options configures a session.
type Options struct {
	// Interval between ticks. Zero uses DefaultInterval.
	Interval time.Duration
	// Interaction tunes the controller. Zero values use interact.DefaultConfig.
	Interaction interact.Config
	// Sim options forwarded to sim.New. A sink option is overridden.
	Sim []sim.Option
	// Warm, if non-nil, restores positions before the first tick.
	Warm *sim.Snapshot
	// Logger receives lifecycle messages. Nil discards them.
	Logger *log.Logger
}

// Session is a live, concurrently accessible layout.
type Session struct {
	ID      string
	Created time.Time

	graph    *graph.Graph
	interval time.Duration
	logger   *log.Logger
	commands chan func()
	done     chan struct{}
	cancel   context.CancelFunc

	// Owned by the loop goroutine.
	sim  *sim.Simulation
	ctrl *interact.Controller

	mu         sync.Mutex
	latest     sim.Frame
	lastActive time.Time
	subs       map[int]chan Update
	nextSub    int
	closed     bool
}

// Start builds a session for g and starts its loop. The loop runs until ctx
// is cancelled or [Session.Close] is called.
func Start(ctx context.Context, g *graph.Graph, opts Options) *Session {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Interaction == (interact.Config{}) {
		opts.Interaction = interact.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		ID:         uuid.NewString(),
		Created:    time.Now(),
		graph:      g,
		interval:   opts.Interval,
		commands:   make(chan func()),
		done:       make(chan struct{}),
		cancel:     cancel,
		lastActive: time.Now(),
		subs:       make(map[int]chan Update),
	}
	s.logger = opts.Logger.With("session", s.ID)

	simOpts := append(append([]sim.Option(nil), opts.Sim...), sim.WithSink(sim.SinkFunc(s.publishFrame)))
	s.sim = sim.New(g, simOpts...)
	if opts.Warm != nil {
		n := s.sim.Restore(*opts.Warm)
		s.logger.Debug("warm start", "restored", n)
	}
	s.ctrl = interact.New(s.sim, opts.Interaction, interact.ListenerFuncs{
		OnHover: func(h *interact.Highlight) {
			s.broadcast(Update{Kind: KindHoverChanged, Highlight: h})
		},
		OnSelect: func(m graph.Metadata) {
			s.broadcast(Update{Kind: KindNodeSelected, Selected: &m})
		},
	})
	s.latest = s.sim.Frame()

	s.logger.Info("session started", "nodes", g.NodeCount(), "links", g.LinkCount())
	go s.run(ctx)
	return s
}

func (s *Session) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.teardown()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.commands:
			cmd()
		case <-ticker.C:
			s.sim.Advance()
		}
	}
}

func (s *Session) teardown() {
	s.sim.Stop()

	s.mu.Lock()
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.mu.Unlock()

	close(s.done)
	s.logger.Info("session closed", "ticks", s.sim.Tick())
}

// Graph returns the immutable graph of the session.
func (s *Session) Graph() *graph.Graph { return s.graph }

// Done is closed once the loop has stopped.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close stops the loop, cancels the cooldown timer and closes every
// subscriber channel. It blocks until teardown completed.
func (s *Session) Close() {
	s.cancel()
	<-s.done
}

// Do runs fn on the loop goroutine and waits for it to return. fn may use the
// simulation and controller freely but must not call back into s.
func (s *Session) Do(ctx context.Context, fn func(*sim.Simulation, *interact.Controller)) error {
	finished := make(chan struct{})
	cmd := func() {
		defer close(finished)
		fn(s.sim, s.ctrl)
	}
	select {
	case s.commands <- cmd:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	s.touch()
	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Dispatch hands an event to the controller on the loop goroutine.
func (s *Session) Dispatch(ctx context.Context, e interact.Event) error {
	return s.Do(ctx, func(_ *sim.Simulation, c *interact.Controller) { c.Dispatch(e) })
}

// Snapshot captures the current layout.
func (s *Session) Snapshot(ctx context.Context) (sim.Snapshot, error) {
	var snap sim.Snapshot
	err := s.Do(ctx, func(sm *sim.Simulation, _ *interact.Controller) { snap = sm.Snapshot() })
	return snap, err
}

// Latest returns the most recently published frame.
func (s *Session) Latest() sim.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Subscribe registers for updates. The returned function unsubscribes.
// Slow subscribers miss updates rather than stalling the loop. The channel is
// closed when the session closes.
func (s *Session) Subscribe() (<-chan Update, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Update, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.lastActive = time.Now()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				close(c)
				delete(s.subs, id)
				s.lastActive = time.Now()
			}
		})
	}
}

// LastActive returns the time of the last command sent to the session or of
// the last subscriber change. A session with subscribers is active now.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subs) > 0 {
		return time.Now()
	}
	return s.lastActive
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Session) publishFrame(f sim.Frame) {
	s.mu.Lock()
	s.latest = f
	s.mu.Unlock()
	s.broadcast(Update{Kind: KindFrame, Frame: &f})
}

func (s *Session) broadcast(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- u:
		default:
		}
	}
}
