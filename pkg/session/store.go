package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coauthornet/pkg/graph"
)

// Store keeps live sessions by id.
type Store interface {
	// Create starts a session for g and registers it.
	Create(ctx context.Context, g *graph.Graph, opts Options) (*Session, error)

	// Get returns a live session, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete closes and removes a session, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Cleanup closes sessions idle for longer than ttl and returns how many.
	Cleanup(ctx context.Context, ttl time.Duration) (int, error)

	// Len returns the number of live sessions.
	Len() int

	// Close tears down every session.
	Close() error
}

// MemoryStore is an in-process [Store].
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *log.Logger
	base     context.Context
	cancel   context.CancelFunc
}

// NewMemoryStore returns an empty store. Session loops outlive the contexts
// passed to Create; they stop on Delete, Cleanup or Close.
func NewMemoryStore(logger *log.Logger) *MemoryStore {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &MemoryStore{
		sessions: make(map[string]*Session),
		logger:   logger,
		base:     ctx,
		cancel:   cancel,
	}
}

// Create implements [Store].
func (m *MemoryStore) Create(ctx context.Context, g *graph.Graph, opts Options) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = m.logger
	}
	s := Start(m.base, g, opts)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get implements [Store].
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete implements [Store].
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

// Cleanup implements [Store].
func (m *MemoryStore) Cleanup(_ context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)
	var stale []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		m.logger.Info("expired sessions", "count", len(stale))
	}
	return len(stale), nil
}

// Len implements [Store].
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close implements [Store].
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	m.cancel()
	for _, s := range all {
		<-s.Done()
	}
	return nil
}
