// Package server exposes live layout sessions over HTTP.
//
// Routes:
//
//	POST   /sessions                     create a session from a source or inline payload
//	GET    /sessions/{id}/frame          current frame as JSON or SVG
//	GET    /sessions/{id}/stream         server-sent events, frames throttled
//	POST   /sessions/{id}/events         dispatch one interaction event
//	GET    /sessions/{id}/nodes/{nodeID} node metadata and position
//	DELETE /sessions/{id}                close a session, caching its layout
//	GET    /healthz                      liveness and build info
package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/coauthornet/pkg/config"
	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/pipeline"
	"github.com/matzehuels/coauthornet/pkg/session"
	"github.com/matzehuels/coauthornet/pkg/source"
)

const shutdownTimeout = 5 * time.Second

// Options configures a [Server].
type Options struct {
	Config config.ServerConfig

	// Store holds live sessions. Nil creates a memory store.
	Store session.Store
	// Runner loads sources and caches layouts. Nil disables the cache.
	Runner *pipeline.Runner
	// Session is the template for new sessions.
	Session session.Options
	// Source is passed to every source load.
	Source    source.Options
	GraphOpts []graph.Option
	// AllowLocal permits file and stdin sources in create requests.
	AllowLocal bool

	Logger *log.Logger
}

// Server serves layout sessions.
type Server struct {
	cfg        config.ServerConfig
	store      session.Store
	runner     *pipeline.Runner
	template   session.Options
	sourceOpts source.Options
	graphOpts  []graph.Option
	allowLocal bool
	logger     *log.Logger
}

// New returns a server. Zero config values take their defaults.
func New(opts Options) *Server {
	d := config.Default().Server
	cfg := opts.Config
	if cfg.Addr == "" {
		cfg.Addr = d.Addr
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = d.SessionTTL
	}
	if cfg.StreamFPS <= 0 {
		cfg.StreamFPS = d.StreamFPS
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = d.MaxBodyBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	store := opts.Store
	if store == nil {
		store = session.NewMemoryStore(logger)
	}
	runner := opts.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	tmpl := opts.Session
	if tmpl.Logger == nil {
		tmpl.Logger = logger
	}
	return &Server{
		cfg:        cfg,
		store:      store,
		runner:     runner,
		template:   tmpl,
		sourceOpts: opts.Source,
		graphOpts:  opts.GraphOpts,
		allowLocal: opts.AllowLocal,
		logger:     logger,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDelete)
			r.Get("/frame", s.handleFrame)
			r.Get("/stream", s.handleStream)
			r.Post("/events", s.handleEvent)
			r.Get("/nodes/{nodeID}", s.handleNode)
		})
	})
	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down and closes every session.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go s.cleanupLoop(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	var err error
	select {
	case err = <-errc:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
	}
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	if err == http.ErrServerClosed {
		err = nil
	}
	return err
}

// cleanupLoop expires idle sessions.
func (s *Server) cleanupLoop(ctx context.Context) {
	every := max(s.cfg.SessionTTL/4, time.Second)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.store.Cleanup(ctx, s.cfg.SessionTTL); err != nil {
				s.logger.Warn("session cleanup", "err", err)
			}
		}
	}
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
