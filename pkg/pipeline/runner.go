package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coauthornet/pkg/cache"
	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/sim"
	"github.com/matzehuels/coauthornet/pkg/source"
)

// Runner executes pipelines against a snapshot cache. It holds no per-run
// state and may be shared between goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching; a nil keyer
// means [cache.DefaultKeyer].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load, layout and render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	res := &Result{Artifacts: make(map[string][]byte)}

	start := time.Now()
	g, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	res.Graph, res.GraphHash = g, g.Hash()
	res.Stats.NodeCount, res.Stats.LinkCount = g.NodeCount(), g.LinkCount()
	res.Stats.LoadTime = time.Since(start)
	r.Logger.Info("loaded graph", "nodes", g.NodeCount(), "links", g.LinkCount(), "duration", res.Stats.LoadTime)

	start = time.Now()
	s, info, err := r.Layout(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res.CacheInfo = info
	res.Frame, res.Snapshot = s.Frame(), s.Snapshot()
	res.Stats.Ticks, res.Stats.Converged = s.Tick(), s.State() == sim.Idle
	res.Stats.LayoutTime = time.Since(start)
	r.Logger.Info("computed layout",
		"ticks", res.Stats.Ticks,
		"converged", res.Stats.Converged,
		"cached", info.LayoutHit,
		"warm", info.WarmStart,
		"duration", res.Stats.LayoutTime)

	start = time.Now()
	artifacts, err := r.Render(ctx, res.Frame, res.Snapshot, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifacts = artifacts
	res.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", res.Stats.RenderTime)
	return res, nil
}

// Load reads the source and builds the graph.
func (r *Runner) Load(ctx context.Context, opts Options) (*graph.Graph, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	so := opts.SourceOpts
	if so.Logger == nil {
		so.Logger = opts.Logger
	}
	p, err := source.Load(ctx, opts.Source, so)
	if err != nil {
		return nil, err
	}
	g, err := graph.Build(p, opts.GraphOpts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedGraph, err, "build %s", opts.Source)
	}
	return g, nil
}

// Layout simulates g to rest. An exact cached snapshot is restored instead,
// and with Warm set the graph's last snapshot seeds the positions.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) (*sim.Simulation, CacheInfo, error) {
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()

	var info CacheInfo
	hash := g.Hash()
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	s := sim.New(g, opts.simOptions()...)

	if !opts.Refresh {
		if snap, ok := r.load(ctx, key, hash); ok {
			s.Restore(snap)
			// One step below alphaMin lets the simulation report rest.
			s.Restart(min(snap.Alpha, s.AlphaMin()/2))
			s.Step()
			info.LayoutHit = true
			return s, info, nil
		}
	}
	if opts.Warm {
		if snap, ok := r.load(ctx, r.latestKey(hash), hash); ok {
			n := s.Restore(snap)
			s.Restart(opts.WarmAlpha)
			info.WarmStart = true
			opts.Logger.Debug("warm start", "restored", n, "alpha", opts.WarmAlpha)
		}
	}

	if err := r.run(ctx, s, opts.MaxTicks); err != nil {
		return nil, info, err
	}

	if !opts.NoStore {
		snap := s.Snapshot()
		if err := cache.StoreSnapshot(ctx, r.Cache, key, snap, opts.TTL); err != nil {
			opts.Logger.Warn("cache layout", "err", err)
		} else {
			_ = cache.StoreSnapshot(ctx, r.Cache, r.latestKey(hash), snap, opts.TTL)
			info.Stored = true
		}
	}
	return s, info, nil
}

// run steps in batches so a cancelled context stops a long layout.
func (r *Runner) run(ctx context.Context, s *sim.Simulation, maxTicks int) error {
	const batch = 50
	for n := 0; maxTicks <= 0 || n < maxTicks; {
		if err := ctx.Err(); err != nil {
			return err
		}
		step := batch
		if maxTicks > 0 {
			step = min(batch, maxTicks-n)
		}
		done := s.Run(step)
		n += done
		if done < step {
			return nil
		}
	}
	return nil
}

func (r *Runner) load(ctx context.Context, key, graphHash string) (sim.Snapshot, bool) {
	snap, err := cache.LoadSnapshot(ctx, r.Cache, key)
	if err != nil {
		if !stderrors.Is(err, cache.ErrNotFound) {
			r.Logger.Warn("read cached layout", "err", err)
		}
		return sim.Snapshot{}, false
	}
	if snap.GraphHash != graphHash {
		return sim.Snapshot{}, false
	}
	return snap, true
}

// LatestSnapshot returns the most recent cached layout of g under any
// parameters.
func (r *Runner) LatestSnapshot(ctx context.Context, g *graph.Graph) (sim.Snapshot, bool) {
	hash := g.Hash()
	return r.load(ctx, r.latestKey(hash), hash)
}

// StoreLatest records snap as the most recent layout of its graph.
func (r *Runner) StoreLatest(ctx context.Context, snap sim.Snapshot, ttl time.Duration) error {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return cache.StoreSnapshot(ctx, r.Cache, r.latestKey(snap.GraphHash), snap, ttl)
}

// latestKey addresses the most recent snapshot of a graph regardless of
// parameters.
func (r *Runner) latestKey(graphHash string) string {
	return r.Keyer.LayoutKey(graphHash, cache.LayoutKeyOpts{})
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
