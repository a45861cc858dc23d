// Package pipeline runs a co-authorship layout headlessly.
//
// The pipeline has three stages:
//
//  1. Load: read a payload from a source URI and build the [graph.Graph]
//  2. Layout: simulate until the layout rests, or reuse a cached snapshot
//  3. Render: export the final frame as SVG, JSON, DOT or PNG
//
// The CLI `layout` command and the HTTP server's warm start both go through
// [Runner], so cache keys and defaults stay identical.
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "coauthors.json",
//	    Formats: []string{"svg", "json"},
//	})
//	os.WriteFile("layout.svg", res.Artifacts["svg"], 0o644)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coauthornet/pkg/cache"
	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/force"
	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/render"
	"github.com/matzehuels/coauthornet/pkg/sim"
	"github.com/matzehuels/coauthornet/pkg/source"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxTicks caps a headless run. A cold start rests after about 300.
	DefaultMaxTicks = 1000

	// DefaultWarmAlpha reheats a layout restored from an older snapshot.
	DefaultWarmAlpha = 0.3

	// DefaultTTL keeps snapshots for a week.
	DefaultTTL = 7 * 24 * time.Hour
)

// Output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatPNG      = "png"
	FormatSnapshot = "snapshot"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatJSON, FormatDOT, FormatPNG, FormatSnapshot}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Load
	Source     string
	SourceOpts source.Options
	GraphOpts  []graph.Option

	// Layout
	Params    force.Params
	Seed      uint64
	MaxTicks  int
	SimOpts   []sim.Option // applied after Params and Seed
	Refresh   bool         // ignore the cached snapshot for this exact configuration
	Warm      bool         // start from the graph's last snapshot when the exact one is missing
	WarmAlpha float64
	NoStore   bool
	TTL       time.Duration

	// Render
	Formats    []string
	RenderOpts []render.Option

	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad requires a source.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidSource, "source is required")
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults fills zero layout fields.
func (o *Options) SetLayoutDefaults() {
	if o.Params == (force.Params{}) {
		o.Params = force.DefaultParams()
	}
	if o.Seed == 0 {
		o.Seed = sim.DefaultSeed
	}
	if o.MaxTicks == 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	if o.WarmAlpha <= 0 {
		o.WarmAlpha = DefaultWarmAlpha
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	o.setLogger()
}

// ValidateForRender defaults Formats to svg and rejects unknown formats.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f, Formats); err != nil {
			return err
		}
	}
	o.setLogger()
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns the cache key inputs of the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Params: o.Params.Clamp(), Seed: o.Seed, MaxTicks: o.MaxTicks}
}

// simOptions returns the simulation options of this run.
func (o *Options) simOptions() []sim.Option {
	return append([]sim.Option{sim.WithParams(o.Params), sim.WithSeed(o.Seed)}, o.SimOpts...)
}

// =============================================================================
// Results
// =============================================================================

// Result holds the outputs of a run.
type Result struct {
	Graph     *graph.Graph
	GraphHash string
	Frame     sim.Frame
	Snapshot  sim.Snapshot
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timings and sizes.
type Stats struct {
	NodeCount  int
	LinkCount  int
	Ticks      int
	Converged  bool
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports how the layout stage used the cache.
type CacheInfo struct {
	LayoutHit bool // exact snapshot reused
	WarmStart bool // started from the graph's last snapshot
	Stored    bool
}
