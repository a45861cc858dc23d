package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/pipeline"
	"github.com/matzehuels/coauthornet/pkg/render"
	"github.com/matzehuels/coauthornet/pkg/sim"
)

type layoutFlags struct {
	output   string
	formats  string
	noCache  bool
	refresh  bool
	warm     bool
	noStore  bool
	maxTicks int
	width    float64
	height   float64
	fit      bool
	labels   bool

	charge    float64
	collide   float64
	linkStr   float64
	linkDist  float64
	seed      uint64
}

// layoutCommand creates the layout command for headless layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [source]",
		Short: "Run a layout to rest and export it",
		Long: `Run a force-directed layout of a co-authorship network until it rests and
export the final frame.

The source is a JSON file ({"nodes": [...], "links": [...]}), "-" for stdin,
an http(s) URL, or a mongodb:// URI. Without a source the configured MongoDB
URI is used.

Converged layouts are cached per graph and force parameters, so repeated runs
are instant. --warm starts from the graph's last cached layout when the exact
parameters have not been seen before.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.sourceArg(args)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cmd, src, f)
		},
	}

	d := c.Config
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output path without extension (default: <source>.layout)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "svg", "comma-separated formats: "+strings.Join(pipeline.Formats, ", "))
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if a cached layout exists")
	cmd.Flags().BoolVar(&f.warm, "warm", false, "start from the last cached layout of this graph")
	cmd.Flags().BoolVar(&f.noStore, "no-store", false, "do not write the result to the cache")
	cmd.Flags().IntVar(&f.maxTicks, "max-ticks", 0, "stop after this many ticks (default from config)")
	cmd.Flags().Float64Var(&f.width, "width", render.DefaultWidth, "canvas width")
	cmd.Flags().Float64Var(&f.height, "height", render.DefaultHeight, "canvas height")
	cmd.Flags().BoolVar(&f.fit, "fit", false, "scale the layout to fill the canvas")
	cmd.Flags().BoolVar(&f.labels, "labels", false, "print author names next to nodes")
	cmd.Flags().Float64Var(&f.charge, "charge", d.Forces.Charge, "many-body strength")
	cmd.Flags().Float64Var(&f.collide, "collide", d.Forces.CollideMultiplier, "collision radius multiplier")
	cmd.Flags().Float64Var(&f.linkStr, "link-strength", d.Forces.LinkStrength, "link strength")
	cmd.Flags().Float64Var(&f.linkDist, "link-distance", d.Forces.LinkDistance, "link distance")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "jiggle seed (default from config)")

	return cmd
}

// runLayout loads the source, runs the pipeline and writes every artifact.
func (c *CLI) runLayout(ctx context.Context, cmd *cobra.Command, src string, f layoutFlags) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	params := c.Config.Forces
	flags := cmd.Flags()
	if flags.Changed("charge") {
		params.Charge = f.charge
	}
	if flags.Changed("collide") {
		params.CollideMultiplier = f.collide
	}
	if flags.Changed("link-strength") {
		params.LinkStrength = f.linkStr
	}
	if flags.Changed("link-distance") {
		params.LinkDistance = f.linkDist
	}
	seed := c.Config.Simulation.Seed
	if f.seed != 0 {
		seed = f.seed
	}
	maxTicks := c.Config.Simulation.MaxTicks
	if f.maxTicks > 0 {
		maxTicks = f.maxTicks
	}

	ropts := []render.Option{render.WithSize(f.width, f.height)}
	if f.fit {
		ropts = append(ropts, render.WithFit())
	}
	if f.labels {
		ropts = append(ropts, render.WithLabels())
	}

	opts := pipeline.Options{
		Source:     src,
		SourceOpts: c.sourceOptions(runner, f.refresh),
		GraphOpts:  c.Config.GraphOptions(),
		Params:     params,
		Seed:       seed,
		MaxTicks:   maxTicks,
		SimOpts:    c.Config.DynamicsOptions(),
		Refresh:    f.refresh,
		Warm:       f.warm,
		NoStore:    f.noStore,
		TTL:        c.Config.Cache.TTL,
		Formats:    parseFormats(f.formats),
		RenderOpts: ropts,
		Logger:     logger,
	}

	spinner := newSpinner(ctx, os.Stderr, "Computing layout...")
	opts.SimOpts = append(opts.SimOpts, sim.WithSink(sim.SinkFunc(func(fr sim.Frame) {
		if fr.Tick%10 == 0 {
			spinner.Set("Settling layout · tick %d · alpha %.3f", fr.Tick, fr.Alpha)
		}
	})))
	spinner.Start()
	prog := newProgress(logger)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	prog.done("layout finished", "ticks", res.Stats.Ticks, "hit", res.CacheInfo.LayoutHit)

	base := f.output
	if base == "" {
		base = outputBase(src)
	}
	var written []string
	for _, format := range opts.Formats {
		path := base + "." + extension(format)
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		written = append(written, path)
	}

	if res.Stats.Converged {
		printSuccess("Layout converged after %d ticks", res.Stats.Ticks)
	} else {
		printWarning("Stopped after %d ticks without converging", res.Stats.Ticks)
	}
	for _, p := range written {
		printFile(p)
	}
	printStats(res.Stats.NodeCount, res.Stats.LinkCount, res.CacheInfo.LayoutHit)
	if res.CacheInfo.WarmStart {
		printDetail("warm start from cached layout")
	}
	printNewline()
	printNextStep("Explore", "coauthornet view "+src)
	return nil
}

// outputBase derives the output path from the source: files keep their
// directory, remote sources write to the working directory.
func outputBase(src string) string {
	switch {
	case src == "-":
		return "stdin.layout"
	case strings.Contains(src, "://"):
		name := filepath.Base(strings.TrimRight(strings.SplitN(src, "?", 2)[0], "/"))
		name = strings.TrimSuffix(name, filepath.Ext(name))
		if name == "" || name == "." || strings.Contains(name, ":") {
			name = "graph"
		}
		return name + ".layout"
	}
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".layout"
}

func extension(format string) string {
	if format == pipeline.FormatSnapshot {
		return "snapshot.json"
	}
	return format
}
