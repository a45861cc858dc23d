package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/render"
	"github.com/matzehuels/coauthornet/pkg/sim"
)

// Render produces every requested format from the final frame.
func (r *Runner) Render(ctx context.Context, f sim.Frame, snap sim.Snapshot, g *graph.Graph, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	return Render(ctx, f, snap, g, opts)
}

// Render is the cache-free render stage.
func Render(ctx context.Context, f sim.Frame, snap sim.Snapshot, g *graph.Graph, opts Options) (map[string][]byte, error) {
	ropts := append([]render.Option{render.WithGraph(g)}, opts.RenderOpts...)
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = render.RenderSVG(f, ropts...)
		case FormatJSON:
			data, err = render.RenderJSON(f, ropts...)
		case FormatDOT:
			data = []byte(render.ToDOT(f, ropts...))
		case FormatPNG:
			if dot == "" {
				dot = render.ToDOT(f, ropts...)
			}
			data, err = render.RenderDOT(ctx, dot, render.FormatPNG)
		case FormatSnapshot:
			data, err = sim.MarshalSnapshot(snap)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
