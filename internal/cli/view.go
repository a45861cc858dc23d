package cli

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/interact"
	"github.com/matzehuels/coauthornet/pkg/pipeline"
	"github.com/matzehuels/coauthornet/pkg/session"
	"github.com/matzehuels/coauthornet/pkg/sim"
)

// viewCommand explores a live layout in the terminal.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		noWarm      bool
		refresh     bool
		affiliation bool
	)
	cmd := &cobra.Command{
		Use:   "view [source]",
		Short: "Explore a live layout in the terminal",
		Long: `Explore a live layout in the terminal.

Drag authors with the mouse, hover to highlight everyone sharing their
country (or affiliation with --affiliation), click for details. The layout
is cached on exit and restored the next time the same network is viewed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := c.sourceArg(args)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			g, err := runner.Load(ctx, pipeline.Options{
				Source:     src,
				SourceOpts: c.sourceOptions(runner, refresh),
				GraphOpts:  c.Config.GraphOptions(),
				Logger:     c.Logger,
			})
			if err != nil {
				return err
			}

			icfg := c.Config.View
			if affiliation {
				icfg.HighlightKey = graph.HighlightAffiliation
			}
			opts := session.Options{
				Interval:    c.Config.Simulation.Interval,
				Interaction: icfg,
				Sim:         c.Config.SimOptions(),
				Logger:      c.Logger,
			}
			if !noWarm {
				if snap, ok := runner.LatestSnapshot(ctx, g); ok {
					opts.Warm = &snap
				}
			}

			sess := session.Start(ctx, g, opts)
			defer sess.Close()
			var view interact.Config
			if err := sess.Do(ctx, func(_ *sim.Simulation, ctrl *interact.Controller) { view = ctrl.Config() }); err != nil {
				return err
			}
			b := newBridge(ctx, sess)
			defer b.close()

			model := newViewerModel(filepath.Base(src), g, view, c.Config.Forces, b.send, b.wait())
			prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
			if _, err := prog.Run(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}

			if snap, err := sess.Snapshot(ctx); err == nil {
				if err := runner.StoreLatest(ctx, snap, c.Config.Cache.TTL); err != nil {
					c.Logger.Warn("cache layout", "err", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noWarm, "no-warm", false, "ignore the cached layout of this network")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch remote sources")
	cmd.Flags().BoolVar(&affiliation, "affiliation", false, "highlight by affiliation instead of category")
	return cmd
}
