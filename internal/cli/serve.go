package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/coauthornet/internal/server"
	"github.com/matzehuels/coauthornet/pkg/session"
)

// serveCommand serves live layout sessions over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		allowLocal bool
		noCache    bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live layout sessions over HTTP",
		Long: `Serve live layout sessions over HTTP.

Clients create a session from a source URL or an inline payload, then send
drag, hover, click, zoom and slider events and follow the layout through a
server-sent event stream. Sessions idle for longer than server.session_ttl
are closed; closing a session caches its layout for warm starts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			logger := loggerFromContext(cmd.Context()).With("component", "server")
			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}
			srv := server.New(server.Options{
				Config: cfg,
				Runner: runner,
				Store:  session.NewMemoryStore(logger),
				Session: session.Options{
					Interval:    c.Config.Simulation.Interval,
					Interaction: c.Config.View,
					Sim:         c.Config.SimOptions(),
				},
				Source:     c.sourceOptions(runner, false),
				GraphOpts:  c.Config.GraphOptions(),
				AllowLocal: allowLocal,
				Logger:     logger,
			})
			printInfo("Serving sessions on %s", StyleHighlight.Render(cfg.Addr))
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&allowLocal, "allow-local", false, "let clients open local files as sources")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	return cmd
}
