package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/coauthornet/pkg/buildinfo"
	"github.com/matzehuels/coauthornet/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the config file is loaded (--config, or the
// XDG default), environment overrides are applied, and --verbose lowers the
// log level to debug and routes simulation, cache and HTTP events to the log.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "coauthornet",
		Short: "coauthornet lays out co-authorship networks",
		Long: `coauthornet computes force-directed layouts of co-authorship networks.

Authors are nodes sized by collaboration count and colored by country, links
are shared publications. Layouts can be exported headlessly, explored in the
terminal, or served to browser clients as live sessions.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				registerLogHooks(c.Logger)
			}
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			observability.Reset()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/coauthornet/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
