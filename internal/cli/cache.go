package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coauthornet/pkg/cache"
	"github.com/matzehuels/coauthornet/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached layouts and fetched sources",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and source",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer store.Close()

			var (
				count int
				where string
			)
			switch s := store.(type) {
			case *cache.FileCache:
				count, err = s.Clear()
				where = s.Dir()
			case *cache.RedisCache:
				count, err = s.Clear(cmd.Context())
				where = c.Config.Cache.RedisAddr
			default:
				printInfo("Caching is disabled")
				return nil
			}
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", where)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.Config.Cache
			switch cc.Backend {
			case config.CacheRedis:
				fmt.Fprintf(cmd.OutOrStdout(), "redis://%s/%d (prefix %q)\n", cc.RedisAddr, cc.RedisDB, cc.Prefix)
				return nil
			case config.CacheNone:
				printInfo("Caching is disabled")
				return nil
			}
			dir := cc.Dir
			if dir == "" {
				d, err := cache.DefaultDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				dir = d
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
