package cli

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coauthornet/pkg/cache"
	"github.com/matzehuels/coauthornet/pkg/config"
	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/httputil"
	"github.com/matzehuels/coauthornet/pkg/pipeline"
	"github.com/matzehuels/coauthornet/pkg/source"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	verbose    bool
	getenv     func(string) string
}

// New creates a CLI with a default logger and the default configuration.
// The configuration file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		getenv: func(string) string { return "" },
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetEnv sets the environment lookup used for config overrides.
func (c *CLI) SetEnv(getenv func(string) string) {
	c.getenv = getenv
}

// loadConfig reads the config file and applies environment overrides.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	config.ApplyEnv(cfg, c.getenv)
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newCache opens the configured cache backend. noCache forces the null cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cc := c.Config.Cache
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cc.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
			Prefix:   cc.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir := cc.Dir
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open %s cache", c.Config.Cache.Backend)
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// sourceOptions builds loader options sharing the runner's cache for fetched
// payloads.
func (c *CLI) sourceOptions(r *pipeline.Runner, refresh bool) source.Options {
	sc := c.Config.Source
	client := httputil.NewClient(r.Cache, c.Config.Cache.TTL, nil).
		WithHTTPClient(&http.Client{Timeout: sc.HTTPTimeout})
	return source.Options{
		HTTP:    client,
		Refresh: refresh,
		Mongo: source.MongoOptions{
			Database: sc.MongoDatabase,
			Nodes:    sc.NodesCollection,
			Links:    sc.LinksCollection,
			Timeout:  sc.HTTPTimeout,
		},
		Logger: c.Logger,
	}
}

// sourceArg picks the source of a command: the argument if given, else the
// configured MongoDB URI.
func (c *CLI) sourceArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if c.Config.Source.MongoURI != "" {
		return c.Config.Source.MongoURI, nil
	}
	return "", errors.New(errors.ErrCodeInvalidSource, "no graph source: pass a file, URL or mongodb:// URI")
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
