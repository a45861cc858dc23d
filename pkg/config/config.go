// Package config loads coauthornet settings from TOML or YAML.
//
// The file lives at $XDG_CONFIG_HOME/coauthornet/config.toml by default. A
// ".yaml" or ".yml" extension switches the codec. Missing files yield
// [Default]; environment variables (see [ApplyEnv]) override file values,
// and CLI flags override both.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/coauthornet/pkg/force"
	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/interact"
	"github.com/matzehuels/coauthornet/pkg/sim"
)

const (
	// AppName names the config and cache directories.
	AppName = "coauthornet"
	// FileName is the default config file name.
	FileName = "config.toml"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the full settings tree.
type Config struct {
	Forces     force.Params     `toml:"forces" yaml:"forces"`
	Simulation SimulationConfig `toml:"simulation" yaml:"simulation"`
	View       interact.Config  `toml:"view" yaml:"view"`
	Graph      GraphConfig      `toml:"graph" yaml:"graph"`
	Cache      CacheConfig      `toml:"cache" yaml:"cache"`
	Server     ServerConfig     `toml:"server" yaml:"server"`
	Source     SourceConfig     `toml:"source" yaml:"source"`
}

// SimulationConfig tunes the cooling schedule.
type SimulationConfig struct {
	AlphaMin      float64       `toml:"alpha_min" yaml:"alpha_min"`
	AlphaDecay    float64       `toml:"alpha_decay" yaml:"alpha_decay"`
	VelocityDecay float64       `toml:"velocity_decay" yaml:"velocity_decay"`
	Seed          uint64        `toml:"seed" yaml:"seed"`
	MaxTicks      int           `toml:"max_ticks" yaml:"max_ticks"`
	Interval      time.Duration `toml:"interval" yaml:"interval"`
}

// GraphConfig controls node sizing and coloring.
type GraphConfig struct {
	MinRadius     float64  `toml:"min_radius" yaml:"min_radius"`
	MaxRadius     float64  `toml:"max_radius" yaml:"max_radius"`
	TopCategories int      `toml:"top_categories" yaml:"top_categories"`
	Palette       []string `toml:"palette,omitempty" yaml:"palette,omitempty"`
	NeutralColor  string   `toml:"neutral_color" yaml:"neutral_color"`
}

// CacheConfig selects where converged layouts and fetched payloads go.
type CacheConfig struct {
	Backend       string        `toml:"backend" yaml:"backend"`
	Dir           string        `toml:"dir,omitempty" yaml:"dir,omitempty"`
	TTL           time.Duration `toml:"ttl" yaml:"ttl"`
	RedisAddr     string        `toml:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword string        `toml:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	RedisDB       int           `toml:"redis_db" yaml:"redis_db"`
	Prefix        string        `toml:"prefix" yaml:"prefix"`
}

// ServerConfig configures `coauthornet serve`.
type ServerConfig struct {
	Addr         string        `toml:"addr" yaml:"addr"`
	SessionTTL   time.Duration `toml:"session_ttl" yaml:"session_ttl"`
	StreamFPS    float64       `toml:"stream_fps" yaml:"stream_fps"`
	MaxBodyBytes int64         `toml:"max_body_bytes" yaml:"max_body_bytes"`
}

// SourceConfig configures graph loading.
type SourceConfig struct {
	HTTPTimeout     time.Duration `toml:"http_timeout" yaml:"http_timeout"`
	MongoURI        string        `toml:"mongo_uri,omitempty" yaml:"mongo_uri,omitempty"`
	MongoDatabase   string        `toml:"mongo_database" yaml:"mongo_database"`
	NodesCollection string        `toml:"nodes_collection" yaml:"nodes_collection"`
	LinksCollection string        `toml:"links_collection" yaml:"links_collection"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Forces: force.DefaultParams(),
		Simulation: SimulationConfig{
			AlphaMin:      sim.DefaultAlphaMin,
			AlphaDecay:    sim.DefaultAlphaDecay,
			VelocityDecay: sim.DefaultVelocityDecay,
			Seed:          sim.DefaultSeed,
			MaxTicks:      1000,
			Interval:      time.Second / 60,
		},
		View: interact.DefaultConfig(),
		Graph: GraphConfig{
			MinRadius:     graph.DefaultMinRadius,
			MaxRadius:     graph.DefaultMaxRadius,
			TopCategories: graph.DefaultTopCategories,
			NeutralColor:  graph.NeutralColor,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     7 * 24 * time.Hour,
			Prefix:  AppName + ":",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			SessionTTL:   30 * time.Minute,
			StreamFPS:    30,
			MaxBodyBytes: 16 << 20,
		},
		Source: SourceConfig{
			HTTPTimeout:     10 * time.Second,
			MongoDatabase:   AppName,
			NodesCollection: "nodes",
			LinksCollection: "links",
		},
	}
}

// Dir returns $XDG_CONFIG_HOME/coauthornet, falling back to ~/.config.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName)
}

// Path returns the default config file path.
func Path() string { return filepath.Join(Dir(), FileName) }

// GraphOptions converts the graph section into [graph.Build] options.
func (c *Config) GraphOptions() []graph.Option {
	return []graph.Option{
		graph.WithRadiusRange(c.Graph.MinRadius, c.Graph.MaxRadius),
		graph.WithPalette(c.Graph.Palette),
		graph.WithNeutralColor(c.Graph.NeutralColor),
		graph.WithTopCategories(c.Graph.TopCategories),
	}
}

// SimOptions converts the forces and simulation sections into [sim.New] options.
func (c *Config) SimOptions() []sim.Option {
	opts := []sim.Option{sim.WithParams(c.Forces)}
	opts = append(opts, c.DynamicsOptions()...)
	return append(opts, sim.WithSeed(c.Simulation.Seed))
}

// DynamicsOptions returns the alpha and velocity settings without force
// parameters or seed, for callers that choose those themselves.
func (c *Config) DynamicsOptions() []sim.Option {
	return []sim.Option{
		sim.WithAlphaMin(c.Simulation.AlphaMin),
		sim.WithAlphaDecay(c.Simulation.AlphaDecay),
		sim.WithVelocityDecay(c.Simulation.VelocityDecay),
	}
}
