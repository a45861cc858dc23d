package config

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/coauthornet/pkg/errors"
)

// Environment overrides read by [ApplyEnv].
const (
	EnvRedisAddr = "COAUTHORNET_REDIS_ADDR"
	EnvMongoURI  = "COAUTHORNET_MONGO_URI"
	EnvCacheDir  = "COAUTHORNET_CACHE_DIR"
	EnvCache     = "COAUTHORNET_CACHE"
	EnvAddr      = "COAUTHORNET_ADDR"
	EnvSeed      = "COAUTHORNET_SEED"
)

// Load reads path over [Default]. An empty path means [Path]. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := Decode(data, isYAML(path), cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, cfg.Validate()
}

// Decode unmarshals TOML, or YAML when yamlFormat is set, into cfg.
func Decode(data []byte, yamlFormat bool, cfg *Config) error {
	if yamlFormat {
		return yaml.Unmarshal(data, cfg)
	}
	_, err := toml.Decode(string(data), cfg)
	return err
}

// Save writes cfg to path (empty means [Path]) in the format its extension selects.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if isYAML(path) {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	} else if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ApplyEnv overlays environment variables onto cfg. getenv is usually os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvRedisAddr); v != "" {
		cfg.Cache.RedisAddr = v
		if cfg.Cache.Backend == CacheFile {
			cfg.Cache.Backend = CacheRedis
		}
	}
	if v := getenv(EnvCache); v != "" {
		cfg.Cache.Backend = strings.ToLower(v)
	}
	if v := getenv(EnvCacheDir); v != "" {
		cfg.Cache.Dir = v
	}
	if v := getenv(EnvMongoURI); v != "" {
		cfg.Source.MongoURI = v
	}
	if v := getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv(EnvSeed); v != "" {
		if seed, err := strconv.ParseUint(v, 0, 64); err == nil {
			cfg.Simulation.Seed = seed
		}
	}
}

// Validate reports settings that cannot be clamped into shape.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.backend = redis needs cache.redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if !c.View.HighlightKey.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown highlight key %q", c.View.HighlightKey)
	}
	if c.Graph.TopCategories < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "graph.top_categories must not be negative")
	}
	if c.Simulation.Interval <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "simulation.interval must be positive")
	}
	if c.Server.StreamFPS <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.stream_fps must be positive")
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
