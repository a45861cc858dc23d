package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/sim"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Forces != Default().Forces {
		t.Errorf("forces = %+v, want defaults", cfg.Forces)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	src := `
[forces]
charge = -250.0
link_strength = 0.5

[simulation]
seed = 7
interval = "50ms"

[view]
highlight_key = "affiliation"
drag_settle = "1s"

[cache]
backend = "none"
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Forces.Charge != -250 || cfg.Forces.LinkStrength != 0.5 {
		t.Errorf("forces = %+v", cfg.Forces)
	}
	if cfg.Forces.LinkDistance != 50 {
		t.Errorf("unset field lost its default: link_distance = %v", cfg.Forces.LinkDistance)
	}
	if cfg.Simulation.Seed != 7 || cfg.Simulation.Interval != 50*time.Millisecond {
		t.Errorf("simulation = %+v", cfg.Simulation)
	}
	if cfg.View.HighlightKey != graph.HighlightAffiliation || cfg.View.DragSettle != time.Second {
		t.Errorf("view = %+v", cfg.View)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("cache backend = %q", cfg.Cache.Backend)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	src := "forces:\n  charge: -30\nserver:\n  addr: \":9000\"\n  session_ttl: 5m\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Forces.Charge != -30 || cfg.Server.Addr != ":9000" || cfg.Server.SessionTTL != 5*time.Minute {
		t.Errorf("cfg = %+v / %+v", cfg.Forces, cfg.Server)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"config.toml", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sub", name)
			want := Default()
			want.Forces.Charge = -400
			want.View.ParamCooldown = 2 * time.Second
			want.Graph.Palette = []string{"#111111", "#222222"}

			if err := Save(want, path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.Forces != want.Forces {
				t.Errorf("forces = %+v, want %+v", got.Forces, want.Forces)
			}
			if got.View != want.View {
				t.Errorf("view = %+v, want %+v", got.View, want.View)
			}
			if len(got.Graph.Palette) != 2 || got.Graph.Palette[1] != "#222222" {
				t.Errorf("palette = %v", got.Graph.Palette)
			}
		})
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[forces\ncharge = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvRedisAddr: "localhost:6379",
		EnvMongoURI:  "mongodb://db",
		EnvSeed:      "0x10",
	}
	cfg := Default()
	ApplyEnv(cfg, func(k string) string { return env[k] })

	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Source.MongoURI != "mongodb://db" {
		t.Errorf("mongo uri = %q", cfg.Source.MongoURI)
	}
	if cfg.Simulation.Seed != 16 {
		t.Errorf("seed = %d", cfg.Simulation.Seed)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"highlight key", func(c *Config) { c.View.HighlightKey = "country" }},
		{"top categories", func(c *Config) { c.Graph.TopCategories = -1 }},
		{"interval", func(c *Config) { c.Simulation.Interval = 0 }},
		{"stream fps", func(c *Config) { c.Server.StreamFPS = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestPathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got, want := Path(), filepath.Join(dir, AppName, FileName); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestGraphOptions(t *testing.T) {
	cfg := Default()
	cfg.Graph.MinRadius, cfg.Graph.MaxRadius = 2, 20
	g, err := graph.Build(graph.Payload{
		Nodes: []graph.PayloadNode{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Links: []graph.PayloadLink{{Source: "a", Target: "b"}, {Source: "a", Target: "c"}},
	}, cfg.GraphOptions()...)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := g.Lookup("a")
	b, _ := g.Lookup("b")
	if a.Radius != 20 || b.Radius != 2 {
		t.Errorf("radii = %v, %v; want 20, 2", a.Radius, b.Radius)
	}
}

func TestSimOptions(t *testing.T) {
	g, err := graph.Build(graph.Payload{Nodes: []graph.PayloadNode{{ID: "a"}, {ID: "b"}}})
	if err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	cfg.Simulation.AlphaMin = 0.01
	cfg.Forces.Charge = -60

	s := sim.New(g, cfg.SimOptions()...)
	if s.AlphaMin() != 0.01 || s.Params().Charge != -60 {
		t.Errorf("alphaMin = %v charge = %v", s.AlphaMin(), s.Params().Charge)
	}
	if n := len(cfg.DynamicsOptions()); n != 3 {
		t.Errorf("DynamicsOptions() has %d options", n)
	}
}
