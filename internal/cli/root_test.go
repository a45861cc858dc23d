package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/graph"
)

// execute runs the root command with args, isolated from the user's config.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeNetwork(t *testing.T) string {
	t.Helper()
	p := graph.Payload{
		Nodes: []graph.PayloadNode{
			{ID: "ada", Country: "UK"},
			{ID: "bob", Country: "US"},
			{ID: "cy", Country: "UK"},
			{ID: "dee", Country: "FR"},
		},
		Links: []graph.PayloadLink{
			{Source: "ada", Target: "bob"},
			{Source: "bob", Target: "cy"},
			{Source: "cy", Target: "dee"},
		},
	}
	path := filepath.Join(t.TempDir(), "net.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := graph.WritePayload(p, f); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "fish", "powershell", "zsh"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out, "coauthornet") {
				t.Errorf("completion %s output does not mention the binary", shell)
			}
		})
	}

	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh: expected error")
	}
}

func TestLayoutCommand(t *testing.T) {
	src := writeNetwork(t)
	base := filepath.Join(t.TempDir(), "out")

	if _, err := execute(t, "layout", src, "--no-cache", "-f", "json, snapshot", "-o", base, "--seed", "7"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	for _, name := range []string{base + ".json", base + ".snapshot.json"} {
		data, err := os.ReadFile(name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !json.Valid(data) {
			t.Errorf("%s is not valid JSON", name)
		}
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"layout", filepath.Join(t.TempDir(), "nope.json"), "--no-cache"}},
		{"bad format", []string{"layout", writeNetwork(t), "--no-cache", "-f", "pdf"}},
		{"no source", []string{"layout", "--no-cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStatsRejectsNegativeTopCategories(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfg, []byte("[graph]\ntop_categories = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "stats", writeNetwork(t), "--config", cfg)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("stats with top_categories = -1: err = %v, want INVALID_CONFIG", err)
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"-", "stdin.layout"},
		{"data/net.json", "data/net.layout"},
		{"https://example.org/graphs/coauthors.json?v=2", "coauthors.layout"},
		{"https://example.org/", "example.layout"},
		{"mongodb://localhost:27017", "graph.layout"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := outputBase(tt.src); got != tt.want {
				t.Errorf("outputBase(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"json, dot ,png", []string{"json", "dot", "png"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCachePath(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	base, err := os.UserCacheDir()
	if err != nil {
		t.Skipf("no user cache dir: %v", err)
	}

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(base, "coauthornet"); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}
