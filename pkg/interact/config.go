package interact

import (
	"math"
	"time"

	"github.com/matzehuels/coauthornet/pkg/graph"
)

// Config tunes the controller.
type Config struct {
	// DragAlphaTarget holds the simulation hot while a node is dragged.
	DragAlphaTarget float64 `json:"drag_alpha_target" toml:"drag_alpha_target" yaml:"drag_alpha_target"`
	// DragSettle delays the cooldown after a drag ends.
	DragSettle time.Duration `json:"drag_settle" toml:"drag_settle" yaml:"drag_settle"`
	// ParamCooldown is the debounce after the last parameter change.
	ParamCooldown time.Duration `json:"param_cooldown" toml:"param_cooldown" yaml:"param_cooldown"`
	// RestartAlpha is the energy a parameter change reheats to.
	RestartAlpha float64 `json:"restart_alpha" toml:"restart_alpha" yaml:"restart_alpha"`

	MinScale float64 `json:"min_scale" toml:"min_scale" yaml:"min_scale"`
	MaxScale float64 `json:"max_scale" toml:"max_scale" yaml:"max_scale"`

	HighlightKey graph.HighlightKey `json:"highlight_key" toml:"highlight_key" yaml:"highlight_key"`

	// CollideBaseline divides the collision slider into a radius multiplier.
	CollideBaseline float64 `json:"collide_baseline" toml:"collide_baseline" yaml:"collide_baseline"`
}

// DefaultConfig returns the stock interaction settings.
func DefaultConfig() Config {
	return Config{
		DragAlphaTarget: 0.3,
		DragSettle:      250 * time.Millisecond,
		ParamCooldown:   3 * time.Second,
		RestartAlpha:    1,
		MinScale:        0.5,
		MaxScale:        5,
		HighlightKey:    graph.HighlightCategory,
		CollideBaseline: 12,
	}
}

// unitAlpha reports whether v is a usable alpha: in (0, 1] and not NaN.
func unitAlpha(v float64) bool { return v > 0 && v <= 1 }

// normalize replaces unusable values with defaults.
func (c Config) normalize() Config {
	d := DefaultConfig()
	if !unitAlpha(c.DragAlphaTarget) {
		c.DragAlphaTarget = d.DragAlphaTarget
	}
	if c.DragSettle < 0 {
		c.DragSettle = 0
	}
	if c.ParamCooldown < 0 {
		c.ParamCooldown = 0
	}
	if !unitAlpha(c.RestartAlpha) {
		c.RestartAlpha = d.RestartAlpha
	}
	if !(c.MinScale > 0 && c.MinScale <= c.MaxScale) || math.IsInf(c.MaxScale, 0) {
		c.MinScale, c.MaxScale = d.MinScale, d.MaxScale
	}
	if !c.HighlightKey.Valid() {
		c.HighlightKey = d.HighlightKey
	}
	if !(c.CollideBaseline > 0) || math.IsInf(c.CollideBaseline, 0) {
		c.CollideBaseline = d.CollideBaseline
	}
	return c
}
