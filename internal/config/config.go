// Package config loads fsmlogic settings.
//
// Settings come from a YAML file (see FindConfigPath), overridden per key by
// FSMLOGIC_<SECTION>_<KEY> environment variables, e.g.
//
//	FSMLOGIC_LAYOUT_GRID_SIZE=10
//	FSMLOGIC_SYNTHESIS_NO_MATCH=stay
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/fsm-logic/pkg/fsm"
	"github.com/ha1tch/fsm-logic/pkg/render"
)

// Config is the complete configuration.
type Config struct {
	Layout    LayoutConfig    `yaml:"layout" mapstructure:"layout"`
	Synthesis SynthesisConfig `yaml:"synthesis" mapstructure:"synthesis"`
	Render    RenderConfig    `yaml:"render" mapstructure:"render"`
	Viewer    ViewerConfig    `yaml:"viewer" mapstructure:"viewer"`
}

// LayoutConfig holds the force-layout constants and the relax loop used by
// the CLI.
type LayoutConfig struct {
	StateRepulsion       float64 `yaml:"state_repulsion" mapstructure:"state_repulsion"`
	TransitionAttraction float64 `yaml:"transition_attraction" mapstructure:"transition_attraction"`
	TransitionRadius     float64 `yaml:"transition_radius" mapstructure:"transition_radius"`
	MinDistance          float64 `yaml:"min_distance" mapstructure:"min_distance"`
	GridSize             float64 `yaml:"grid_size" mapstructure:"grid_size"`
	HitTolerance         float64 `yaml:"hit_tolerance" mapstructure:"hit_tolerance"`
	MaxStep              float64 `yaml:"max_step" mapstructure:"max_step"`
	Dt                   float64 `yaml:"dt" mapstructure:"dt"`
	Ticks                int     `yaml:"ticks" mapstructure:"ticks"`
	MoveStates           bool    `yaml:"move_states" mapstructure:"move_states"`
}

// SynthesisConfig selects the no-match policy: "error" or "stay".
type SynthesisConfig struct {
	NoMatch string `yaml:"no_match" mapstructure:"no_match"`
}

// RenderConfig controls SVG and PNG output.
type RenderConfig struct {
	Scale    float64 `yaml:"scale" mapstructure:"scale"`
	Padding  int     `yaml:"padding" mapstructure:"padding"`
	FontSize int     `yaml:"font_size" mapstructure:"font_size"`
}

// ViewerConfig controls the terminal viewer.
type ViewerConfig struct {
	TickMillis int     `yaml:"tick_ms" mapstructure:"tick_ms"`
	CellWidth  float64 `yaml:"cell_width" mapstructure:"cell_width"` // layout units per terminal column
	LogFile    string  `yaml:"log_file" mapstructure:"log_file"`
}

// Load finds and loads the config file, or returns defaults if there is
// none. Environment overrides apply either way. The returned path is empty
// when no file was read.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		cfg, err := decode(map[string]any{}, os.Environ())
		return cfg, "", err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads the config file at path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg, err := decode(raw, os.Environ())
	if err != nil {
		return nil, path, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// decode overlays env onto raw and decodes the result over the defaults.
func decode(raw map[string]any, env []string) (*Config, error) {
	overlayEnv(raw, env)

	cfg := DefaultConfig()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyDefaults()
	if _, err := fsm.ParseNoMatchPolicy(cfg.Synthesis.NoMatch); err != nil {
		return nil, fmt.Errorf("synthesis: %w", err)
	}
	return cfg, nil
}

var sections = map[string]bool{"layout": true, "synthesis": true, "render": true, "viewer": true}

// overlayEnv copies FSMLOGIC_<SECTION>_<KEY>=value entries into raw.
// Variables naming an unknown section are ignored.
func overlayEnv(raw map[string]any, env []string) {
	for _, kv := range env {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		section, key, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_")
		if !ok || key == "" || !sections[section] {
			continue
		}

		m, ok := raw[section].(map[string]any)
		if !ok {
			m = map[string]any{}
			raw[section] = m
		}
		m[key] = value
	}
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	l := fsm.DefaultLayout()
	r := render.DefaultOptions()
	return &Config{
		Layout: LayoutConfig{
			StateRepulsion:       l.StateRepulsion,
			TransitionAttraction: l.TransitionAttraction,
			TransitionRadius:     l.TransitionRadius,
			MinDistance:          l.MinDistance,
			GridSize:             l.GridSize,
			HitTolerance:         l.HitTolerance,
			MaxStep:              l.MaxStep,
			Dt:                   1,
			Ticks:                200,
			MoveStates:           true,
		},
		Synthesis: SynthesisConfig{NoMatch: fsm.NoMatchError.String()},
		Render: RenderConfig{
			Scale:    r.Scale,
			Padding:  r.Padding,
			FontSize: r.FontSize,
		},
		Viewer: ViewerConfig{
			TickMillis: 50,
			CellWidth:  8,
		},
	}
}

// applyDefaults replaces unusable values with defaults.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Layout.MinDistance <= 0 {
		c.Layout.MinDistance = d.Layout.MinDistance
	}
	if c.Layout.GridSize <= 0 {
		c.Layout.GridSize = d.Layout.GridSize
	}
	if c.Layout.Dt <= 0 {
		c.Layout.Dt = d.Layout.Dt
	}
	if c.Layout.Ticks < 0 {
		c.Layout.Ticks = 0
	}
	if c.Render.Scale <= 0 {
		c.Render.Scale = d.Render.Scale
	}
	if c.Render.FontSize <= 0 {
		c.Render.FontSize = d.Render.FontSize
	}
	if c.Viewer.TickMillis <= 0 {
		c.Viewer.TickMillis = d.Viewer.TickMillis
	}
	if c.Viewer.CellWidth <= 0 {
		c.Viewer.CellWidth = d.Viewer.CellWidth
	}
}

// FSMLayout returns the layout constants for fsm.FSM.SetLayout.
func (c *Config) FSMLayout() fsm.Layout {
	return fsm.Layout{
		StateRepulsion:       c.Layout.StateRepulsion,
		TransitionAttraction: c.Layout.TransitionAttraction,
		TransitionRadius:     c.Layout.TransitionRadius,
		MinDistance:          c.Layout.MinDistance,
		GridSize:             c.Layout.GridSize,
		HitTolerance:         c.Layout.HitTolerance,
		MaxStep:              c.Layout.MaxStep,
	}
}

// SynthesisOptions returns the synthesis options, logging to logger.
func (c *Config) SynthesisOptions(logger *slog.Logger) fsm.SynthesisOptions {
	// Validated by decode
	policy, _ := fsm.ParseNoMatchPolicy(c.Synthesis.NoMatch)
	return fsm.SynthesisOptions{NoMatch: policy, Logger: logger}
}

// RenderOptions returns the renderer options.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Scale:    c.Render.Scale,
		Padding:  c.Render.Padding,
		FontSize: c.Render.FontSize,
	}
}

// Tick is the viewer's relax interval.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.Viewer.TickMillis) * time.Millisecond
}
