package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-logic/pkg/fsm"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig_MatchesLayout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, fsm.DefaultLayout(), cfg.FSMLayout())
	assert.Equal(t, fsm.NoMatchError, cfg.SynthesisOptions(nil).NoMatch)
	assert.Equal(t, 50*time.Millisecond, cfg.Tick())
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
layout:
  grid_size: 10
  ticks: 50
synthesis:
  no_match: stay
render:
  font_size: 16
`)
	cfg, got, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, path, got)
	assert.Equal(t, 10.0, cfg.Layout.GridSize)
	assert.Equal(t, 50, cfg.Layout.Ticks)
	assert.Equal(t, 20.0, cfg.Layout.StateRepulsion)
	assert.Equal(t, fsm.NoMatchStay, cfg.SynthesisOptions(nil).NoMatch)
	assert.Equal(t, 16, cfg.RenderOptions().FontSize)
	assert.Equal(t, 1.0, cfg.RenderOptions().Scale)
}

func TestLoadFromPath_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "layout: [", "parse config"},
		{"unknown key", "layout:\n  gird_size: 3\n", "gird_size"},
		{"bad policy", "synthesis:\n  no_match: sometimes\n", "no-match policy"},
		{"bad type", "layout:\n  ticks: lots\n", "ticks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadFromPath(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "layout:\n  grid_size: 10\n")
	t.Setenv("FSMLOGIC_LAYOUT_GRID_SIZE", "25")
	t.Setenv("FSMLOGIC_LAYOUT_MOVE_STATES", "false")
	t.Setenv("FSMLOGIC_SYNTHESIS_NO_MATCH", "stay")
	t.Setenv("FSMLOGIC_VIEWER_TICK_MS", "20")
	t.Setenv("FSMLOGIC_NOSECTION", "ignored")

	cfg, _, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 25.0, cfg.Layout.GridSize)
	assert.False(t, cfg.Layout.MoveStates)
	assert.Equal(t, "stay", cfg.Synthesis.NoMatch)
	assert.Equal(t, 20*time.Millisecond, cfg.Tick())
}

func TestApplyDefaults(t *testing.T) {
	cfg, _, err := LoadFromPath(writeConfig(t, "layout:\n  grid_size: 0\n  dt: -1\nviewer:\n  cell_width: 0\n"))
	require.NoError(t, err)

	assert.Equal(t, 20.0, cfg.Layout.GridSize)
	assert.Equal(t, 1.0, cfg.Layout.Dt)
	assert.Equal(t, 8.0, cfg.Viewer.CellWidth)
}

func TestLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")

	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "none.yaml"))
	cfg, path, err := Load()
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig(), cfg)

	explicit := writeConfig(t, "render:\n  padding: 5\n")
	t.Setenv(EnvConfigPath, explicit)
	cfg, path, err = Load()
	require.NoError(t, err)
	assert.Equal(t, explicit, path)
	assert.Equal(t, 5, cfg.Render.Padding)
}

func TestFindConfigPath_Home(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv(EnvConfigPath, "")
	dir := filepath.Join(home, ".config", ConfigDirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	want := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(want, []byte("{}\n"), 0o644))

	assert.Equal(t, want, FindConfigPath())
}
