package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path.
	EnvConfigPath = "FSMLOGIC_CONFIG"
	// EnvPrefix prefixes per-key overrides, e.g. FSMLOGIC_LAYOUT_GRID_SIZE.
	EnvPrefix = "FSMLOGIC_"
	// ConfigFileName is the config file looked up in the working directory.
	ConfigFileName = "fsmlogic.yaml"
	// ConfigDirName is the config directory name under ~/.config.
	ConfigDirName = "fsmlogic"
)

// FindConfigPath searches for a config file in priority order:
//  1. $FSMLOGIC_CONFIG
//  2. ./fsmlogic.yaml
//  3. $XDG_CONFIG_HOME/fsmlogic/config.yaml
//  4. ~/.config/fsmlogic/config.yaml
//
// Returns an empty string if there is none.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	if home := os.Getenv("HOME"); home != "" {
		path := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
