// Package config loads the optional YAML configuration file and supplies
// XDG-based default paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jwhan/tallypad/internal/store"
)

// DefaultTickInterval is how often the watch loop checks for a date
// change.
const DefaultTickInterval = time.Minute

// Config holds the resolved runtime settings.
type Config struct {
	// DataDir is where presets.json and history/ live.
	DataDir string

	// RetentionDays is the archive retention window.
	RetentionDays int

	// TickInterval is the rollover check cadence for the watch command.
	TickInterval time.Duration
}

// fileConfig is the YAML shape. tick_interval is a duration string
// ("30s", "1m") parsed by time.ParseDuration.
type fileConfig struct {
	DataDir       string `yaml:"data_dir"`
	RetentionDays int    `yaml:"retention_days"`
	TickInterval  string `yaml:"tick_interval"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataDir:       DefaultDataDir(),
		RetentionDays: store.DefaultRetentionDays,
		TickInterval:  DefaultTickInterval,
	}
}

// Load reads the YAML config at path and fills unset fields with
// defaults. A missing file is not an error; an unreadable or malformed
// one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if file.DataDir != "" {
		cfg.DataDir = file.DataDir
	}
	if file.RetentionDays > 0 {
		cfg.RetentionDays = file.RetentionDays
	}
	if file.TickInterval != "" {
		d, err := time.ParseDuration(file.TickInterval)
		if err != nil {
			return cfg, fmt.Errorf("decode config %s: tick_interval: %w", path, err)
		}
		if d > 0 {
			cfg.TickInterval = d
		}
	}
	return cfg, nil
}

// xdgConfigHome returns the XDG config home or a fallback.
func xdgConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// xdgDataHome returns the XDG data home or a fallback.
func xdgDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default YAML config location.
func DefaultConfigPath() string {
	return filepath.Join(xdgConfigHome(), "tallypad", "config.yaml")
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	return filepath.Join(xdgDataHome(), "tallypad")
}
