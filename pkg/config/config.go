// Package config loads and persists the scenegen configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Axis is one closed interval of a box, in meters.
type Axis struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Box bounds a region of the workcell, one interval per axis.
type Box struct {
	X Axis `yaml:"x"`
	Y Axis `yaml:"y"`
	Z Axis `yaml:"z"`
}

type Config struct {
	// Simulator bridge
	BridgeURL        string `yaml:"bridge_url"`
	RequestTimeoutMS int    `yaml:"request_timeout_ms"`

	// Asset locations
	MeshDir     string `yaml:"mesh_dir"`
	DatasetRoot string `yaml:"dataset_root"`
	SourceRoot  string `yaml:"source_root"`
	SessionFile string `yaml:"session_file"`

	// Scene generation
	NumObstacles    int     `yaml:"num_obstacles"`
	Workspace       Box     `yaml:"workspace"`
	DropZone        Box     `yaml:"drop_zone"`
	MinDist         float64 `yaml:"min_dist"`
	MaxDist         float64 `yaml:"max_dist"`
	MaxAttempts     int     `yaml:"max_attempts"`
	ForceMagnitude  float64 `yaml:"force_magnitude"`
	ForceDurationMS int     `yaml:"force_duration_ms"`
	SettleDelayMS   int     `yaml:"settle_delay_ms"`
	SamplerSeed     int64   `yaml:"sampler_seed"`

	// Inertia estimation
	Density float64 `yaml:"density"`

	// Watch mode
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	// UI
	ColorTheme string `yaml:"color_theme"`
}

// DefaultConfig returns a Config with the stock workcell values.
func DefaultConfig() *Config {
	return &Config{
		BridgeURL:        "http://127.0.0.1:8080",
		RequestTimeoutMS: 10000,
		MeshDir:          "meshes",
		DatasetRoot:      "objects",
		SourceRoot:       ".",
		SessionFile:      ".scenegen-session.yaml",
		NumObstacles:     5,
		Workspace: Box{
			X: Axis{Min: -0.65, Max: -0.35},
			Y: Axis{Min: -0.15, Max: 0.15},
			Z: Axis{Min: 0.02, Max: 0.04},
		},
		DropZone: Box{
			X: Axis{Min: -0.6, Max: -0.4},
			Y: Axis{Min: -0.1, Max: 0.1},
			Z: Axis{Min: 0.025, Max: 0.025},
		},
		MinDist:         0.07,
		MaxDist:         0.1,
		MaxAttempts:     10000,
		ForceMagnitude:  2,
		ForceDurationMS: 100,
		SettleDelayMS:   1000,
		SamplerSeed:     0,
		Density:         800,
		WatchDebounceMS: 500,
		ColorTheme:      "auto",
	}
}

// DefaultPath returns the config file location, following XDG conventions.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "scenegen", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "scenegen", "config.yaml"), nil
}

// Load reads the configuration from path. A missing file yields the
// defaults; a present file is merged over them, so partial configs work.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Backfill anything zeroed out by an explicit empty value.
	if cfg.BridgeURL == "" {
		cfg.BridgeURL = "http://127.0.0.1:8080"
	}
	if cfg.RequestTimeoutMS <= 0 {
		cfg.RequestTimeoutMS = 10000
	}
	if cfg.NumObstacles <= 0 {
		cfg.NumObstacles = 5
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10000
	}
	if cfg.Density <= 0 {
		cfg.Density = 800
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}
	if cfg.ColorTheme == "" {
		cfg.ColorTheme = "auto"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save persists the configuration to path, creating directories as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	boxes := []struct {
		name string
		box  Box
	}{
		{"workspace", c.Workspace},
		{"drop_zone", c.DropZone},
	}
	for _, b := range boxes {
		axes := []struct {
			name string
			axis Axis
		}{
			{"x", b.box.X},
			{"y", b.box.Y},
			{"z", b.box.Z},
		}
		for _, a := range axes {
			if a.axis.Min > a.axis.Max {
				return fmt.Errorf("%s.%s: min %g exceeds max %g", b.name, a.name, a.axis.Min, a.axis.Max)
			}
		}
	}
	if c.MinDist < 0 || c.MaxDist < 0 {
		return fmt.Errorf("min_dist and max_dist must be non-negative")
	}
	return nil
}
