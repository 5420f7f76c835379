package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the viewer settings.
type Config struct {
	// Camera is the name of the device to start with. Empty selects the
	// first device found.
	Camera  string `yaml:"camera"`
	Source  string `yaml:"source"`  // "v4l2" or "pattern"
	Display string `yaml:"display"` // "sdl" or "ebiten"

	Window   WindowConfig   `yaml:"window"`
	Snapshot SnapshotConfig `yaml:"snapshot"`

	LogLevel string `yaml:"log_level"`
}

type WindowConfig struct {
	Width          int           `yaml:"width"`
	Height         int           `yaml:"height"`
	UpdateInterval time.Duration `yaml:"update_interval"`
}

type SnapshotConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

func Default() *Config {
	return &Config{
		Source:  defaultSource(),
		Display: "sdl",
		Window: WindowConfig{
			Width:          1280,
			Height:         720,
			UpdateInterval: 15 * time.Millisecond,
		},
		Snapshot: SnapshotConfig{Prefix: "frame"},
		LogLevel: "info",
	}
}

// Load returns the defaults, overlaid with the YAML file at path when path
// is not empty, then with CAMVIEW_* environment variables. The result is not
// validated; call Validate once command-line overrides are applied.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.Source = getEnvOrDefault("CAMVIEW_SOURCE", cfg.Source)
	cfg.Display = getEnvOrDefault("CAMVIEW_DISPLAY", cfg.Display)
	cfg.Camera = getEnvOrDefault("CAMVIEW_CAMERA", cfg.Camera)
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Source {
	case "v4l2", "pattern":
	default:
		errs = append(errs, fmt.Errorf("unknown source %q", c.Source))
	}
	switch c.Display {
	case "sdl", "ebiten":
	default:
		errs = append(errs, fmt.Errorf("unknown display %q", c.Display))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.UpdateInterval < 0 {
		errs = append(errs, fmt.Errorf("negative update interval %s", c.Window.UpdateInterval))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
