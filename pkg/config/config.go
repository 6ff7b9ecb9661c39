// Package config loads the optional application config file. Everything
// has a working default; a missing or malformed file degrades to defaults
// with a warning, the same policy as the persisted state blob.
package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config carries app-level settings that are not part of the shareable
// state: where the state blob lives, the time-travel clamp bound, and the
// remote catalog URL.
type Config struct {
	StateDir   string  `yaml:"stateDir"`
	CatalogURL string  `yaml:"catalogURL"`
	ClampHours float64 `yaml:"clampHours"` // 0 disables clamping
}

// Default returns the built-in configuration. The clamp matches the more
// conservative of the two observed deployments of this engine.
func Default() Config {
	dir := "."
	if userDir, err := os.UserConfigDir(); err == nil {
		dir = filepath.Join(userDir, "tzalign")
	}
	return Config{
		StateDir:   dir,
		CatalogURL: "https://codegroove.dev/tzalign/timezones.json",
		ClampHours: 23,
	}
}

// Load reads the YAML config at path, filling unset fields from Default.
// A missing file is normal; a malformed one is logged and ignored.
func Load(path string, logger *slog.Logger) Config {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read config file", "path", path, "error", err)
		}
		return cfg
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		logger.Warn("config file is malformed, using defaults", "path", path, "error", err)
		return cfg
	}
	if file.StateDir != "" {
		cfg.StateDir = file.StateDir
	}
	if file.CatalogURL != "" {
		cfg.CatalogURL = file.CatalogURL
	}
	if file.ClampHours != 0 {
		cfg.ClampHours = file.ClampHours
	}
	return cfg
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	if userDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(userDir, "tzalign", "config.yaml")
	}
	return "config.yaml"
}
