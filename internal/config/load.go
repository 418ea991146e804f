package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load resolves the effective configuration. Defaults come first, a config
// file (explicit --config path, else the first found candidate) overrides
// them, and CLI flags override everything.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)
	return cfg, nil
}

// findConfigFile returns the first existing config file: the working
// directory first, then the per-user config directory.
func findConfigFile() string {
	for _, path := range []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns where this user's avatarcore config lives, following
// each platform's convention (XDG on Linux).
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "AvatarCore")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "AvatarCore")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "avatarcore")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "avatarcore")
	}
}

// loadFromFile overlays values from a YAML file onto cfg; keys absent from
// the file keep their current values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
