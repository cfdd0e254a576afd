// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/dream-alpha/area51/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Site        string `toml:"site"`
	Quality     string `toml:"quality"`
	PreferAV1   bool   `toml:"prefer_av1"`
	MaxVideos   int    `toml:"max_videos"`
	PageEntries int    `toml:"page_entries"`
	History     bool   `toml:"history"`
	Debug       bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Site:        "",
		Quality:     "best",
		PreferAV1:   false,
		MaxVideos:   100,
		PageEntries: 25,
		History:     true,
		Debug:       false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "area51"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "area51"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if models.ParseQuality(c.Quality) == models.QualityUnknown {
		return fmt.Errorf("unsupported quality %q (valid: 144p-2160p, adaptive, best)", c.Quality)
	}
	if c.MaxVideos < 1 {
		return fmt.Errorf("max_videos must be positive, got %d", c.MaxVideos)
	}
	if c.PageEntries < 1 {
		return fmt.Errorf("page_entries must be positive, got %d", c.PageEntries)
	}
	return nil
}

// ResolveQuality returns the configured quality as a typed value.
func (c *Config) ResolveQuality() models.Quality {
	return models.ParseQuality(c.Quality)
}

// HistoryPath returns the path to the resolution history database.
func HistoryPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "area51", "history.db"), nil
}
