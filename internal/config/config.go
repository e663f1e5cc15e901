// Package config loads and saves pecunio's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all pecunio configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Forecast   ForecastConfig   `toml:"forecast"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DatabasePath    string `toml:"database_path,omitempty"`
	DefaultCurrency string `toml:"default_currency"`
}

// ForecastConfig holds forecast defaults.
type ForecastConfig struct {
	DefaultMonths int `toml:"default_months"`
}

// AppearanceConfig holds dashboard preferences.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General:    GeneralConfig{DefaultCurrency: "EUR"},
		Forecast:   ForecastConfig{DefaultMonths: 6},
		Appearance: AppearanceConfig{Theme: "flexoki-dark"},
	}
}

// DefaultDatabasePath is where the ledger lives unless configured otherwise.
func DefaultDatabasePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "pecunio", "pecunio.db")
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pecunio")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pecunio")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Exists reports whether a config file is present on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// DatabasePath resolves the effective database path: config value if set,
// otherwise the default data location.
func DatabasePath(cfg Config) string {
	if cfg.General.DatabasePath != "" {
		return cfg.General.DatabasePath
	}
	return DefaultDatabasePath()
}
