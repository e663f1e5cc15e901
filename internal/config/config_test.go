package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenAbsent(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.General.DefaultCurrency != "EUR" {
		t.Fatalf("default currency = %q, want EUR", cfg.General.DefaultCurrency)
	}
	if cfg.Forecast.DefaultMonths != 6 {
		t.Fatalf("default months = %d, want 6", cfg.Forecast.DefaultMonths)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Fatalf("default theme = %q", cfg.Appearance.Theme)
	}
	if Exists() {
		t.Fatal("Exists() = true with no config file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.DefaultCurrency = "USD"
	cfg.General.DatabasePath = "/tmp/custom.db"
	cfg.Forecast.DefaultMonths = 12
	cfg.Appearance.Theme = "tokyo-night"

	if err := Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.General.DefaultCurrency != "USD" || got.General.DatabasePath != "/tmp/custom.db" {
		t.Fatalf("general section lost: %+v", got.General)
	}
	if got.Forecast.DefaultMonths != 12 {
		t.Fatalf("forecast months = %d, want 12", got.Forecast.DefaultMonths)
	}
	if got.Appearance.Theme != "tokyo-night" {
		t.Fatalf("theme = %q, want tokyo-night", got.Appearance.Theme)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "pecunio")
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := "[general]\ndefault_currency = \"GBP\"\n"
	if err := os.WriteFile(filepath.Join(path, "config.toml"), []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.General.DefaultCurrency != "GBP" {
		t.Fatalf("currency = %q, want GBP", cfg.General.DefaultCurrency)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Forecast.DefaultMonths != 6 {
		t.Fatalf("months = %d, want default 6", cfg.Forecast.DefaultMonths)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	if got := DatabasePath(cfg); got != DefaultDatabasePath() {
		t.Fatalf("empty config path = %q", got)
	}
	cfg.General.DatabasePath = "/data/ledger.db"
	if got := DatabasePath(cfg); got != "/data/ledger.db" {
		t.Fatalf("configured path = %q", got)
	}
}
