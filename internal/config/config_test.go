package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !cfg.Core.UseTopDirs || !cfg.Core.CheckStickyBit {
		t.Errorf("defaults not applied: %+v", cfg.Core)
	}
	if !cfg.Logging.Enabled || cfg.Logging.Level != "debug" {
		t.Errorf("logging defaults not applied: %+v", cfg.Logging)
	}
}

func TestParseOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "core:\n  use_top_dirs: false\n  verbose: true\nlogging:\n  enabled: false\n  level: warn\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Core.UseTopDirs {
		t.Error("use_top_dirs not overridden")
	}
	if !cfg.Core.Verbose {
		t.Error("verbose not set")
	}
	if cfg.Logging.Enabled || cfg.Logging.Level != "warn" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestParseRejectsBadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(path); err == nil {
		t.Error("Parse() accepted invalid log level")
	}
}
