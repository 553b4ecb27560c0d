package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AutoClean.Enabled {
		t.Fatalf("expected default Enabled=false")
	}
	if cfg.AutoClean.KeepCount != 3 || cfg.AutoClean.KeepDays != 14 {
		t.Fatalf("unexpected defaults: %#v", cfg.AutoClean)
	}
}

func TestLoadValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ng.toml")
	content := `
[auto-clean]
enabled = true
keep-count = 5
keep-days = 30
run-gc = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.AutoClean.Enabled || cfg.AutoClean.KeepCount != 5 || cfg.AutoClean.KeepDays != 30 || !cfg.AutoClean.RunGC {
		t.Fatalf("unexpected config: %#v", cfg.AutoClean)
	}
}

func TestLoadMalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ng.toml")
	if err := os.WriteFile(path, []byte("this is not [ valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected malformed config to fail loudly, got nil error")
	}
}

func TestLoadNegativeKeepCountFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ng.toml")
	content := "[auto-clean]\nkeep-count = -1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for negative keep-count")
	}
}

func TestOnSuccessForMode(t *testing.T) {
	cfg := Default()
	if !cfg.OnSuccessForMode(ModeSwitch) {
		t.Fatalf("expected default to include switch")
	}
	if cfg.OnSuccessForMode(ModeTest) {
		t.Fatalf("expected default to exclude test")
	}
}
