package config

import (
	"os"
	"path/filepath"
	"testing"

	"gbcore/internal/emulator"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if cfg.Scale < 1 || cfg.Scale > 6 {
		t.Fatalf("default scale %d out of range", cfg.Scale)
	}
	if cfg.KeyBindings.A == "" {
		t.Fatalf("default key bindings incomplete: %+v", cfg.KeyBindings)
	}
}

func TestLoadPartialFileOverridesOnlyNamedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("scale = 5\nlog_level = \"debug\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scale != 5 {
		t.Fatalf("scale = %d, want 5", cfg.Scale)
	}
	if cfg.KeyBindings.A != "Z" {
		t.Fatalf("key bindings should keep default when unnamed in file: %+v", cfg.KeyBindings)
	}
	if cfg.EmulatorLogLevel() != emulator.LogDebug {
		t.Fatalf("log level = %v, want LogDebug", cfg.EmulatorLogLevel())
	}
}

func TestLoadRejectsOutOfRangeScale(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("scale = 9\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for scale=9")
	}
}
