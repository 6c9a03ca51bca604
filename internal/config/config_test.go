package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "drawer_key" {
		t.Errorf("expected scenario drawer_key, got %s", cfg.Scenario)
	}
	if cfg.Tau <= 0 {
		t.Error("tau should be positive")
	}
	if cfg.MaxTicks <= 0 {
		t.Error("max_ticks should be positive")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Scenario = "lockbox"
	cfg.Seed = 99
	cfg.Goals = []Goal{{Joint: 0, Target: 45.5}}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Scenario != "lockbox" {
		t.Errorf("expected lockbox, got %s", loaded.Scenario)
	}
	if loaded.Seed != 99 {
		t.Errorf("expected seed 99, got %d", loaded.Seed)
	}
	if len(loaded.Goals) != 1 || loaded.Goals[0].Target != 45.5 {
		t.Errorf("goals did not round-trip: %+v", loaded.Goals)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("lockbox")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Scenario != "lockbox" {
		t.Errorf("expected lockbox scenario, got %s", cfg.Scenario)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestOptionsCarriesNoise(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Noise = NoiseConfig{Q: 0.5, Vel: 0.25}

	opts := cfg.Options()
	if opts.Noise.Q != 0.5 || opts.Noise.Vel != 0.25 {
		t.Errorf("noise not carried: %+v", opts.Noise)
	}
}
