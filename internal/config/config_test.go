package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/swingsim/internal/loop"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "strand" {
		t.Errorf("expected model strand, got %s", cfg.Model)
	}
	if cfg.LoopConfig() != loop.DefaultConfig() {
		t.Errorf("loop config %+v", cfg.LoopConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero frames", func(c *Config) { c.Frames = 0 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"zero hertz", func(c *Config) { c.Loop.Hertz = 0 }},
		{"negative max", func(c *Config) { c.Loop.Max = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected an error")
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Loop.Panic = 0
	if err := cfg.Validate(); !errors.Is(err, loop.ErrInvalidConfig) {
		t.Errorf("loop errors should wrap ErrInvalidConfig, got %v", err)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Model = "swing"
	cfg.Seed = 7
	cfg.Swing.ReleaseTick = 95
	cfg.Strand.Angle = 45

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "model: swing\nloop:\n  max: 5\nstrand:\n  iterations: 9\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Loop.Max != 5 || cfg.Loop.Hertz != loop.DefaultHertz {
		t.Errorf("loop section %+v", cfg.Loop)
	}
	if cfg.Strand.Iterations != 9 || cfg.Strand.Spacing != 15 {
		t.Errorf("strand section %+v", cfg.Strand)
	}
	if cfg.Swing.Pump != 0.02125 {
		t.Errorf("swing defaults lost: %+v", cfg.Swing)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("frames: [1, 2"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestParams(t *testing.T) {
	cfg := DefaultConfig()
	params := cfg.Params()

	if params["iterations"] != 3 || params["spacing"] != 15 || params["load_end"] != 1 {
		t.Errorf("params %v", params)
	}
	if len(params) != 9 {
		t.Errorf("expected 9 params, got %d", len(params))
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("strand", "horizontal")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Strand.Angle != 90 || cfg.Model != "strand" {
		t.Errorf("unexpected preset %+v", cfg.Strand)
	}

	cfg.Strand.Angle = 10
	if GetPreset("strand", "horizontal").Strand.Angle != 90 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	cfg := GetPreset("strand", "nonexistent")
	if cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg = GetPreset("nonexistent", "hanging")
	if cfg != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("swing")
	want := []string{"classic", "early", "pumped", "stutter"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("expected %v, got %v", want, presets)
		}
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestPresetsValidate(t *testing.T) {
	for model, presets := range Presets {
		for name, cfg := range presets {
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", model, name, err)
			}
			if cfg.Model != model {
				t.Errorf("%s/%s has model %s", model, name, cfg.Model)
			}
		}
	}
}
