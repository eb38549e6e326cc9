package config

import "sort"

var Presets = map[string]map[string]*Config{
	"strand": {
		"hanging": preset("strand", func(c *Config) {}),
		"horizontal": preset("strand", func(c *Config) {
			c.Strand.Angle = 90
		}),
		"long": preset("strand", func(c *Config) {
			c.Strand.Particles = 24
			c.Strand.Spacing = 10
			c.Strand.Iterations = 12
			c.Strand.LoadEnd = false
		}),
		"stiff": preset("strand", func(c *Config) {
			c.Strand.Iterations = 32
		}),
		"soft": preset("strand", func(c *Config) {
			c.Strand.Strength = 0.125
			c.Strand.Iterations = 1
		}),
	},
	"swing": {
		"classic": preset("swing", func(c *Config) {}),
		"early": preset("swing", func(c *Config) {
			c.Swing.ReleaseTick = 1
		}),
		"pumped": preset("swing", func(c *Config) {
			c.Swing.Pump = 0.05
			c.Frames = 1200
		}),
		"stutter": preset("swing", func(c *Config) {
			c.Loop.Max = 1
			c.FPS = 30
		}),
	},
}

func preset(model string, apply func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Model = model
	apply(cfg)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
