package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/swingsim/internal/loop"
)

const (
	DefaultModel  = "strand"
	DefaultFrames = 600
	DefaultFPS    = 60
	DefaultSeed   = 42

	DefaultStabilityThreshold = 5.0
)

type Config struct {
	Model     string       `yaml:"model"`
	Frames    int          `yaml:"frames"`
	FPS       int          `yaml:"fps"`
	Seed      uint32       `yaml:"seed"`
	Realtime  bool         `yaml:"realtime"`
	Stability float64      `yaml:"stability_threshold"`
	Loop      LoopConfig   `yaml:"loop"`
	Strand    StrandConfig `yaml:"strand"`
	Swing     SwingConfig  `yaml:"swing"`
}

type LoopConfig struct {
	Hertz int `yaml:"hertz"`
	Panic int `yaml:"panic"`
	Max   int `yaml:"max"`
}

type StrandConfig struct {
	Particles  int     `yaml:"particles"`
	Spacing    float64 `yaml:"spacing"`
	Length     float64 `yaml:"length"`
	Mass       float64 `yaml:"mass"`
	Gravity    float64 `yaml:"gravity"`
	Iterations int     `yaml:"iterations"`
	Strength   float64 `yaml:"strength"`
	Angle      float64 `yaml:"angle"`
	LoadEnd    bool    `yaml:"load_end"`
}

type SwingConfig struct {
	Gravity     float64 `yaml:"gravity"`
	Jump        float64 `yaml:"jump"`
	Pump        float64 `yaml:"pump"`
	Passes      int     `yaml:"passes"`
	GrabTick    int     `yaml:"grab_tick"`
	ReleaseTick int     `yaml:"release_tick"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:     DefaultModel,
		Frames:    DefaultFrames,
		FPS:       DefaultFPS,
		Seed:      DefaultSeed,
		Stability: DefaultStabilityThreshold,
		Loop: LoopConfig{
			Hertz: loop.DefaultHertz,
			Panic: loop.DefaultPanic,
			Max:   loop.DefaultMax,
		},
		Strand: StrandConfig{
			Particles:  5,
			Spacing:    15,
			Length:     10,
			Mass:       1,
			Gravity:    0.2,
			Iterations: 3,
			Strength:   1,
			LoadEnd:    true,
		},
		Swing: SwingConfig{
			Gravity:     0.04,
			Jump:        1,
			Pump:        0.02125,
			Passes:      3,
			ReleaseTick: 110,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) LoopConfig() loop.Config {
	return loop.Config{Hertz: c.Loop.Hertz, Panic: c.Loop.Panic, Max: c.Loop.Max}
}

// Validate checks the run-level settings. Model parameters are checked by the
// systems themselves when they are applied.
func (c *Config) Validate() error {
	if err := c.LoopConfig().Validate(); err != nil {
		return err
	}
	if c.Frames <= 0 {
		return fmt.Errorf("config: frames must be positive, got %d", c.Frames)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	}
	return nil
}

// Params flattens the strand section into the parameter names Strand.SetParam
// understands.
func (c *Config) Params() map[string]float64 {
	loadEnd := 0.0
	if c.Strand.LoadEnd {
		loadEnd = 1
	}
	return map[string]float64{
		"particles":  float64(c.Strand.Particles),
		"spacing":    c.Strand.Spacing,
		"length":     c.Strand.Length,
		"mass":       c.Strand.Mass,
		"gravity":    c.Strand.Gravity,
		"iterations": float64(c.Strand.Iterations),
		"strength":   c.Strand.Strength,
		"angle":      c.Strand.Angle,
		"load_end":   loadEnd,
	}
}
