package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/swingsim/internal/config"
	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/metrics"
	"github.com/san-kum/swingsim/internal/physics"
	"github.com/san-kum/swingsim/internal/random"
	"github.com/san-kum/swingsim/internal/swing"
)

// Builder creates a fresh system from a run configuration.
type Builder func(cfg *config.Config) (dynamo.System, error)

type Registry struct {
	models map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]Builder)}
	r.models["strand"] = buildStrand
	r.models["swing"] = buildSwing
	return r
}

// Register adds or replaces a model.
func (r *Registry) Register(name string, b Builder) {
	r.models[name] = b
}

func buildStrand(cfg *config.Config) (dynamo.System, error) {
	s := physics.NewStrand()
	params := cfg.Params()
	// layout first, so the rope is rebuilt once the shape is final
	for _, name := range []string{"particles", "spacing", "mass", "angle", "length", "gravity", "iterations", "strength", "load_end"} {
		if err := s.SetParam(name, params[name]); err != nil {
			return nil, fmt.Errorf("strand: %w", err)
		}
	}
	return s, nil
}

func buildSwing(cfg *config.Config) (dynamo.System, error) {
	sc := swing.DefaultConfig()
	sc.Gravity = cfg.Swing.Gravity
	sc.Jump = cfg.Swing.Jump
	sc.Pump = cfg.Swing.Pump
	sc.Hertz = cfg.Loop.Hertz
	if cfg.Swing.Passes < 1 || cfg.Swing.Passes > dynamo.MaxIterations {
		return nil, fmt.Errorf("swing: %w: passes must be in [1, %d], got %d", dynamo.ErrParameterBounds, dynamo.MaxIterations, cfg.Swing.Passes)
	}
	sc.Passes = cfg.Swing.Passes

	g := swing.New(sc, random.New(cfg.Seed, 0))
	return swing.NewAutopilot(g, cfg.Swing.GrabTick, cfg.Swing.ReleaseTick), nil
}

func (r *Registry) GetModel(name string, cfg *config.Config) (dynamo.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownModel, name)
	}
	return fn(cfg)
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(cfg *config.Config) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewLinkError(),
		metrics.NewResidual(),
		metrics.NewStretch(),
		metrics.NewMotion(),
		metrics.NewDrift(),
		metrics.NewStability(cfg.Stability),
	}
}

// Build creates the experiment for cfg.Model with the default metrics.
func (r *Registry) Build(cfg *config.Config) (*Experiment, error) {
	sys, err := r.GetModel(cfg.Model, cfg)
	if err != nil {
		return nil, err
	}
	exp := New(*cfg, sys)
	for _, m := range r.DefaultMetrics(cfg) {
		exp.AddMetric(m)
	}
	return exp, nil
}
