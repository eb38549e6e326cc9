package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/swingsim/internal/config"
	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/experiment"
	"github.com/san-kum/swingsim/internal/optim"
	"github.com/san-kum/swingsim/internal/random"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Preset, when set, replaces the
// base configuration before Frames and Params are applied.
type ScenarioStep struct {
	Model  string             `yaml:"model"`
	Preset string             `yaml:"preset"`
	Frames int                `yaml:"frames"`
	Seed   uint32             `yaml:"seed"`
	Params map[string]float64 `yaml:"params"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// RunScenario executes all steps in a scenario in order.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, registry *experiment.Registry) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		slog.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "model", step.Model)

		cfg := *base
		if step.Preset != "" {
			p := config.GetPreset(step.Model, step.Preset)
			if p == nil {
				return results, fmt.Errorf("step %d: unknown preset %s/%s", i+1, step.Model, step.Preset)
			}
			cfg = *p
		}
		cfg.Model = step.Model
		if step.Frames > 0 {
			cfg.Frames = step.Frames
		}
		if step.Seed != 0 {
			cfg.Seed = step.Seed
		}

		result, err := runWith(ctx, registry, &cfg, step.Params)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// runWith builds cfg.Model, applies params and runs it.
func runWith(ctx context.Context, registry *experiment.Registry, cfg *config.Config, params map[string]float64) (*dynamo.Result, error) {
	exp, err := registry.Build(cfg)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		tunable, ok := exp.System().(dynamo.Configurable)
		if !ok {
			return nil, fmt.Errorf("model %s is not tunable", cfg.Model)
		}
		for k, v := range params {
			if err := tunable.SetParam(k, v); err != nil {
				return nil, err
			}
		}
	}
	return exp.Run(ctx)
}

// ParameterSweep runs one simulation per evenly spaced value of a parameter.
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Workers   int
}

// SweepResult holds one point of a parameter sweep.
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Final      dynamo.Frame
}

// RunSweep executes a parameter sweep. Points run in parallel, each on its
// own system, and come back in parameter order.
func RunSweep(ctx context.Context, sweep *ParameterSweep, cfg *config.Config, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", dynamo.ErrParameterBounds)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, sweep.NumSteps)
	err := dynamo.NewEnsemble(sweep.Workers).Run(ctx, sweep.NumSteps, func(ctx context.Context, i int) error {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		result, err := runWith(ctx, registry, cfg, map[string]float64{sweep.ParamName: paramVal})
		if err != nil {
			return fmt.Errorf("%s=%.4f: %w", sweep.ParamName, paramVal, err)
		}
		results[i] = SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			Final:      result.Final(),
		}
		slog.Debug("sweep point", "param", sweep.ParamName, "value", paramVal, "step", i+1, "of", sweep.NumSteps)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	// Params are scaled by a random factor in [1-Perturbation, 1+Perturbation].
	Params       []string
	Perturbation float64
	NumTrials    int
	Seed         uint32
	Workers      int
}

// MonteCarloResult holds the outcome of one trial.
type MonteCarloResult struct {
	TrialID int
	Params  map[string]float64
	Metrics map[string]float64
	Final   dynamo.Frame
	Stable  bool // every frame finite and within the stability threshold
	Err     error
}

// DefaultPerturbed names the parameters perturbed when none are given.
func DefaultPerturbed(model string) []string {
	switch model {
	case "swing":
		return []string{"gravity", "pump"}
	default:
		return []string{"gravity", "length"}
	}
}

// RunMonteCarlo executes trials with randomly perturbed parameters. Trial i
// draws from stream i of the seed, so results do not depend on scheduling.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, cfg *config.Config, registry *experiment.Registry) ([]MonteCarloResult, error) {
	params := mc.Params
	if len(params) == 0 {
		params = DefaultPerturbed(cfg.Model)
	}

	probe, err := registry.GetModel(cfg.Model, cfg)
	if err != nil {
		return nil, err
	}
	tunable, ok := probe.(dynamo.Configurable)
	if !ok {
		return nil, fmt.Errorf("model %s is not tunable", cfg.Model)
	}
	base := tunable.GetParams()
	for _, name := range params {
		if _, ok := base[name]; !ok {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
		}
	}

	results := make([]MonteCarloResult, mc.NumTrials)
	err = dynamo.NewEnsemble(mc.Workers).Run(ctx, mc.NumTrials, func(ctx context.Context, trial int) error {
		rng := random.New(mc.Seed, uint32(trial))
		perturbed := make(map[string]float64, len(params))
		for _, name := range params {
			perturbed[name] = base[name] * (1 + (rng.Float64()*2-1)*mc.Perturbation)
		}

		r := MonteCarloResult{TrialID: trial, Params: perturbed}
		result, err := runWith(ctx, registry, cfg, perturbed)
		if result != nil {
			r.Metrics = result.Metrics
			r.Final = result.Final()
		}
		r.Err = err
		r.Stable = err == nil && r.Metrics["stability"] == 1
		results[trial] = r

		if (trial+1)%10 == 0 {
			slog.Debug("monte carlo progress", "trial", trial+1, "of", mc.NumTrials)
		}
		if ctx.Err() != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// RunSearch evaluates every point of a grid search against cfg.Model.
func RunSearch(ctx context.Context, search *optim.GridSearch, cfg *config.Config, registry *experiment.Registry) (optim.Point, []optim.Point, error) {
	return search.Search(ctx, func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		result, err := runWith(ctx, registry, cfg, params)
		if err != nil {
			return nil, err
		}
		return result.Metrics, nil
	})
}
