package automation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/particlespace/internal/config"
	"github.com/san-kum/particlespace/internal/dynamo"
	"github.com/san-kum/particlespace/internal/experiment"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset and applies Config on top of it. Steps
// and Seed override the preset when non-zero.
type ScenarioStep struct {
	Name   string    `yaml:"name"`
	Mode   string    `yaml:"mode"`
	Preset string    `yaml:"preset"`
	Steps  int       `yaml:"steps"`
	Seed   int64     `yaml:"seed"`
	Config yaml.Node `yaml:"config"`
	SaveAs string    `yaml:"save_as"`
}

// Recorder persists a finished run and returns its ID.
type Recorder interface {
	Save(cfg *config.Config, result *dynamo.Result) (string, error)
}

type StepResult struct {
	Name   string
	Config *config.Config
	Result *dynamo.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&scenario); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// Resolve builds the configuration a step runs with.
func (s *ScenarioStep) Resolve() (*config.Config, error) {
	mode, preset := s.Mode, s.Preset
	if mode == "" {
		mode = config.ModeCollision
	}
	if preset == "" {
		preset = "default"
	}
	cfg := config.GetPreset(mode, preset)
	if cfg == nil {
		return nil, fmt.Errorf("%w: preset %s/%s", dynamo.ErrUnknownComponent, mode, preset)
	}
	if !s.Config.IsZero() {
		if err := decodeStrict(&s.Config, cfg); err != nil {
			return nil, fmt.Errorf("config overrides: %w", err)
		}
	}
	if s.Steps != 0 {
		cfg.Steps = s.Steps
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	return cfg, nil
}

// decodeStrict decodes n onto out, rejecting keys out does not declare.
// Node.Decode ignores unknown keys, so the node is re-encoded first.
func decodeStrict(n *yaml.Node, out any) error {
	data, err := yaml.Marshal(n)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// RunScenario executes all steps in a scenario. Steps with SaveAs set are
// handed to rec when it is non-nil.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, rec Recorder) ([]StepResult, error) {
	log := dynamo.Logger()
	results := make([]StepResult, 0, len(scenario.Steps))

	for i := range scenario.Steps {
		step := &scenario.Steps[i]
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		log.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "name", name)

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, registry)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Config: cfg, Result: result}
		if step.SaveAs != "" && rec != nil {
			id, err := rec.Save(cfg, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
			log.Info("scenario step saved", "name", step.SaveAs, "run", id)
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs one simulation per evenly spaced parameter value.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds one sweep point. Err records a failure at that point
// (for example placement exhaustion at large radii) without stopping the sweep.
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	StepsTaken int
	Err        error
}

// SweepParams lists the parameters a sweep can vary.
var SweepParams = []string{
	"epsilon", "gravity_constant", "max_mass", "max_velocity", "min_distance",
	"min_mass", "num_particles", "radius", "theta", "velocity_scale",
}

func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "gravity_constant":
		cfg.Gravity.GravityConstant = v
	case "min_distance":
		cfg.Gravity.MinDistance = v
	case "velocity_scale":
		cfg.Gravity.VelocityScale = v
	case "theta":
		cfg.Gravity.Theta = v
	case "epsilon":
		cfg.Collision.Epsilon = v
	case "radius":
		cfg.Particles.Radius = v
	case "max_velocity":
		cfg.Particles.MaxVelocity = v
	case "min_mass":
		cfg.Particles.MinMass = v
	case "max_mass":
		cfg.Particles.MaxMass = v
	case "num_particles":
		cfg.Particles.NumParticles = int(math.Round(v))
	default:
		return &dynamo.ConfigError{Field: "param", Reason: fmt.Sprintf("cannot sweep %q", name)}
	}
	return nil
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, &dynamo.ConfigError{Field: "steps", Reason: fmt.Sprintf("sweep needs at least 1 point, got %d", sweep.NumSteps)}
	}
	if err := setParam(sweep.Base.Clone(), sweep.ParamName, sweep.ParamMin); err != nil {
		return nil, err
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	log := dynamo.Logger()
	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := sweep.Base.Clone()
		_ = setParam(cfg, sweep.ParamName, paramVal)

		sr := SweepResult{ParamValue: paramVal}
		exp := experiment.New(cfg, registry)
		if err := exp.Setup(); err != nil {
			sr.Err = err
		} else {
			result, err := exp.Run(ctx)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return results, err
			}
			sr.Err = err
			if result != nil {
				sr.Metrics = result.Metrics
				sr.StepsTaken = result.StepsTaken
			}
		}
		results = append(results, sr)

		log.Info("sweep point", "index", i+1, "of", sweep.NumSteps, "param", sweep.ParamName, "value", paramVal, "err", sr.Err)
	}

	return results, nil
}

// MonteCarloConfig repeats a configuration over consecutive seeds.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Seed      int64
}

// MonteCarloResult holds statistics from one trial.
type MonteCarloResult struct {
	TrialID int
	Seed    int64
	Metrics map[string]float64
	Stable  bool // finished without invalid state and stayed contained
}

// RunMonteCarlo runs one trial per consecutive seed starting at cfg.Seed.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, &dynamo.ConfigError{Field: "trials", Reason: fmt.Sprintf("must be at least 1, got %d", cfg.NumTrials)}
	}
	if err := cfg.Base.Validate(); err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	runCfg := cfg.Base.RunConfig()
	for trial := range results {
		seed := cfg.Seed + int64(trial)
		sim, err := experiment.Builder(cfg.Base, registry)(seed)
		if err != nil {
			return nil, err
		}
		res, err := sim.Run(ctx, runCfg)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		stable := err == nil
		if c, ok := res.Metrics["containment"]; ok && c < 1 {
			stable = false
		}
		results[trial] = MonteCarloResult{TrialID: trial, Seed: seed, Metrics: res.Metrics, Stable: stable}

		if (trial+1)%10 == 0 {
			dynamo.Logger().Info("monte carlo progress", "done", trial+1, "of", cfg.NumTrials)
		}
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
