package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/particlespace/internal/config"
	"github.com/san-kum/particlespace/internal/dynamo"
)

type Experiment struct {
	cfg        *config.Config
	reg        *Registry
	simulation *dynamo.Simulation
	randSource *rand.Rand
}

func New(cfg *config.Config, reg *Registry) *Experiment {
	return &Experiment{
		cfg:        cfg,
		reg:        reg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Setup validates the configuration, generates the population and attaches
// the default metrics.
func (e *Experiment) Setup() error {
	sim, err := build(e.cfg, e.reg, e.randSource)
	if err != nil {
		return err
	}
	for _, m := range e.reg.DefaultMetrics(e.cfg) {
		sim.AddMetric(m)
	}
	e.simulation = sim
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulation == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulation.Run(ctx, e.cfg.RunConfig())
}

// Simulation returns the underlying simulation for adding observers.
func (e *Experiment) Simulation() *dynamo.Simulation {
	return e.simulation
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}

// Build creates a simulation from cfg with a population drawn from seed.
func Build(cfg *config.Config, reg *Registry, seed int64) (*dynamo.Simulation, error) {
	return build(cfg, reg, rand.New(rand.NewSource(seed)))
}

// Builder returns a dynamo.Builder for ensembles over cfg. Every run gets
// fresh components and default metrics.
func Builder(cfg *config.Config, reg *Registry) dynamo.Builder {
	return func(seed int64) (*dynamo.Simulation, error) {
		sim, err := Build(cfg, reg, seed)
		if err != nil {
			return nil, err
		}
		for _, m := range reg.DefaultMetrics(cfg) {
			sim.AddMetric(m)
		}
		return sim, nil
	}
}

func build(cfg *config.Config, reg *Registry, rng *rand.Rand) (*dynamo.Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	strategy, err := reg.Strategy(cfg)
	if err != nil {
		return nil, err
	}
	ps, err := dynamo.Generate(rng, cfg.GenerateSpec())
	if err != nil {
		return nil, err
	}
	dynamo.Logger().Debug("population generated", "mode", cfg.Mode, "particles", len(ps))
	return dynamo.New(ps, strategy)
}
