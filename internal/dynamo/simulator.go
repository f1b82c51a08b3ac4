package dynamo

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"
)

// Simulation owns a particle population and the strategy advancing it.
type Simulation struct {
	particles []Particle
	strategy  Strategy
	frame     uint64
	metrics   []Metric
	observers []Observer
}

// New copies ps so the caller's slice never aliases simulation state.
// Every particle must carry a positive mass and a non-negative radius, as
// NewParticle guarantees, and a finite position and velocity.
func New(ps []Particle, strategy Strategy) (*Simulation, error) {
	for i, p := range ps {
		if !(p.mass > 0) || math.IsInf(p.mass, 0) {
			return nil, &ConfigError{Field: fmt.Sprintf("particles[%d].mass", i), Reason: fmt.Sprintf("must be positive, got %g", p.mass)}
		}
		if !(p.radius >= 0) || math.IsInf(p.radius, 0) {
			return nil, &ConfigError{Field: fmt.Sprintf("particles[%d].radius", i), Reason: fmt.Sprintf("must be non-negative, got %g", p.radius)}
		}
		if !p.IsValid() {
			return nil, &SimulationError{Frame: 0, Particle: p.ID, Wrapped: ErrInvalidState}
		}
	}
	return &Simulation{
		particles: slices.Clone(ps),
		strategy:  strategy,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulation) Strategy() Strategy { return s.strategy }
func (s *Simulation) Frame() uint64      { return s.frame }
func (s *Simulation) Len() int           { return len(s.particles) }

// Particles returns a copy of the current population in creation order.
func (s *Simulation) Particles() []Particle {
	return slices.Clone(s.particles)
}

// Step advances the population by one tick.
func (s *Simulation) Step() {
	s.strategy.Step(s.particles)
	s.frame++
}

// Run steps the simulation cfg.Steps times. Metrics observe the initial
// state and every state after a step; snapshots are taken every
// cfg.SampleEvery frames and at the final frame.
func (s *Simulation) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Strategy:  s.strategy.Name(),
		Snapshots: make([]Snapshot, 0, cfg.Steps/cfg.SampleEvery+2),
		Metrics:   make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(s.particles, s.frame)
	}
	result.Snapshots = append(result.Snapshots, s.snapshot())

	log := Logger()
	log.Info("run started", "strategy", result.Strategy, "particles", len(s.particles), "steps", cfg.Steps)
	start := time.Now()

	var runErr error
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		s.Step()
		result.StepsTaken++

		if cfg.ValidateState {
			if err := s.validate(); err != nil {
				runErr = err
				break
			}
		}

		for _, m := range s.metrics {
			m.Observe(s.particles, s.frame)
		}
		for _, obs := range s.observers {
			obs.OnStep(s.particles, s.frame)
		}

		if result.StepsTaken%cfg.SampleEvery == 0 {
			result.Snapshots = append(result.Snapshots, s.snapshot())
		}
	}

	if last := result.Snapshots[len(result.Snapshots)-1]; last.Frame != s.frame {
		result.Snapshots = append(result.Snapshots, s.snapshot())
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	log.Info("run finished", "strategy", result.Strategy, "steps", result.StepsTaken, "elapsed", time.Since(start))
	return result, runErr
}

func (s *Simulation) snapshot() Snapshot {
	return Snapshot{Frame: s.frame, Particles: s.Particles()}
}

func (s *Simulation) validate() error {
	for _, p := range s.particles {
		if !p.IsValid() {
			return &SimulationError{Frame: s.frame, Particle: p.ID, Wrapped: ErrInvalidState}
		}
	}
	return nil
}

func validateRunConfig(cfg RunConfig) error {
	if cfg.Steps < 0 {
		return &ConfigError{Field: "steps", Reason: fmt.Sprintf("must be non-negative, got %d", cfg.Steps)}
	}
	if cfg.SampleEvery < 1 {
		return &ConfigError{Field: "sample_every", Reason: fmt.Sprintf("must be at least 1, got %d", cfg.SampleEvery)}
	}
	return nil
}
