package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/particlespace/internal/config"
	"github.com/san-kum/particlespace/internal/dynamo"
	"github.com/san-kum/particlespace/internal/integrators"
	"github.com/san-kum/particlespace/internal/metrics"
	"github.com/san-kum/particlespace/internal/physics"
)

// Registry maps configuration names to strategy components.
type Registry struct {
	boundaries  map[string]func() physics.Boundary
	resolvers   map[string]func(*config.Config) physics.Resolver
	solvers     map[string]func(*config.Config) physics.Solver
	integrators map[string]func() integrators.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		boundaries:  make(map[string]func() physics.Boundary),
		resolvers:   make(map[string]func(*config.Config) physics.Resolver),
		solvers:     make(map[string]func(*config.Config) physics.Solver),
		integrators: make(map[string]func() integrators.Integrator),
	}

	r.boundaries["wrap"] = func() physics.Boundary { return physics.Wrap{} }
	r.boundaries["reflect"] = func() physics.Boundary { return physics.Reflect{} }
	r.boundaries["open"] = func() physics.Boundary { return physics.Open{} }

	r.resolvers["elastic"] = func(cfg *config.Config) physics.Resolver {
		return physics.Elastic{Epsilon: cfg.Collision.Epsilon}
	}
	r.resolvers["reverse"] = func(*config.Config) physics.Resolver { return physics.Reverse{} }

	r.solvers["exact"] = func(cfg *config.Config) physics.Solver {
		return physics.NewExactSolver(cfg.Gravity.GravityConstant, cfg.Gravity.MinDistance)
	}
	r.solvers["barneshut"] = func(cfg *config.Config) physics.Solver {
		g := cfg.Gravity
		return physics.NewBarnesHutSolver(g.GravityConstant, g.MinDistance, g.Theta)
	}

	r.integrators["euler"] = func() integrators.Integrator { return integrators.NewEuler() }
	r.integrators["leapfrog"] = func() integrators.Integrator { return integrators.NewLeapfrog() }

	return r
}

func unknown(kind, name string) error {
	return fmt.Errorf("%w: %s %q", dynamo.ErrUnknownComponent, kind, name)
}

func (r *Registry) GetBoundary(name string) (physics.Boundary, error) {
	fn, ok := r.boundaries[name]
	if !ok {
		return nil, unknown("boundary", name)
	}
	return fn(), nil
}

func (r *Registry) GetResolver(name string, cfg *config.Config) (physics.Resolver, error) {
	fn, ok := r.resolvers[name]
	if !ok {
		return nil, unknown("resolver", name)
	}
	return fn(cfg), nil
}

func (r *Registry) GetSolver(name string, cfg *config.Config) (physics.Solver, error) {
	fn, ok := r.solvers[name]
	if !ok {
		return nil, unknown("solver", name)
	}
	return fn(cfg), nil
}

func (r *Registry) GetIntegrator(name string) (integrators.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, unknown("integrator", name)
	}
	return fn(), nil
}

// Strategy assembles the strategy the configuration's mode selects.
func (r *Registry) Strategy(cfg *config.Config) (dynamo.Strategy, error) {
	boundary, err := r.GetBoundary(cfg.Boundary)
	if err != nil {
		return nil, err
	}

	switch cfg.Mode {
	case config.ModeCollision:
		resolver, err := r.GetResolver(cfg.Resolver, cfg)
		if err != nil {
			return nil, err
		}
		return physics.NewCollision(resolver, boundary, cfg.Bounds()), nil
	case config.ModeGravity:
		solver, err := r.GetSolver(cfg.Solver, cfg)
		if err != nil {
			return nil, err
		}
		integ, err := r.GetIntegrator(cfg.Integrator)
		if err != nil {
			return nil, err
		}
		return physics.NewGravity(solver, integ, boundary, cfg.Bounds(), cfg.Gravity.VelocityScale), nil
	}
	return nil, unknown("mode", cfg.Mode)
}

func (r *Registry) ListBoundaries() []string  { return sortedKeys(r.boundaries) }
func (r *Registry) ListResolvers() []string   { return sortedKeys(r.resolvers) }
func (r *Registry) ListSolvers() []string     { return sortedKeys(r.solvers) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh metrics suited to the configuration's mode.
func (r *Registry) DefaultMetrics(cfg *config.Config) []dynamo.Metric {
	ms := []dynamo.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewMomentumDrift(),
	}
	if cfg.Mode == config.ModeGravity {
		ms = append(ms, metrics.NewEnergyDrift(cfg.Gravity.GravityConstant, cfg.Gravity.MinDistance))
		if cfg.Boundary != "open" {
			ms = append(ms, metrics.NewContainment(cfg.Bounds(), 1e-9))
		}
		return ms
	}
	return append(ms,
		metrics.NewEnergyDrift(0, 0),
		metrics.NewContainment(cfg.Bounds(), 1e-9),
		metrics.NewOverlaps(),
	)
}
