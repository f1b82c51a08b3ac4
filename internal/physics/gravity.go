package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlespace/internal/dynamo"
	"github.com/san-kum/particlespace/internal/integrators"
)

// DefaultMinDistance caps the force between close pairs as if they were
// this far apart.
const DefaultMinDistance = 0.01

// pairForce is the attraction on a exerted by b. Coincident centres give
// no force; separations below minDist are raised to minDist.
func pairForce(a, b *dynamo.Particle, G, minDist float64) r2.Vec {
	d := r2.Sub(b.Position, a.Position)
	r := r2.Norm(d)
	if r == 0 {
		return r2.Vec{}
	}
	capped := math.Max(r, minDist)
	mag := G * a.Mass() * b.Mass() / (capped * capped)
	return r2.Scale(mag/r, d)
}

// ForceOn sums the gravitational pull of every other particle on ps[i].
func ForceOn(ps []dynamo.Particle, i int, G, minDist float64) r2.Vec {
	var f r2.Vec
	for j := range ps {
		if j == i {
			continue
		}
		f = r2.Add(f, pairForce(&ps[i], &ps[j], G, minDist))
	}
	return f
}

// Solver writes the net force on every particle of ps into out.
type Solver interface {
	Name() string
	Forces(ps []dynamo.Particle, out []r2.Vec)
}

// ExactSolver evaluates every unordered pair once and applies the force to
// both members with opposite signs, so internal forces cancel exactly.
type ExactSolver struct {
	G           float64
	MinDistance float64
}

func NewExactSolver(G, minDist float64) *ExactSolver {
	return &ExactSolver{G: G, MinDistance: minDist}
}

func (s *ExactSolver) Name() string { return "exact" }

func (s *ExactSolver) Forces(ps []dynamo.Particle, out []r2.Vec) {
	for i := range out {
		out[i] = r2.Vec{}
	}
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			f := pairForce(&ps[i], &ps[j], s.G, s.MinDistance)
			out[i] = r2.Add(out[i], f)
			out[j] = r2.Sub(out[j], f)
		}
	}
}

// Gravity is the N-body mode.
type Gravity struct {
	Solver        Solver
	Integrator    integrators.Integrator
	Boundary      Boundary
	Bounds        dynamo.Bounds
	VelocityScale float64
}

func NewGravity(solver Solver, integ integrators.Integrator, boundary Boundary, bounds dynamo.Bounds, velocityScale float64) *Gravity {
	return &Gravity{
		Solver:        solver,
		Integrator:    integ,
		Boundary:      boundary,
		Bounds:        bounds,
		VelocityScale: velocityScale,
	}
}

func (g *Gravity) Name() string { return "gravity" }

// Step integrates one tick from forces evaluated on a consistent state,
// then applies the boundary to every particle.
func (g *Gravity) Step(ps []dynamo.Particle) {
	g.Integrator.Integrate(ps, g.Solver.Forces, g.VelocityScale)
	for i := range ps {
		g.Boundary.Apply(&ps[i], g.Bounds)
	}
}
