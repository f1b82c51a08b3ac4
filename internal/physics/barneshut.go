package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlespace/internal/dynamo"
)

// body adapts a particle to barneshut.Particle2. Pointers keep identity
// distinct for particles that share a position and mass.
type body struct {
	pos  r2.Vec
	mass float64
}

func (b *body) Coord2() r2.Vec { return b.pos }
func (b *body) Mass() float64  { return b.mass }

// BarnesHutSolver approximates the net force with a quadtree. Clusters
// whose size over distance is below Theta are treated as a single mass.
// Theta 0 visits every leaf.
type BarnesHutSolver struct {
	G           float64
	MinDistance float64
	Theta       float64

	exact ExactSolver
}

func NewBarnesHutSolver(G, minDist, theta float64) *BarnesHutSolver {
	return &BarnesHutSolver{
		G:           G,
		MinDistance: minDist,
		Theta:       theta,
		exact:       ExactSolver{G: G, MinDistance: minDist},
	}
}

func (s *BarnesHutSolver) Name() string { return "barneshut" }

func (s *BarnesHutSolver) Forces(ps []dynamo.Particle, out []r2.Vec) {
	if !treeable(ps) {
		s.exactForces(ps, out)
		return
	}

	bodies := make([]body, len(ps))
	particles := make([]barneshut.Particle2, len(ps))
	for i := range ps {
		bodies[i] = body{pos: ps[i].Position, mass: ps[i].Mass()}
		particles[i] = &bodies[i]
	}

	tree, err := newQuadtree(particles)
	if err != nil {
		dynamo.Logger().Warn("quadtree build failed, using exact forces", "particles", len(ps), "err", err)
		s.exactForces(ps, out)
		return
	}
	for i, p := range particles {
		out[i] = r2.Scale(s.G, tree.forceOn(p, s.Theta, s.law))
	}
}

// law is Newtonian attraction between unit-G masses with the distance cap.
func (s *BarnesHutSolver) law(_, _ barneshut.Particle2, m1, m2 float64, v r2.Vec) r2.Vec {
	r := r2.Norm(v)
	if r == 0 {
		return r2.Vec{}
	}
	capped := math.Max(r, s.MinDistance)
	return r2.Scale(m1*m2/(capped*capped*r), v)
}

func (s *BarnesHutSolver) exactForces(ps []dynamo.Particle, out []r2.Vec) {
	s.exact.G, s.exact.MinDistance = s.G, s.MinDistance
	s.exact.Forces(ps, out)
}

// treeable reports whether a quadtree can be built over ps: coordinates
// must be finite and pairwise distinct.
func treeable(ps []dynamo.Particle) bool {
	if len(ps) < 2 {
		return false
	}
	seen := make(map[r2.Vec]struct{}, len(ps))
	for i := range ps {
		p := ps[i].Position
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
		if _, dup := seen[p]; dup {
			return false
		}
		seen[p] = struct{}{}
	}
	return true
}
