package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlespace/internal/dynamo"
)

// Euler is the semi-implicit (symplectic) Euler scheme: all forces are
// evaluated on the pre-step positions, then v += F/m·scale and p += v.
type Euler struct {
	forces []r2.Vec
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Integrate(ps []dynamo.Particle, forces ForceFunc, scale float64) {
	e.forces = ensure(e.forces, len(ps))
	forces(ps, e.forces)

	for i := range ps {
		p := &ps[i]
		accel := r2.Scale(1/p.Mass(), e.forces[i])
		p.Velocity = r2.Add(p.Velocity, r2.Scale(scale, accel))
		p.Position = r2.Add(p.Position, p.Velocity)
	}
}
