package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlespace/internal/dynamo"
)

// Leapfrog is kick-drift-kick: half a velocity update from the pre-step
// forces, a full drift, then half a velocity update from forces at the
// drifted positions.
type Leapfrog struct {
	forces []r2.Vec
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Integrate(ps []dynamo.Particle, forces ForceFunc, scale float64) {
	l.forces = ensure(l.forces, len(ps))
	half := scale * 0.5

	forces(ps, l.forces)
	for i := range ps {
		p := &ps[i]
		p.Velocity = r2.Add(p.Velocity, r2.Scale(half/p.Mass(), l.forces[i]))
		p.Position = r2.Add(p.Position, p.Velocity)
	}

	forces(ps, l.forces)
	for i := range ps {
		p := &ps[i]
		p.Velocity = r2.Add(p.Velocity, r2.Scale(half/p.Mass(), l.forces[i]))
	}
}
