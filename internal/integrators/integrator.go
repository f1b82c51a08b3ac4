// Package integrators advances force-driven particle populations by one tick.
package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlespace/internal/dynamo"
)

// ForceFunc writes the force on every particle of ps into out. len(out)
// equals len(ps). Implementations must read ps only.
type ForceFunc func(ps []dynamo.Particle, out []r2.Vec)

// Integrator updates velocities from forces, then positions from
// velocities. scale multiplies the velocity change of a tick.
type Integrator interface {
	Name() string
	Integrate(ps []dynamo.Particle, forces ForceFunc, scale float64)
}

func ensure(buf []r2.Vec, n int) []r2.Vec {
	if cap(buf) < n {
		return make([]r2.Vec, n)
	}
	return buf[:n]
}
