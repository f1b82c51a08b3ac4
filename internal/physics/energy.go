package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlespace/internal/dynamo"
)

// KineticEnergy returns Σ ½ m v².
func KineticEnergy(ps []dynamo.Particle) float64 {
	var e float64
	for i := range ps {
		e += 0.5 * ps[i].Mass() * r2.Norm2(ps[i].Velocity)
	}
	return e
}

// PotentialEnergy returns Σ -G m₁m₂/r over unordered pairs, using the
// same distance cap as the force. Coincident pairs contribute nothing.
func PotentialEnergy(ps []dynamo.Particle, G, minDist float64) float64 {
	var e float64
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			r := r2.Norm(r2.Sub(ps[i].Position, ps[j].Position))
			if r == 0 {
				continue
			}
			e -= G * ps[i].Mass() * ps[j].Mass() / math.Max(r, minDist)
		}
	}
	return e
}

func TotalEnergy(ps []dynamo.Particle, G, minDist float64) float64 {
	return KineticEnergy(ps) + PotentialEnergy(ps, G, minDist)
}

// Momentum returns Σ m v.
func Momentum(ps []dynamo.Particle) r2.Vec {
	var p r2.Vec
	for i := range ps {
		p = r2.Add(p, ps[i].Momentum())
	}
	return p
}

// AngularMomentum returns the z component of Σ x × m v about the origin.
func AngularMomentum(ps []dynamo.Particle) float64 {
	var l float64
	for i := range ps {
		x, mv := ps[i].Position, ps[i].Momentum()
		l += x.X*mv.Y - x.Y*mv.X
	}
	return l
}

// CenterOfMass returns the mass-weighted mean position, or the origin for
// an empty slice.
func CenterOfMass(ps []dynamo.Particle) r2.Vec {
	var sum r2.Vec
	var m float64
	for i := range ps {
		sum = r2.Add(sum, r2.Scale(ps[i].Mass(), ps[i].Position))
		m += ps[i].Mass()
	}
	if m == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/m, sum)
}
