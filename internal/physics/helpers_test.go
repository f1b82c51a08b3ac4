package physics

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlespace/internal/dynamo"
)

func particle(t testing.TB, id uint32, mass, radius float64, pos, vel r2.Vec) dynamo.Particle {
	t.Helper()
	p, err := dynamo.NewParticle(id, mass, radius, pos, vel)
	if err != nil {
		t.Fatalf("NewParticle: %v", err)
	}
	return p
}

func vec(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }

func near(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func nearVec(a, b r2.Vec, tol float64) bool {
	return r2.Norm(r2.Sub(a, b)) <= tol
}
