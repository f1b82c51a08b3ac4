package integrators

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlespace/internal/dynamo"
)

func benchParticles(b *testing.B, n int) []dynamo.Particle {
	ps := make([]dynamo.Particle, n)
	for i := range ps {
		ps[i] = mustParticle(b, uint32(i), 1, r2.Vec{X: float64(i) * 0.1}, r2.Vec{Y: 0.01})
	}
	return ps
}

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	ps := benchParticles(b, 64)
	f := spring(0.001)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Integrate(ps, f, 1)
	}
}

func BenchmarkLeapfrog(b *testing.B) {
	integrator := NewLeapfrog()
	ps := benchParticles(b, 64)
	f := spring(0.001)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integrator.Integrate(ps, f, 1)
	}
}
