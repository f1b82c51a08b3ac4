package physics_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlespace/internal/dynamo"
	"github.com/san-kum/particlespace/internal/integrators"
	"github.com/san-kum/particlespace/internal/physics"
)

func generate(seed int64, spec dynamo.GenerateSpec) []dynamo.Particle {
	ps, err := dynamo.Generate(rand.New(rand.NewSource(seed)), spec)
	Expect(err).NotTo(HaveOccurred())
	return ps
}

var _ = Describe("Gravity", func() {
	spec := dynamo.GenerateSpec{
		Count:       40,
		MinMass:     0.5,
		MaxMass:     1.5,
		MaxVelocity: 0.02,
		Bounds:      dynamo.Rect(50, 50),
	}

	DescribeTable("conserves momentum in an open arena",
		func(integ integrators.Integrator, solver physics.Solver) {
			ps := generate(7, spec)
			g := physics.NewGravity(solver, integ, physics.Open{}, spec.Bounds, 1)
			before := physics.Momentum(ps)

			for i := 0; i < 50; i++ {
				g.Step(ps)
			}

			Expect(r2.Norm(r2.Sub(physics.Momentum(ps), before))).To(BeNumerically("<", 1e-9))
		},
		Entry("euler", integrators.NewEuler(), physics.NewExactSolver(1, physics.DefaultMinDistance)),
		Entry("leapfrog", integrators.NewLeapfrog(), physics.NewExactSolver(1, physics.DefaultMinDistance)),
	)

	It("keeps energy drift small on a circular orbit with leapfrog", func() {
		// Two unit masses 2 apart orbit their centre at v = sqrt(G/4).
		orbital := math.Sqrt(0.001 / 4)
		ps := []dynamo.Particle{}
		for i, x := range []float64{-1, 1} {
			p, err := dynamo.NewParticle(uint32(i), 1, 0, r2.Vec{X: x}, r2.Vec{Y: x * orbital})
			Expect(err).NotTo(HaveOccurred())
			ps = append(ps, p)
		}
		g := physics.NewGravity(physics.NewExactSolver(0.001, 0.01), integrators.NewLeapfrog(), physics.Open{}, dynamo.Symmetric(10), 1)
		e0 := physics.TotalEnergy(ps, 0.001, 0.01)

		for i := 0; i < 2000; i++ {
			g.Step(ps)
		}

		Expect(physics.TotalEnergy(ps, 0.001, 0.01)).To(BeNumerically("~", e0, 0.05*math.Abs(e0)))
	})

	It("wraps every particle back into the arena", func() {
		ps := generate(3, spec)
		g := physics.NewGravity(physics.NewExactSolver(1, 0.5), integrators.NewEuler(), physics.Wrap{}, spec.Bounds, 0.5)

		for i := 0; i < 100; i++ {
			g.Step(ps)
			for _, p := range ps {
				Expect(p.Position.X).To(And(BeNumerically(">=", 0), BeNumerically("<", 50)))
				Expect(p.Position.Y).To(And(BeNumerically(">=", 0), BeNumerically("<", 50)))
			}
		}
	})
})

var _ = Describe("Collision", func() {
	spec := dynamo.GenerateSpec{
		Count:       30,
		MinMass:     0.25,
		MaxMass:     1,
		MaxVelocity: 0.015,
		Radius:      0.05,
		Bounds:      dynamo.Symmetric(1),
		NoOverlap:   true,
	}

	It("keeps every circle inside the walls", func() {
		ps := generate(1, spec)
		c := physics.NewCollision(physics.NewElastic(), physics.Reflect{}, spec.Bounds)

		for i := 0; i < 1000; i++ {
			c.Step(ps)
			for _, p := range ps {
				r := p.Radius()
				Expect(p.Position.X-r).To(BeNumerically(">=", -1-1e-12))
				Expect(p.Position.X+r).To(BeNumerically("<=", 1+1e-12))
				Expect(p.Position.Y-r).To(BeNumerically(">=", -1-1e-12))
				Expect(p.Position.Y+r).To(BeNumerically("<=", 1+1e-12))
			}
		}
	})

	It("conserves kinetic energy", func() {
		ps := generate(2, spec)
		c := physics.NewCollision(physics.NewElastic(), physics.Reflect{}, spec.Bounds)
		e0 := physics.KineticEnergy(ps)

		for i := 0; i < 1000; i++ {
			c.Step(ps)
		}

		Expect(physics.KineticEnergy(ps)).To(BeNumerically("~", e0, 1e-9))
	})

	It("starts with no overlapping pairs", func() {
		ps := generate(4, spec)
		Expect(physics.Detect(ps)).To(BeEmpty())
	})
})
