// Package dynamo provides the core primitives of the particle space.
//
// The package defines the data model shared by every simulation mode and
// the composition root that drives it:
//
//   - [Particle]: a point mass with radius, position and velocity
//   - [Bounds]: the axis-aligned arena particles are confined to
//   - [Strategy]: a physics mode advancing a particle population one tick
//   - [Simulation]: owns the particles and one strategy, exposes Step
//   - [Generate]: seeded particle factory with bounded non-overlap placement
//
// # Example
//
//	rng := rand.New(rand.NewSource(42))
//	ps, err := dynamo.Generate(rng, spec)
//	if err != nil {
//	    return err
//	}
//	sim, err := dynamo.New(ps, physics.NewCollision(physics.NewElastic(), physics.Reflect{}, spec.Bounds))
//	if err != nil {
//	    return err
//	}
//	for {
//	    sim.Step()
//	    draw(sim.Particles())
//	}
//
// # Thread Safety
//
// Simulation instances are NOT thread-safe. Step runs to completion on the
// caller's goroutine. For parallel runs over several seeds use [Ensemble],
// which gives every run its own Simulation.
package dynamo
