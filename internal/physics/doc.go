// Package physics provides the particle space strategies.
//
// Two modes implement [dynamo.Strategy]:
//
//   - [Gravity]: pairwise Newtonian attraction, integrated by an
//     [integrators.Integrator], followed by a [Boundary] policy
//   - [Collision]: ballistic motion, wall reflection and pairwise
//     circle-overlap resolution
//
// Force evaluation is pluggable through [Solver]: [ExactSolver] sums every
// pair, [BarnesHutSolver] approximates distant clusters with a quadtree.
//
// # Diagnostics
//
// [KineticEnergy], [PotentialEnergy], [Momentum] and [AngularMomentum] are
// pure queries over a particle slice and never feed back into a step:
//
//	before := physics.Momentum(sim.Particles())
//	sim.Step()
//	drift := r2.Norm(r2.Sub(physics.Momentum(sim.Particles()), before))
package physics
