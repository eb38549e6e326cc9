// Package dynamo provides the core primitives of the rope simulation.
//
// The package defines point masses and the distance constraints that bind
// them:
//
//   - [Vec2]: 2D vector value type
//   - [Particle]: a point mass, either Dynamic or Anchored
//   - [Constraint]: target length, relaxation strength and error shaping
//   - [Constrain]: a single relaxation pass between two particles
//   - [Rope]: an ordered chain of particles relaxed several passes per tick
//   - [System]: anything the fixed-timestep loop can advance
//
// Velocity is implicit: a particle keeps its current and previous position
// and [ApplyMovement] carries the difference forward (Verlet integration).
//
// # Example
//
//	ps := dynamo.LayRope(dynamo.Vec2{}, dynamo.Vec2{Y: 10}, 5, 1, true)
//	rope, _ := dynamo.NewRope(ps, dynamo.Constraint{Length: 10}, 3)
//	rope.Step(dynamo.Vec2{Y: 0.2}, rope.Free())
//
// # Thread Safety
//
// Particles are mutated in place and carry no locks. Each simulation belongs
// to one goroutine; use [Ensemble] to run independent simulations in parallel.
package dynamo
