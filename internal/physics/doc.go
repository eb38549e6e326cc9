// Package physics provides the rope systems the loop can drive headlessly.
//
// [Strand] is a pinned rope left to hang under gravity. It implements
// [dynamo.System], [dynamo.Strained] and [dynamo.Configurable]:
//
//	s := physics.NewStrand()
//	_ = s.SetParam("iterations", 8)
//	s.Step(loop.TickInfo{})
//	worst := s.Rope().MaxLinkError()
package physics
