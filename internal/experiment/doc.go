// Package experiment builds rope systems from a run configuration and drives
// them through the fixed-timestep loop, collecting frames, metrics and loop
// statistics into a [dynamo.Result].
package experiment
