// Package swing is the rope swing game: a player hangs from a fixed anchor,
// pumps while holding on and lets go to land on a distant platform.
//
// The game is a [dynamo.System] advanced one tick at a time by the loop. All
// timing is counted in ticks; a landing schedules the next round Config.Hertz
// ticks later.
package swing
