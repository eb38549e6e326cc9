// Package viz is the terminal view of a running simulation, built on Bubble
// Tea.
//
// [Model] owns a [loop.Loop] whose frames are delivered by a [TeaScheduler]:
// every display refresh becomes a [FrameMsg], and the loop decides how many
// fixed ticks that refresh is worth. Rendered frames are drawn on a braille
// [Canvas] through a [Viewport], next to a link-error chart.
//
// # Key Bindings
//
//	Space - Grab or let go (swing)
//	P     - Pause/Resume the loop
//	R     - Reset state and parameters
//	Tab   - Select parameter, Up/Down to tune
//	T     - Cycle color themes
//	?     - Show help
package viz
