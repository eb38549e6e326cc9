// Package loop drives a simulation at a fixed tick rate, decoupled from the
// rate at which frames are displayed.
//
// A [Loop] is given an update callback, a render callback and a [Scheduler]
// that stands in for the host's per-frame callback primitive. Every frame the
// loop converts the elapsed wall-clock time into a whole number of fixed
// ticks, runs update once per tick and then renders once:
//
//	sched := loop.NewManualScheduler(0)
//	l, _ := loop.New(sched, loop.DefaultConfig(), update, render)
//	l.Start()
//	sched.Advance(time.Second / 60)
//
// # Backpressure
//
// At most Config.Max ticks run per frame. A gap longer than Config.Panic ticks
// (a backgrounded window, a debugger pause) is dropped instead of replayed:
// the loop resets its clock and runs a single tick.
//
// # Thread Safety
//
// A Loop is driven from exactly one goroutine, the one its scheduler delivers
// frames on. Stop and IsPlaying may be called from anywhere.
package loop
