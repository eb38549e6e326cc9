package dynamo

import (
	"time"

	"github.com/san-kum/swingsim/internal/loop"
)

// System is a simulation the fixed-timestep loop advances one tick at a time.
type System interface {
	Step(tick loop.TickInfo)
	Particles() []*Particle
	Reset()
}

// Strained systems report per-link constraint error.
type Strained interface {
	LinkErrors() []float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Reporter systems add their own counters to a run's metrics.
type Reporter interface {
	Report() map[string]float64
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// Frame is what a render sees: positions and link errors at one instant.
type Frame struct {
	Index      int
	Time       time.Duration
	Positions  []Vec2
	LinkErrors []float64
}

// Capture snapshots sys.
func Capture(sys System, index int, t time.Duration) Frame {
	f := Frame{
		Index:     index,
		Time:      t,
		Positions: Positions(sys.Particles()),
	}
	if s, ok := sys.(Strained); ok {
		f.LinkErrors = s.LinkErrors()
	}
	return f
}

func (f Frame) MaxLinkError() float64 {
	max := 0.0
	for _, e := range f.LinkErrors {
		if e > max {
			max = e
		}
	}
	return max
}

func (f Frame) IsValid() bool {
	for _, p := range f.Positions {
		if !p.IsValid() {
			return false
		}
	}
	return true
}

type Result struct {
	Frames  []Frame
	Metrics map[string]float64
	Stats   loop.Stats
	Errors  []error
}

// Final is the last rendered frame, or the zero Frame.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}
