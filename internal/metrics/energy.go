package metrics

import (
	"math"

	"github.com/san-kum/swingsim/internal/dynamo"
)

// Motion is the mean distance a particle travelled between the last two
// frames. A settled rope reads close to zero.
type Motion struct {
	name string
	prev []dynamo.Vec2
	last float64
}

func NewMotion() *Motion {
	return &Motion{name: "motion"}
}

func (m *Motion) Name() string { return m.name }

func (m *Motion) Observe(f dynamo.Frame) {
	if len(m.prev) == len(f.Positions) && len(f.Positions) > 0 {
		total := 0.0
		for i, p := range f.Positions {
			total += p.Sub(m.prev[i]).Len()
		}
		m.last = total / float64(len(f.Positions))
	}
	m.prev = append(m.prev[:0], f.Positions...)
}

func (m *Motion) Value() float64 { return m.last }

func (m *Motion) Reset() {
	m.prev = m.prev[:0]
	m.last = 0
}

// Drift is the furthest the first particle has strayed from where it was in
// the first observed frame. For a pinned rope that is the anchor, which
// should never move.
type Drift struct {
	name     string
	origin   dynamo.Vec2
	samples  int
	maxDrift float64
}

func NewDrift() *Drift {
	return &Drift{name: "anchor_drift"}
}

func (d *Drift) Name() string { return d.name }

func (d *Drift) Observe(f dynamo.Frame) {
	if len(f.Positions) == 0 {
		return
	}
	if d.samples == 0 {
		d.origin = f.Positions[0]
	}
	d.samples++
	d.maxDrift = math.Max(d.maxDrift, f.Positions[0].Sub(d.origin).Len())
}

func (d *Drift) Value() float64 { return d.maxDrift }

func (d *Drift) Reset() {
	d.origin = dynamo.Vec2{}
	d.samples = 0
	d.maxDrift = 0
}
