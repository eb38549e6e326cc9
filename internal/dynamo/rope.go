package dynamo

import (
	"fmt"
	"math"
)

// MaxIterations bounds the relaxation passes a rope runs per tick.
const MaxIterations = 64

// Rope is an ordered chain of particles, each adjacent pair held at
// Link.Length. It does not own its particles.
type Rope struct {
	Particles  []*Particle
	Link       Constraint
	Iterations int
}

func NewRope(ps []*Particle, link Constraint, iterations int) (*Rope, error) {
	if len(ps) < 2 {
		return nil, fmt.Errorf("%w: rope needs at least 2 particles, got %d", ErrParameterBounds, len(ps))
	}
	if iterations < 1 || iterations > MaxIterations {
		return nil, fmt.Errorf("%w: iterations must be in [1, %d], got %d", ErrParameterBounds, MaxIterations, iterations)
	}
	if link.Length < 0 {
		return nil, fmt.Errorf("%w: negative link length %f", ErrParameterBounds, link.Length)
	}
	return &Rope{Particles: ps, Link: link, Iterations: iterations}, nil
}

// LayRope places n particles at start, start+step, start+2*step and so on.
// When pinned the first particle is an anchor.
func LayRope(start, step Vec2, n int, mass float64, pinned bool) []*Particle {
	ps := make([]*Particle, n)
	for i := range ps {
		pos := start.Add(step.Scale(float64(i)))
		if i == 0 && pinned {
			ps[i] = NewAnchor(pos)
		} else {
			ps[i] = NewParticle(pos, mass)
		}
	}
	return ps
}

// RestLength measures the first link as laid out, for ropes whose rest length
// is their initial spacing.
func RestLength(ps []*Particle) float64 {
	if len(ps) < 2 {
		return 0
	}
	return Distance(ps[0], ps[1])
}

// Relax runs Iterations passes over the chain, alternating direction so a
// correction reaches both ends within a tick.
func (r *Rope) Relax() {
	for i := 0; i < r.Iterations; i++ {
		if i%2 == 0 {
			ConstrainSeries(r.Particles, r.Link)
		} else {
			ConstrainSeriesReverse(r.Particles, r.Link)
		}
	}
}

// Step advances the rope one tick: movement for every particle, gravity for
// the loaded ones (all of them when none are given), then relaxation.
func (r *Rope) Step(gravity Vec2, loaded ...*Particle) {
	ApplyMovement(r.Particles...)
	if len(loaded) == 0 {
		loaded = r.Particles
	}
	ApplyGravity(gravity, loaded...)
	r.Relax()
}

// Free is the unpinned end.
func (r *Rope) Free() *Particle {
	return r.Particles[len(r.Particles)-1]
}

// LinkErrors reports the absolute shaped error of each link.
func (r *Rope) LinkErrors() []float64 {
	errs := make([]float64, len(r.Particles)-1)
	for i := range errs {
		errs[i] = math.Abs(r.Link.Error(r.Particles[i], r.Particles[i+1]))
	}
	return errs
}

func (r *Rope) MaxLinkError() float64 {
	max := 0.0
	for _, e := range r.LinkErrors() {
		if e > max {
			max = e
		}
	}
	return max
}

// Length is the summed centre-to-centre length of all links.
func (r *Rope) Length() float64 {
	total := 0.0
	for i := 0; i+1 < len(r.Particles); i++ {
		total += r.Particles[i].Pos.Sub(r.Particles[i+1].Pos).Len()
	}
	return total
}
