package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/loop"
)

// Strand is a rope of Count particles pinned at the first one and left to
// hang. It starts laid out at Spacing, which may differ from the rest Length,
// so a fresh strand is stretched (or slack) and settles over the first ticks.
type Strand struct {
	Count      int
	Spacing    float64
	Length     float64
	Mass       float64
	Gravity    float64
	Iterations int
	Strength   float64
	// Angle of the initial layout in degrees, 0 hanging straight down and 90
	// pointing right.
	Angle float64
	// LoadEnd applies gravity to the free end only.
	LoadEnd bool

	rope *dynamo.Rope
}

func NewStrand() *Strand {
	s := &Strand{
		Count:      5,
		Spacing:    15,
		Length:     10,
		Mass:       1,
		Gravity:    0.2,
		Iterations: 3,
		Strength:   1,
		LoadEnd:    true,
	}
	s.Reset()
	return s
}

// Reset lays the rope out again from the current parameters. The previous
// rope is kept when the parameters cannot form one.
func (s *Strand) Reset() {
	if r, err := s.layout(); err == nil {
		s.rope = r
	}
}

func (s *Strand) layout() (*dynamo.Rope, error) {
	if !(s.Spacing > 0) {
		return nil, fmt.Errorf("%w: spacing must be positive, got %v", dynamo.ErrParameterBounds, s.Spacing)
	}
	a := s.Angle * math.Pi / 180
	step := dynamo.Vec2{X: math.Sin(a), Y: math.Cos(a)}.Scale(s.Spacing)
	ps := dynamo.LayRope(dynamo.Vec2{}, step, s.Count, s.Mass, true)
	return dynamo.NewRope(ps, dynamo.Constraint{Length: s.Length, Strength: s.Strength}, s.Iterations)
}

// relayout applies a layout parameter and rebuilds the rope, restoring the
// old value when the rope cannot be built.
func (s *Strand) relayout(field *float64, value float64) error {
	old := *field
	*field = value
	r, err := s.layout()
	if err != nil {
		*field = old
		return err
	}
	s.rope = r
	return nil
}

func (s *Strand) Step(loop.TickInfo) {
	g := dynamo.Vec2{Y: s.Gravity}
	if s.LoadEnd {
		s.rope.Step(g, s.rope.Free())
		return
	}
	s.rope.Step(g)
}

func (s *Strand) Particles() []*dynamo.Particle { return s.rope.Particles }

func (s *Strand) Rope() *dynamo.Rope { return s.rope }

func (s *Strand) LinkErrors() []float64 { return s.rope.LinkErrors() }

func (s *Strand) GetParams() map[string]float64 {
	loadEnd := 0.0
	if s.LoadEnd {
		loadEnd = 1
	}
	return map[string]float64{
		"particles":  float64(s.Count),
		"spacing":    s.Spacing,
		"length":     s.Length,
		"mass":       s.Mass,
		"gravity":    s.Gravity,
		"iterations": float64(s.Iterations),
		"strength":   s.Strength,
		"angle":      s.Angle,
		"load_end":   loadEnd,
	}
}

// SetParam updates one parameter. Gravity, iterations, strength and length
// take effect on the next tick; the layout parameters rebuild the rope.
func (s *Strand) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		s.Gravity = value
	case "iterations":
		n := int(value)
		if n < 1 || n > dynamo.MaxIterations {
			return fmt.Errorf("%w: iterations must be in [1, %d], got %v", dynamo.ErrParameterBounds, dynamo.MaxIterations, value)
		}
		s.Iterations = n
		s.rope.Iterations = n
	case "strength":
		if value <= 0 || value > 1 {
			return fmt.Errorf("%w: strength must be in (0, 1], got %v", dynamo.ErrParameterBounds, value)
		}
		s.Strength = value
		s.rope.Link.Strength = value
	case "length":
		if value < 0 {
			return fmt.Errorf("%w: negative length %v", dynamo.ErrParameterBounds, value)
		}
		s.Length = value
		s.rope.Link.Length = value
	case "particles":
		if int(value) < 2 {
			return fmt.Errorf("%w: a strand needs at least 2 particles, got %v", dynamo.ErrParameterBounds, value)
		}
		s.Count = int(value)
		s.Reset()
	case "spacing":
		return s.relayout(&s.Spacing, value)
	case "mass":
		if value <= 0 {
			return fmt.Errorf("%w: mass must be positive, got %v", dynamo.ErrParameterBounds, value)
		}
		return s.relayout(&s.Mass, value)
	case "angle":
		return s.relayout(&s.Angle, value)
	case "load_end":
		s.LoadEnd = value != 0
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}

// Bounds is a box the strand cannot leave: every particle stays within its
// full reach of the pin.
func (s *Strand) Bounds() (dynamo.Vec2, dynamo.Vec2) {
	reach := math.Max(s.Spacing, s.Length) * float64(s.Count-1)
	if reach <= 0 {
		reach = 1
	}
	return dynamo.Vec2{X: -reach, Y: -reach}, dynamo.Vec2{X: reach, Y: reach}
}
