package metrics

import (
	"math"

	"github.com/san-kum/swingsim/internal/dynamo"
)

// LinkError tracks the worst link error seen across all frames.
type LinkError struct {
	name string
	max  float64
}

func NewLinkError() *LinkError {
	return &LinkError{name: "max_link_error"}
}

func (l *LinkError) Name() string { return l.name }

func (l *LinkError) Observe(f dynamo.Frame) {
	l.max = math.Max(l.max, f.MaxLinkError())
}

func (l *LinkError) Value() float64 { return l.max }

func (l *LinkError) Reset() { l.max = 0 }

// Stretch is the mean of each frame's average link error.
type Stretch struct {
	name    string
	sum     float64
	samples int
}

func NewStretch() *Stretch {
	return &Stretch{name: "mean_stretch"}
}

func (s *Stretch) Name() string { return s.name }

func (s *Stretch) Observe(f dynamo.Frame) {
	if len(f.LinkErrors) == 0 {
		return
	}
	total := 0.0
	for _, e := range f.LinkErrors {
		total += e
	}
	s.sum += total / float64(len(f.LinkErrors))
	s.samples++
}

func (s *Stretch) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Stretch) Reset() {
	s.sum = 0
	s.samples = 0
}

// Residual is the largest link error in the most recent frame.
type Residual struct {
	name string
	last float64
}

func NewResidual() *Residual {
	return &Residual{name: "final_link_error"}
}

func (r *Residual) Name() string { return r.name }

func (r *Residual) Observe(f dynamo.Frame) { r.last = f.MaxLinkError() }

func (r *Residual) Value() float64 { return r.last }

func (r *Residual) Reset() { r.last = 0 }
