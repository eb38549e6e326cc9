package metrics

import (
	"math"

	"github.com/san-kum/swingsim/internal/dynamo"
)

// Stability is the fraction of frames whose positions are finite and whose
// worst link error stays within threshold. With no frames it is 1.
type Stability struct {
	threshold float64
	frames    int
	within    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(f dynamo.Frame) {
	s.frames++
	if e := f.MaxLinkError(); f.IsValid() && !math.IsNaN(e) && e <= s.threshold {
		s.within++
	}
}

func (s *Stability) Value() float64 {
	if s.frames == 0 {
		return 1
	}
	return float64(s.within) / float64(s.frames)
}

func (s *Stability) Reset() { s.frames, s.within = 0, 0 }
