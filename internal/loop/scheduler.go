package loop

import (
	"context"
	"sync"
	"time"
)

// FrameFunc receives the current timestamp, measured from the scheduler's origin.
type FrameFunc func(now time.Duration)

// Handle identifies a frame request.
type Handle uint64

// Scheduler is the host's one-shot frame primitive: each requested callback
// runs once, at the next displayed frame.
type Scheduler interface {
	Now() time.Duration
	RequestFrame(fn FrameFunc) Handle
}

// ManualScheduler is a fake clock. Frames fire only when Advance is called.
type ManualScheduler struct {
	now     time.Duration
	next    Handle
	pending []FrameFunc
}

func NewManualScheduler(start time.Duration) *ManualScheduler {
	return &ManualScheduler{now: start}
}

func (s *ManualScheduler) Now() time.Duration { return s.now }

func (s *ManualScheduler) RequestFrame(fn FrameFunc) Handle {
	s.next++
	s.pending = append(s.pending, fn)
	return s.next
}

// Pending reports how many callbacks wait for the next frame.
func (s *ManualScheduler) Pending() int { return len(s.pending) }

// Advance moves the clock forward by d, then fires every callback requested
// before the call. Callbacks requested while firing wait for the next Advance.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.now += d
	due := s.pending
	s.pending = nil
	for _, fn := range due {
		fn(s.now)
	}
	return len(due)
}

// FrameScheduler delivers frames in real time at a fixed display rate.
type FrameScheduler struct {
	interval time.Duration
	origin   time.Time

	mu      sync.Mutex
	next    Handle
	pending []FrameFunc
}

func NewFrameScheduler(fps int) *FrameScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &FrameScheduler{
		interval: time.Second / time.Duration(fps),
		origin:   time.Now(),
	}
}

func (s *FrameScheduler) Now() time.Duration { return time.Since(s.origin) }

func (s *FrameScheduler) RequestFrame(fn FrameFunc) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.pending = append(s.pending, fn)
	return s.next
}

func (s *FrameScheduler) take() []FrameFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	due := s.pending
	s.pending = nil
	return due
}

// Run fires pending callbacks once per display interval on the calling
// goroutine. It returns nil once nothing is left to fire, or the context
// error when ctx ends first.
func (s *FrameScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			due := s.take()
			if len(due) == 0 {
				return nil
			}
			now := s.Now()
			for _, fn := range due {
				fn(now)
			}
		}
	}
}
