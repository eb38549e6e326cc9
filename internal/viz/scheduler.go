package viz

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/swingsim/internal/loop"
)

// FrameMsg is the program's display refresh.
type FrameMsg time.Time

// TeaScheduler adapts the Bubble Tea event loop to loop.Scheduler. Frame
// requests are held until the next FrameMsg reaches Update, so the
// simulation runs on the program's goroutine like every other update.
type TeaScheduler struct {
	interval time.Duration
	origin   time.Time
	next     loop.Handle
	pending  []loop.FrameFunc
	now      func() time.Time
}

func NewTeaScheduler(fps int) *TeaScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TeaScheduler{
		interval: time.Second / time.Duration(fps),
		origin:   time.Now(),
		now:      time.Now,
	}
}

func (s *TeaScheduler) Now() time.Duration { return s.now().Sub(s.origin) }

func (s *TeaScheduler) RequestFrame(fn loop.FrameFunc) loop.Handle {
	s.next++
	s.pending = append(s.pending, fn)
	return s.next
}

// Fire runs the callbacks requested before t.
func (s *TeaScheduler) Fire(t time.Time) int {
	due := s.pending
	s.pending = nil
	now := t.Sub(s.origin)
	for _, fn := range due {
		fn(now)
	}
	return len(due)
}

func (s *TeaScheduler) Pending() int { return len(s.pending) }

// Tick asks the program for the next display frame.
func (s *TeaScheduler) Tick() tea.Cmd {
	return tea.Tick(s.interval, func(t time.Time) tea.Msg { return FrameMsg(t) })
}
