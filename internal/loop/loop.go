package loop

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// TickInfo describes one fixed step. Now and Prev are synthetic timestamps
// that advance by Delta between consecutive ticks of a frame.
type TickInfo struct {
	Now   time.Duration
	Prev  time.Duration
	Delta time.Duration
}

type UpdateFunc func(TickInfo)

type RenderFunc func()

// Stats counts what the loop has done since it was created.
type Stats struct {
	Frames  uint64 // frame callbacks handled while playing
	Renders uint64
	Ticks   uint64
	Stalls  uint64 // frames whose backlog exceeded the panic threshold
	Clamped uint64 // frames limited to Config.Max ticks
}

type Loop struct {
	cfg       Config
	frameRate time.Duration
	sched     Scheduler
	update    UpdateFunc
	render    RenderFunc
	logger    *slog.Logger

	playing atomic.Bool
	// gen invalidates frames requested before the most recent Start.
	gen   atomic.Uint64
	prev  time.Duration
	stats Stats
}

// New creates a stopped loop. update and render may be nil.
func New(sched Scheduler, cfg Config, update UpdateFunc, render RenderFunc) (*Loop, error) {
	if sched == nil {
		return nil, fmt.Errorf("%w: nil scheduler", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Loop{
		cfg:       cfg,
		frameRate: cfg.FrameRate(),
		sched:     sched,
		update:    update,
		render:    render,
		logger:    slog.Default().With("component", "loop"),
	}, nil
}

func (l *Loop) SetLogger(logger *slog.Logger) {
	if logger != nil {
		l.logger = logger
	}
}

func (l *Loop) Config() Config           { return l.cfg }
func (l *Loop) FrameRate() time.Duration { return l.frameRate }
func (l *Loop) IsPlaying() bool          { return l.playing.Load() }

// Stats must be read from the goroutine that drives frames.
func (l *Loop) Stats() Stats { return l.stats }

// Start begins scheduling frames. It does nothing if the loop is already playing.
func (l *Loop) Start() {
	if !l.playing.CompareAndSwap(false, true) {
		return
	}
	gen := l.gen.Add(1)
	l.prev = l.sched.Now()
	l.logger.Debug("loop started", "hertz", l.cfg.Hertz, "at", l.prev)
	l.schedule(gen)
}

// Stop prevents further frames from being scheduled. A frame already in
// progress runs to completion.
func (l *Loop) Stop() {
	if l.playing.CompareAndSwap(true, false) {
		l.logger.Debug("loop stopped")
	}
}

func (l *Loop) schedule(gen uint64) {
	l.sched.RequestFrame(func(now time.Duration) {
		l.frame(gen, now)
	})
}

func (l *Loop) live(gen uint64) bool {
	return l.playing.Load() && l.gen.Load() == gen
}

func (l *Loop) frame(gen uint64, now time.Duration) {
	if !l.live(gen) {
		return
	}
	l.stats.Frames++

	delta := now - l.prev
	ticks := int(delta / l.frameRate)

	if ticks > l.cfg.Panic {
		l.logger.Debug("frame stall, discarding backlog", "ticks", ticks, "delta", delta)
		l.prev = now - l.frameRate
		ticks = 1
		l.stats.Stalls++
	}

	if ticks > l.cfg.Max {
		ticks = l.cfg.Max
		l.stats.Clamped++
	}

	if ticks > 0 {
		for i := 0; i < ticks; i++ {
			if l.update != nil {
				l.update(TickInfo{Now: now, Prev: l.prev, Delta: l.frameRate})
			}
			now += l.frameRate
			l.prev += l.frameRate
			l.stats.Ticks++
		}

		if l.render != nil {
			l.render()
		}
		l.stats.Renders++
	}

	if l.live(gen) {
		l.schedule(gen)
	}
}
