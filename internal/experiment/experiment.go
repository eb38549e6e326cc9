package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/swingsim/internal/config"
	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/loop"
)

// Experiment drives one system through the fixed-timestep loop and records
// every rendered frame.
type Experiment struct {
	cfg       config.Config
	sys       dynamo.System
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	logger    *slog.Logger

	// ValidateState stops the run at the first frame holding NaN or Inf.
	ValidateState bool
}

func New(cfg config.Config, sys dynamo.System) *Experiment {
	return &Experiment{
		cfg:           cfg,
		sys:           sys,
		logger:        slog.Default().With("component", "experiment", "model", cfg.Model),
		ValidateState: true,
	}
}

func (e *Experiment) AddMetric(m dynamo.Metric)     { e.metrics = append(e.metrics, m) }
func (e *Experiment) AddObserver(o dynamo.Observer) { e.observers = append(e.observers, o) }

func (e *Experiment) SetLogger(logger *slog.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

func (e *Experiment) System() dynamo.System { return e.sys }
func (e *Experiment) Config() config.Config { return e.cfg }

// Run renders cfg.Frames frames. Headless runs advance a manual clock by one
// display interval per frame, so results do not depend on the host's speed;
// realtime runs are paced by a FrameScheduler.
func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.sys == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	result := &dynamo.Result{
		Frames:  make([]dynamo.Frame, 0, e.cfg.Frames),
		Metrics: make(map[string]float64),
	}
	for _, m := range e.metrics {
		m.Reset()
	}

	var (
		sched  loop.Scheduler
		manual *loop.ManualScheduler
		paced  *loop.FrameScheduler
	)
	if e.cfg.Realtime {
		paced = loop.NewFrameScheduler(e.cfg.FPS)
		sched = paced
	} else {
		manual = loop.NewManualScheduler(0)
		sched = manual
	}

	var (
		l      *loop.Loop
		runErr error
	)
	render := func() {
		f := dynamo.Capture(e.sys, len(result.Frames), sched.Now())
		if e.ValidateState && !f.IsValid() {
			runErr = &dynamo.SimulationError{Frame: f.Index, Time: f.Time, Wrapped: dynamo.ErrInvalidState}
			result.Errors = append(result.Errors, runErr)
			l.Stop()
			return
		}
		for _, m := range e.metrics {
			m.Observe(f)
		}
		for _, o := range e.observers {
			o.OnFrame(f)
		}
		result.Frames = append(result.Frames, f)
		if len(result.Frames) >= e.cfg.Frames {
			l.Stop()
		}
	}

	l, err := loop.New(sched, e.cfg.LoopConfig(), e.sys.Step, render)
	if err != nil {
		return nil, err
	}
	l.SetLogger(e.logger)

	start := time.Now()
	l.Start()
	if e.cfg.Realtime {
		if err := paced.Run(ctx); err != nil {
			l.Stop()
			runErr = fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
		}
	} else {
		interval := time.Second / time.Duration(e.cfg.FPS)
		for l.IsPlaying() {
			if err := ctx.Err(); err != nil {
				l.Stop()
				runErr = fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
				break
			}
			manual.Advance(interval)
		}
	}

	result.Stats = l.Stats()
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	if r, ok := e.sys.(dynamo.Reporter); ok {
		for k, v := range r.Report() {
			result.Metrics[k] = v
		}
	}

	e.logger.Info("run finished",
		"frames", len(result.Frames),
		"ticks", result.Stats.Ticks,
		"stalls", result.Stats.Stalls,
		"clamped", result.Stats.Clamped,
		"elapsed", time.Since(start),
	)
	return result, runErr
}
