package loop_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/swingsim/internal/loop"
)

var _ = Describe("Config", func() {
	It("defaults to 120 Hz with a 120 tick panic threshold and 3 ticks per frame", func() {
		cfg := loop.DefaultConfig()
		Expect(cfg.Hertz).To(Equal(120))
		Expect(cfg.Panic).To(Equal(120))
		Expect(cfg.Max).To(Equal(3))
		Expect(cfg.FrameRate()).To(Equal(time.Second / 120))
		Expect(cfg.Validate()).To(Succeed())
	})

	DescribeTable("rejects non-positive values",
		func(cfg loop.Config) {
			Expect(errors.Is(cfg.Validate(), loop.ErrInvalidConfig)).To(BeTrue())
		},
		Entry("zero hertz", loop.Config{Hertz: 0, Panic: 120, Max: 3}),
		Entry("negative panic", loop.Config{Hertz: 120, Panic: -1, Max: 3}),
		Entry("zero max", loop.Config{Hertz: 120, Panic: 120, Max: 0}),
	)

	It("refuses a nil scheduler", func() {
		_, err := loop.New(nil, loop.DefaultConfig(), nil, nil)
		Expect(err).To(MatchError(loop.ErrInvalidConfig))
	})
})

var _ = Describe("Loop", func() {
	var (
		sched   *loop.ManualScheduler
		l       *loop.Loop
		ticks   []loop.TickInfo
		events  []string
		renders int
		fr      time.Duration
	)

	BeforeEach(func() {
		sched = loop.NewManualScheduler(0)
		ticks = nil
		events = nil
		renders = 0

		var err error
		l, err = loop.New(sched, loop.DefaultConfig(),
			func(info loop.TickInfo) {
				ticks = append(ticks, info)
				events = append(events, "update")
			},
			func() {
				renders++
				events = append(events, "render")
			},
		)
		Expect(err).NotTo(HaveOccurred())
		fr = l.FrameRate()
	})

	Describe("Start and Stop", func() {
		It("schedules a single frame no matter how often it is started", func() {
			Expect(l.IsPlaying()).To(BeFalse())
			l.Start()
			l.Start()
			Expect(l.IsPlaying()).To(BeTrue())
			Expect(sched.Pending()).To(Equal(1))
		})

		It("stops rescheduling once stopped and tolerates repeated stops", func() {
			l.Start()
			l.Stop()
			l.Stop()
			Expect(l.IsPlaying()).To(BeFalse())

			sched.Advance(fr)
			Expect(ticks).To(BeEmpty())
			Expect(sched.Pending()).To(BeZero())
		})

		It("ignores frames requested before a restart", func() {
			l.Start()
			l.Stop()
			l.Start()
			Expect(sched.Pending()).To(Equal(2))

			sched.Advance(fr)
			Expect(ticks).To(HaveLen(1))
			Expect(sched.Pending()).To(Equal(1))
		})

		It("finishes the frame in progress when stopped from update", func() {
			l, _ = loop.New(sched, loop.DefaultConfig(), func(loop.TickInfo) {
				ticks = append(ticks, loop.TickInfo{})
				l.Stop()
			}, func() { renders++ })
			l.Start()

			sched.Advance(3 * fr)
			Expect(ticks).To(HaveLen(3))
			Expect(renders).To(Equal(1))
			Expect(sched.Pending()).To(BeZero())
		})
	})

	Describe("scheduling", func() {
		BeforeEach(func() { l.Start() })

		It("runs exactly one update per frame when frames are one tick apart", func() {
			for i := 0; i < 120; i++ {
				sched.Advance(fr)
			}
			Expect(ticks).To(HaveLen(120))
			Expect(renders).To(Equal(120))
			Expect(l.Stats().Ticks).To(BeEquivalentTo(120))
		})

		It("renders only after every owed update has run", func() {
			sched.Advance(2 * fr)
			Expect(events).To(Equal([]string{"update", "update", "render"}))
		})

		It("hands each tick consecutive synthetic timestamps", func() {
			sched.Advance(3 * fr)
			Expect(ticks).To(Equal([]loop.TickInfo{
				{Now: 3 * fr, Prev: 0, Delta: fr},
				{Now: 4 * fr, Prev: fr, Delta: fr},
				{Now: 5 * fr, Prev: 2 * fr, Delta: fr},
			}))
		})

		It("skips update and render but keeps rescheduling when no tick is owed", func() {
			sched.Advance(fr / 2)
			Expect(ticks).To(BeEmpty())
			Expect(renders).To(BeZero())
			Expect(sched.Pending()).To(Equal(1))

			sched.Advance(fr)
			Expect(ticks).To(HaveLen(1))
		})

		It("runs nothing for a timestamp earlier than the last one", func() {
			sched = loop.NewManualScheduler(time.Second)
			l, _ = loop.New(sched, loop.DefaultConfig(), func(info loop.TickInfo) {
				ticks = append(ticks, info)
			}, nil)
			l.Start()
			sched.Advance(-fr)
			Expect(ticks).To(BeEmpty())
			Expect(sched.Pending()).To(Equal(1))
		})
	})

	Describe("backpressure", func() {
		BeforeEach(func() { l.Start() })

		It("caps a frame at Max ticks and carries the rest forward", func() {
			sched.Advance(10 * fr)
			Expect(ticks).To(HaveLen(3))
			Expect(renders).To(Equal(1))
			Expect(l.Stats().Clamped).To(BeEquivalentTo(1))

			sched.Advance(0)
			Expect(ticks).To(HaveLen(6))
		})

		It("treats a backlog of exactly Panic ticks as ordinary overload", func() {
			sched.Advance(120 * fr)
			Expect(ticks).To(HaveLen(3))
			Expect(l.Stats().Stalls).To(BeZero())
		})

		It("discards a backlog beyond Panic ticks instead of catching up", func() {
			stall := 500 * fr
			sched.Advance(stall)
			Expect(ticks).To(HaveLen(1))
			Expect(ticks[0]).To(Equal(loop.TickInfo{Now: stall, Prev: stall - fr, Delta: fr}))
			Expect(l.Stats().Stalls).To(BeEquivalentTo(1))

			sched.Advance(fr)
			Expect(ticks).To(HaveLen(2))
		})
	})

	It("tolerates missing callbacks", func() {
		bare, err := loop.New(sched, loop.DefaultConfig(), nil, nil)
		Expect(err).NotTo(HaveOccurred())
		bare.Start()
		sched.Advance(2 * fr)
		Expect(bare.Stats().Ticks).To(BeEquivalentTo(2))
		Expect(bare.Stats().Renders).To(BeEquivalentTo(1))
	})
})

var _ = Describe("FrameScheduler", func() {
	It("returns once the loop stops requesting frames", func() {
		sched := loop.NewFrameScheduler(240)
		var l *loop.Loop
		updates := 0
		l, err := loop.New(sched, loop.DefaultConfig(), func(loop.TickInfo) {
			updates++
			if updates >= 5 {
				l.Stop()
			}
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		l.Start()
		Expect(sched.Run(ctx)).To(Succeed())
		Expect(updates).To(BeNumerically(">=", 5))
	})

	It("stops with the context error", func() {
		sched := loop.NewFrameScheduler(60)
		l, _ := loop.New(sched, loop.DefaultConfig(), nil, nil)
		l.Start()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		Expect(sched.Run(ctx)).To(MatchError(context.DeadlineExceeded))
	})
})
