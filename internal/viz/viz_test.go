package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/loop"
	"github.com/san-kum/swingsim/internal/physics"
	"github.com/san-kum/swingsim/internal/random"
	"github.com/san-kum/swingsim/internal/swing"
)

var (
	_ tea.Model      = (*Model)(nil)
	_ loop.Scheduler = (*TeaScheduler)(nil)
	_ Bounded        = (*physics.Strand)(nil)
	_ Bounded        = (*swing.Game)(nil)
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	if w, h := c.Dots(); w != 4 || h != 4 {
		t.Fatalf("Dots() = %d, %d, want 4, 4", w, h)
	}

	c.Set(0, 0)
	c.Set(1, 3)
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)

	if got := c.Grid[0][0]; got != brailleBlank|0x01|0x80 {
		t.Errorf("cell 0 = %#x, want %#x", got, brailleBlank|0x81)
	}
	if got := c.Grid[0][1]; got != brailleBlank {
		t.Errorf("cell 1 = %#x, want blank", got)
	}
	if !c.IsSet(1, 3) || c.IsSet(1, 0) || c.IsSet(9, 9) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("Clear left a dot lit")
	}
	if got := c.String(); got != string([]rune{brailleBlank, brailleBlank})+"\n" {
		t.Errorf("String() = %q", got)
	}
}

func TestCanvasDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           [][2]int
	}{
		{"horizontal", 0, 0, 3, 0, [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"vertical", 1, 3, 1, 0, [][2]int{{1, 0}, {1, 1}, {1, 2}, {1, 3}}},
		{"diagonal", 0, 0, 3, 3, [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"point", 2, 2, 2, 2, [][2]int{{2, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(2, 1)
			c.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1)
			lit := 0
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					if c.IsSet(x, y) {
						lit++
					}
				}
			}
			if lit != len(tt.want) {
				t.Errorf("%d dots lit, want %d", lit, len(tt.want))
			}
			for _, p := range tt.want {
				if !c.IsSet(p[0], p[1]) {
					t.Errorf("dot %v not lit", p)
				}
			}
		})
	}
}

func TestViewportFit(t *testing.T) {
	v := NewViewport(dynamo.Vec2{}, dynamo.Vec2{X: 10, Y: 10})
	v.Fit(21, 11)

	if v.Scale() != 1 {
		t.Fatalf("Scale() = %v, want 1", v.Scale())
	}
	tests := []struct {
		p    dynamo.Vec2
		x, y int
	}{
		{dynamo.Vec2{}, 5, 0},
		{dynamo.Vec2{X: 10, Y: 10}, 15, 10},
		{dynamo.Vec2{X: 5, Y: 5}, 10, 5},
	}
	for _, tt := range tests {
		if x, y := v.Project(tt.p); x != tt.x || y != tt.y {
			t.Errorf("Project(%v) = %d, %d, want %d, %d", tt.p, x, y, tt.x, tt.y)
		}
	}
}

func TestViewportDegenerate(t *testing.T) {
	v := NewViewport(dynamo.Vec2{X: 3, Y: 3}, dynamo.Vec2{X: 3, Y: 3})
	v.Fit(11, 11)
	if x, y := v.Project(dynamo.Vec2{X: 3, Y: 3}); x != 0 || y != 0 {
		t.Errorf("Project = %d, %d, want 0, 0", x, y)
	}
}

func TestTeaScheduler(t *testing.T) {
	s := NewTeaScheduler(60)
	if s.interval != time.Second/60 {
		t.Errorf("interval = %v", s.interval)
	}

	var got []time.Duration
	h1 := s.RequestFrame(func(now time.Duration) { got = append(got, now) })
	h2 := s.RequestFrame(func(now time.Duration) { got = append(got, now) })
	if h1 == h2 {
		t.Error("handles should differ")
	}
	if s.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", s.Pending())
	}

	if n := s.Fire(s.origin.Add(25 * time.Millisecond)); n != 2 {
		t.Errorf("Fire ran %d callbacks, want 2", n)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after Fire", s.Pending())
	}
	for _, now := range got {
		if now != 25*time.Millisecond {
			t.Errorf("callback saw %v, want 25ms", now)
		}
	}
	if s.Fire(s.origin) != 0 {
		t.Error("Fire with nothing pending should run nothing")
	}
}

func TestTeaSchedulerDefaultFPS(t *testing.T) {
	if s := NewTeaScheduler(0); s.interval != time.Second/60 {
		t.Errorf("interval = %v", s.interval)
	}
}

// newTestModel builds a model whose scheduler clock is frozen at its origin.
func newTestModel(t *testing.T, sys dynamo.System) *Model {
	t.Helper()
	m, err := NewModel("test", sys, loop.Config{Hertz: 120, Panic: 120, Max: 3}, 60)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	origin := m.sched.origin
	m.sched.now = func() time.Time { return origin }
	return m
}

func frameAt(m *Model, d time.Duration) tea.Cmd {
	_, cmd := m.Update(FrameMsg(m.sched.origin.Add(d)))
	return cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelFrame(t *testing.T) {
	m := newTestModel(t, physics.NewStrand())
	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init should request a display frame")
	}
	if !m.Loop().IsPlaying() {
		t.Fatal("Init should start the loop")
	}

	if cmd := frameAt(m, 50*time.Millisecond); cmd == nil {
		t.Error("FrameMsg should request the next display frame")
	}

	stats := m.Loop().Stats()
	if stats.Ticks != 3 || stats.Clamped != 1 || stats.Renders != 1 {
		t.Errorf("stats = %+v, want 3 ticks clamped once, 1 render", stats)
	}
	if m.frames != 1 || m.frame.Index != 1 {
		t.Errorf("frames = %d, index = %d, want 1", m.frames, m.frame.Index)
	}
	if len(m.errHistory) != 1 || len(m.trail) != 1 {
		t.Errorf("history %d, trail %d, want 1 each", len(m.errHistory), len(m.trail))
	}
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t, physics.NewStrand())
	m.Init()

	m.Update(key("p"))
	if m.Loop().IsPlaying() {
		t.Fatal("p should pause")
	}
	frameAt(m, 50*time.Millisecond)
	if ticks := m.Loop().Stats().Ticks; ticks != 0 {
		t.Errorf("paused loop ran %d ticks", ticks)
	}

	m.Update(key("p"))
	if !m.Loop().IsPlaying() {
		t.Fatal("p should resume")
	}
	frameAt(m, 20*time.Millisecond)
	if ticks := m.Loop().Stats().Ticks; ticks != 2 {
		t.Errorf("resumed loop ran %d ticks, want 2", ticks)
	}
}

func TestModelQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		m := newTestModel(t, physics.NewStrand())
		m.Init()
		_, cmd := m.Update(key(k))
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command did not quit", k)
		}
		if m.Loop().IsPlaying() {
			t.Errorf("%s: loop still playing", k)
		}
	}
}

func TestModelGrab(t *testing.T) {
	g := swing.New(swing.DefaultConfig(), random.New(42, 0))
	m := newTestModel(t, g)

	m.Update(key(" "))
	if g.Phase() != swing.Grabbing {
		t.Fatalf("phase = %v after space, want grabbing", g.Phase())
	}
	m.Update(key(" "))
	if g.Phase() != swing.Swinging {
		t.Errorf("phase = %v after second space, want swinging", g.Phase())
	}

	// strands ignore the key
	s := newTestModel(t, physics.NewStrand())
	s.Update(key(" "))
}

func TestModelTuneAndReset(t *testing.T) {
	strand := physics.NewStrand()
	m := newTestModel(t, strand)

	if m.paramKeys[0] != "angle" {
		t.Fatalf("first param = %q, want angle", m.paramKeys[0])
	}

	m.Update(key("tab"))
	m.Update(key("up"))
	if math.Abs(strand.Gravity-0.21) > 1e-12 {
		t.Errorf("gravity = %v, want 0.21", strand.Gravity)
	}

	m.Update(key("tab"))
	m.Update(key("k"))
	if strand.Iterations != 4 {
		t.Errorf("iterations = %d, want 4", strand.Iterations)
	}
	m.Update(key("j"))
	m.Update(key("j"))
	if strand.Iterations != 2 {
		t.Errorf("iterations = %d, want 2", strand.Iterations)
	}

	m.Init()
	frameAt(m, 50*time.Millisecond)
	m.Update(key("r"))
	if strand.Gravity != 0.2 || strand.Iterations != 3 {
		t.Errorf("reset left gravity %v, iterations %d", strand.Gravity, strand.Iterations)
	}
	if m.frames != 0 || len(m.errHistory) != 0 || len(m.trail) != 0 {
		t.Error("reset should clear the frame history")
	}
}

func TestModelTheme(t *testing.T) {
	before := CurrentTheme.Name
	defer SetTheme(before)

	m := newTestModel(t, physics.NewStrand())
	m.Update(key("t"))
	if CurrentTheme.Name == before {
		t.Error("t should change the theme")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, physics.NewStrand())
	if v := m.View(); !strings.Contains(v, "TEST") || !strings.Contains(v, "PAUSED") {
		t.Error("stopped view should show the name and PAUSED")
	}

	m.Init()
	frameAt(m, 50*time.Millisecond)
	frameAt(m, 100*time.Millisecond)
	v := m.View()
	if !strings.Contains(v, "RUNNING") || !strings.Contains(v, "gravity") {
		t.Error("running view should show status and parameters")
	}

	m.Update(key("?"))
	if !strings.Contains(m.View(), "cycle themes") {
		t.Error("? should show help")
	}

	g := newTestModel(t, swing.New(swing.DefaultConfig(), random.New(1, 0)))
	if !strings.Contains(g.View(), "Landings") {
		t.Error("swing view should show the game counters")
	}
}
