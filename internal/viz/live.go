package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/loop"
	"github.com/san-kum/swingsim/internal/swing"
)

const (
	width           = 64
	height          = 22
	historyCapacity = 240
	trailCapacity   = 90
)

// Bounded systems report the world box they should be drawn in.
type Bounded interface {
	Bounds() (min, max dynamo.Vec2)
}

// Model runs a system through the fixed-timestep loop and draws each
// rendered frame on a braille canvas.
type Model struct {
	sys   dynamo.System
	name  string
	sched *TeaScheduler
	loop  *loop.Loop

	canvas *Canvas
	view   *Viewport

	frame      dynamo.Frame
	frames     int
	errHistory []float64
	trail      []dynamo.Vec2

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int
	showHelp      bool
}

// NewModel creates a stopped view of sys; the loop starts with the program.
func NewModel(name string, sys dynamo.System, cfg loop.Config, fps int) (*Model, error) {
	m := &Model{
		sys:           sys,
		name:          name,
		sched:         NewTeaScheduler(fps),
		canvas:        NewCanvas(width, height),
		errHistory:    make([]float64, 0, historyCapacity),
		trail:         make([]dynamo.Vec2, 0, trailCapacity),
		params:        make(map[string]float64),
		initialParams: make(map[string]float64),
	}

	l, err := loop.New(m.sched, cfg, sys.Step, m.render)
	if err != nil {
		return nil, err
	}
	m.loop = l

	if t, ok := sys.(dynamo.Configurable); ok {
		for k, v := range t.GetParams() {
			m.params[k] = v
			m.initialParams[k] = v
			m.paramKeys = append(m.paramKeys, k)
		}
	}
	sort.Strings(m.paramKeys)

	m.frame = dynamo.Capture(sys, 0, 0)
	m.view = fitView(sys, m.frame)
	m.view.Fit(m.canvas.Dots())
	return m, nil
}

func fitView(sys dynamo.System, f dynamo.Frame) *Viewport {
	if b, ok := sys.(Bounded); ok {
		return NewViewport(b.Bounds())
	}
	lo, hi := dynamo.Vec2{}, dynamo.Vec2{}
	for i, p := range f.Positions {
		if i == 0 {
			lo, hi = p, p
			continue
		}
		lo = dynamo.Vec2{X: min(lo.X, p.X), Y: min(lo.Y, p.Y)}
		hi = dynamo.Vec2{X: max(hi.X, p.X), Y: max(hi.Y, p.Y)}
	}
	pad := max(hi.X-lo.X, hi.Y-lo.Y, 1) * 0.5
	return NewViewport(lo.Sub(dynamo.Vec2{X: pad, Y: pad}), hi.Add(dynamo.Vec2{X: pad, Y: pad}))
}

func (m *Model) Loop() *loop.Loop { return m.loop }

func (m *Model) Init() tea.Cmd {
	m.loop.Start()
	return m.sched.Tick()
}

// Update handles input and display frames. Simulation only advances on
// FrameMsg, through the loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.loop.Stop()
			return m, tea.Quit
		case " ":
			m.toggleGrab()
		case "p":
			if m.loop.IsPlaying() {
				m.loop.Stop()
			} else {
				m.loop.Start()
			}
		case "r":
			m.reset()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case FrameMsg:
		m.sched.Fire(time.Time(msg))
		return m, m.sched.Tick()
	}
	return m, nil
}

func (m *Model) game() *swing.Game {
	switch s := m.sys.(type) {
	case *swing.Game:
		return s
	case *swing.Autopilot:
		return s.Game
	}
	return nil
}

func (m *Model) toggleGrab() {
	g := m.game()
	if g == nil {
		return
	}
	if g.Phase() == swing.Grabbing {
		g.Release()
	} else {
		g.Grab()
	}
}

func (m *Model) render() {
	m.frames++
	m.frame = dynamo.Capture(m.sys, m.frames, m.sched.Now())

	m.errHistory = append(m.errHistory, m.frame.MaxLinkError())
	if len(m.errHistory) > historyCapacity {
		m.errHistory = m.errHistory[1:]
	}
	if n := len(m.frame.Positions); n > 0 {
		m.trail = append(m.trail, m.frame.Positions[n-1])
		if len(m.trail) > trailCapacity {
			m.trail = m.trail[1:]
		}
	}
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	t, ok := m.sys.(dynamo.Configurable)
	if !ok {
		return
	}
	key := m.paramKeys[m.selected]
	old := m.params[key]
	if err := t.SetParam(key, old*factor); err != nil {
		return
	}
	got := t.GetParams()[key]
	// whole-numbered params truncate small changes away
	if got == old && old == math.Trunc(old) {
		step := 1.0
		if factor < 1 {
			step = -1
		}
		if err := t.SetParam(key, old+step); err == nil {
			got = t.GetParams()[key]
		}
	}
	m.params[key] = got
}

// reset restores the initial parameters and state.
func (m *Model) reset() {
	if t, ok := m.sys.(dynamo.Configurable); ok {
		for _, k := range m.paramKeys {
			_ = t.SetParam(k, m.initialParams[k])
			m.params[k] = m.initialParams[k]
		}
	}
	m.sys.Reset()
	m.frames = 0
	m.frame = dynamo.Capture(m.sys, 0, m.sched.Now())
	m.errHistory = m.errHistory[:0]
	m.trail = m.trail[:0]
}

func (m *Model) View() string {
	st := newStyles(CurrentTheme)
	m.draw()

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	status := st.status.Render("RUNNING")
	if !m.loop.IsPlaying() {
		status = st.paused.Render("PAUSED")
	}
	if g := m.game(); g != nil {
		status += "  " + st.value.Render(g.Phase().String())
	}
	s.WriteString(status + "\n\n")

	if len(m.errHistory) > 1 {
		chart := asciigraph.Plot(m.errHistory, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("link error"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	stats := m.loop.Stats()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.frames))
	row("Time", fmt.Sprintf("%.2fs", m.frame.Time.Seconds()))
	row("Ticks", fmt.Sprintf("%d", stats.Ticks))
	row("Stalls", fmt.Sprintf("%d", stats.Stalls))
	row("Link error", fmt.Sprintf("%.4f", m.frame.MaxLinkError()))
	if g := m.game(); g != nil {
		row("Round", fmt.Sprintf("%d", g.Round()))
		row("Landings", fmt.Sprintf("%d", g.Landings()))
		row("Falls", fmt.Sprintf("%d", g.Falls()))
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) == 0 {
		s.WriteString(st.label.Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-10s %.4g", k, m.params[k])
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.value.Render(line) + "\n")
		}
	}

	help := "SP:Grab P:Pause R:Reset Q:Quit\nTab ↑↓:Tune T:Theme ?:Help"
	if m.showHelp {
		help = "Space  grab or let go (swing)\nP      pause or resume the loop\nR      reset state and parameters\nTab    select parameter\n↑/↓    tune by ±5%\nT      cycle themes\nQ      quit"
	}
	s.WriteString(st.help.Render(help))

	return lipgloss.JoinHorizontal(lipgloss.Top, st.canvas.Render(m.canvas.String()), st.stats.Render(s.String()))
}

func (m *Model) draw() {
	m.canvas.Clear()

	for _, p := range m.trail {
		m.canvas.Set(m.view.Project(p))
	}

	if g := m.game(); g != nil {
		m.drawGame(g)
		return
	}

	pts := m.frame.Positions
	for i := 0; i+1 < len(pts); i++ {
		x0, y0 := m.view.Project(pts[i])
		x1, y1 := m.view.Project(pts[i+1])
		m.canvas.DrawLine(x0, y0, x1, y1)
	}
	for _, p := range pts {
		x, y := m.view.Project(p)
		m.canvas.DrawRect(x-1, y-1, x+1, y+1)
	}
}

func (m *Model) drawGame(g *swing.Game) {
	cfg := g.Config()
	for _, p := range []swing.Platform{cfg.PlatformA, g.PlatformB} {
		x0, y0 := m.view.Project(dynamo.Vec2{X: p.Left(), Y: p.Y})
		x1, _ := m.view.Project(dynamo.Vec2{X: p.Right(), Y: p.Y})
		_, y1 := m.view.Project(dynamo.Vec2{Y: cfg.WorldHeight})
		m.canvas.DrawLine(x0, y0, x1, y0)
		m.canvas.DrawLine(x0, y0, x0, y1)
		m.canvas.DrawLine(x1, y0, x1, y1)
	}

	player := g.Player().Pos
	if g.Phase() == swing.Grabbing {
		ax, ay := m.view.Project(g.Anchor().Pos)
		px, py := m.view.Project(player)
		m.canvas.DrawLine(ax, ay, px, py)
	}

	half := cfg.Size.Scale(0.5)
	x0, y0 := m.view.Project(player.Sub(half))
	x1, y1 := m.view.Project(player.Add(half))
	m.canvas.DrawRect(x0, y0, x1, y1)
}
