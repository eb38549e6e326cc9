package swing

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/loop"
	"github.com/san-kum/swingsim/internal/random"
)

var (
	_ dynamo.System   = (*Game)(nil)
	_ dynamo.Strained = (*Game)(nil)
	_ dynamo.System   = (*Autopilot)(nil)
)

func newGame(seed uint32) *Game {
	return New(DefaultConfig(), random.New(seed, 0))
}

func steps(g interface{ Step(loop.TickInfo) }, n int) {
	for i := 0; i < n; i++ {
		g.Step(loop.TickInfo{})
	}
}

func TestNewGame(t *testing.T) {
	g := newGame(42)

	if g.Phase() != Ready || g.Round() != 1 {
		t.Errorf("phase %v round %d", g.Phase(), g.Round())
	}
	if got := g.RopeLength(); math.Abs(got-100*math.Sqrt2) > 1e-9 {
		t.Errorf("rope length %v", got)
	}
	if !g.Anchor().Anchored() {
		t.Error("anchor should be anchored")
	}
	if g.PlatformB != (Platform{X: 480, Y: 245, W: 190}) {
		t.Errorf("platform B = %+v", g.PlatformB)
	}
}

func TestPlatformBFromGenerator(t *testing.T) {
	for _, seed := range []uint32{0, 1, 7, 42, 1 << 31} {
		a, b := newGame(seed), newGame(seed)
		if a.PlatformB != b.PlatformB {
			t.Errorf("seed %d: platforms differ %+v vs %+v", seed, a.PlatformB, b.PlatformB)
		}

		p := a.PlatformB
		if p.X < 300 || p.X > 600 || p.Y < 200 || p.Y > 300 || p.W < 20 || p.W > 220 {
			t.Errorf("seed %d: platform out of range %+v", seed, p)
		}
		if p.X != math.Trunc(p.X) || p.Y != math.Trunc(p.Y) || p.W != math.Trunc(p.W) {
			t.Errorf("seed %d: platform not whole %+v", seed, p)
		}
	}
}

func TestIdleGameDoesNotMove(t *testing.T) {
	g := newGame(1)
	steps(g, 50)

	if g.Player().Pos != (dynamo.Vec2{X: 100, Y: 100}) {
		t.Errorf("idle player moved to %v", g.Player().Pos)
	}
}

func TestGrabHoldsRopeLength(t *testing.T) {
	g := newGame(42)
	g.Grab()

	if g.Phase() != Grabbing {
		t.Fatalf("phase %v, want grabbing", g.Phase())
	}
	if v := g.Player().Velocity(); v != (dynamo.Vec2{X: -1, Y: -1}) {
		t.Errorf("grab kick %v, want (-1, -1)", v)
	}

	for i := 0; i < 100; i++ {
		g.Step(loop.TickInfo{})
		if e := g.LinkErrors()[0]; e > 1e-9 {
			t.Fatalf("tick %d: rope stretched by %v", i, e)
		}
	}
	if g.Anchor().Pos != (dynamo.Vec2{X: 200}) {
		t.Errorf("anchor moved to %v", g.Anchor().Pos)
	}
}

func TestReleaseStopsRopeError(t *testing.T) {
	g := newGame(42)
	g.Grab()
	steps(g, 10)
	g.Release()

	if g.Phase() != Swinging {
		t.Errorf("phase %v, want swinging", g.Phase())
	}
	if g.LinkErrors()[0] != 0 {
		t.Errorf("released rope reports error %v", g.LinkErrors()[0])
	}
}

func TestFallResetsPlayer(t *testing.T) {
	g := newGame(42)
	g.PlatformB = Platform{X: 10000, Y: 200, W: 10}
	g.Grab()
	g.Release()

	steps(g, 400)

	if g.Falls() != 1 {
		t.Fatalf("falls = %d, want 1", g.Falls())
	}
	if g.Phase() != Ready || g.Player().Pos != (dynamo.Vec2{X: 100, Y: 100}) {
		t.Errorf("after fall: phase %v at %v", g.Phase(), g.Player().Pos)
	}
	if g.Round() != 1 {
		t.Errorf("a fall should not start a new round, round = %d", g.Round())
	}
}

func TestLandingSchedulesNewRound(t *testing.T) {
	g := newGame(42)
	g.PlatformB = Platform{X: 100, Y: 200, W: 2000}
	g.Grab()
	g.Release()

	steps(g, 96)

	if g.Phase() != Landed {
		t.Fatalf("phase %v at %v, want landed", g.Phase(), g.Player().Pos)
	}
	if g.Player().Pos.Y != 190 {
		t.Errorf("player not snapped onto the platform: %v", g.Player().Pos)
	}
	if g.Pending() != DefaultConfig().Hertz {
		t.Errorf("pending = %d, want %d", g.Pending(), DefaultConfig().Hertz)
	}

	steps(g, DefaultConfig().Hertz-1)
	if g.Round() != 1 || g.Pending() != 1 {
		t.Fatalf("round %d pending %d one tick before the new round", g.Round(), g.Pending())
	}

	g.Step(loop.TickInfo{})
	if g.Round() != 2 || g.Phase() != Ready {
		t.Errorf("round %d phase %v, want a fresh round", g.Round(), g.Phase())
	}
	if g.PlatformB == (Platform{X: 100, Y: 200, W: 2000}) {
		t.Error("new round kept the old platform")
	}
}

func TestGrabCancelsNewRound(t *testing.T) {
	g := newGame(42)
	g.PlatformB = Platform{X: 100, Y: 200, W: 2000}
	g.Grab()
	g.Release()
	steps(g, 96)
	if g.Pending() == 0 {
		t.Fatal("expected a pending round")
	}

	g.Grab()
	steps(g, 2*DefaultConfig().Hertz)

	if g.Round() != 1 {
		t.Errorf("grab should cancel the new round, round = %d", g.Round())
	}
}

func TestLandingLetsGoOfRope(t *testing.T) {
	g := newGame(42)
	g.PlatformB = Platform{X: 0, Y: -1e6, W: 1e7}
	g.Grab()

	steps(g, 1)

	if g.Phase() != Landed {
		t.Fatalf("phase %v, want landed while still holding", g.Phase())
	}
	if g.Landings() != 1 {
		t.Errorf("landings = %d, want 1", g.Landings())
	}
	if e := g.LinkErrors(); len(e) != 1 || e[0] != 0 {
		t.Errorf("link errors after landing = %v", e)
	}
}

func TestAutopilotLands(t *testing.T) {
	a := NewAutopilot(newGame(42), 0, 110)
	steps(a, 1000)

	if a.Landings() < 3 {
		t.Errorf("landings = %d, want at least 3", a.Landings())
	}
	if a.Falls() != 0 {
		t.Errorf("falls = %d, want 0", a.Falls())
	}
	if a.Round() != a.Landings()+1 {
		t.Errorf("round %d after %d landings", a.Round(), a.Landings())
	}
}

func TestAutopilotEarlyReleaseFalls(t *testing.T) {
	a := NewAutopilot(newGame(42), 0, 1)
	steps(a, 300)

	if a.Falls() == 0 {
		t.Error("letting go right away should miss the platform")
	}
	if a.Landings() != 0 {
		t.Errorf("landings = %d", a.Landings())
	}
}

func TestAutopilotSameTickGrabsAndReleases(t *testing.T) {
	a := NewAutopilot(newGame(42), 5, 5)
	for i := 0; i < 50; i++ {
		a.Step(loop.TickInfo{})
		if a.Phase() == Grabbing {
			t.Fatalf("step %d: still holding the rope", i)
		}
	}
}

func TestGameParams(t *testing.T) {
	g := newGame(1)
	var _ dynamo.Configurable = g

	if err := g.SetParam("pump", 0.05); err != nil {
		t.Fatal(err)
	}
	if g.GetParams()["pump"] != 0.05 {
		t.Errorf("pump = %v", g.GetParams()["pump"])
	}
	if err := g.SetParam("passes", 0); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected bounds error, got %v", err)
	}
	if err := g.SetParam("wind", 1); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected unknown param error, got %v", err)
	}
}

func TestAutopilotParams(t *testing.T) {
	a := NewAutopilot(newGame(1), 0, 110)
	var _ dynamo.Configurable = a

	params := a.GetParams()
	if params["release_tick"] != 110 || params["grab_tick"] != 0 || params["pump"] != DefaultConfig().Pump {
		t.Errorf("params = %v", params)
	}

	if err := a.SetParam("release_tick", 80); err != nil {
		t.Fatal(err)
	}
	if a.ReleaseTick != 80 {
		t.Errorf("ReleaseTick = %d, want 80", a.ReleaseTick)
	}
	if err := a.SetParam("gravity", 0.05); err != nil || a.Config().Gravity != 0.05 {
		t.Errorf("gravity not passed to the game: %v", err)
	}
	if err := a.SetParam("grab_tick", -1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected bounds error, got %v", err)
	}
	if err := a.SetParam("wind", 1); !errors.Is(err, dynamo.ErrUnknownParam) {
		t.Errorf("expected unknown param error, got %v", err)
	}
}

func TestReport(t *testing.T) {
	a := NewAutopilot(newGame(42), 0, 110)
	var _ dynamo.Reporter = a
	steps(a, 1000)

	r := a.Report()
	if r["landings"] != float64(a.Landings()) || r["falls"] != float64(a.Falls()) || r["rounds"] != float64(a.Round()) {
		t.Errorf("report %v disagrees with the counters", r)
	}
}
