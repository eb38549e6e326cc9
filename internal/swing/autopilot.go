package swing

import "github.com/san-kum/swingsim/internal/loop"

// Autopilot plays the game headlessly: it grabs on GrabTick and lets go on
// ReleaseTick, counted from its first step. It grabs again after every
// fall or new round, so a long run keeps attempting the jump.
type Autopilot struct {
	*Game
	GrabTick    int
	ReleaseTick int

	tick  int
	round int
	falls int
}

func NewAutopilot(g *Game, grabTick, releaseTick int) *Autopilot {
	return &Autopilot{Game: g, GrabTick: grabTick, ReleaseTick: releaseTick, round: g.Round()}
}

func (a *Autopilot) Step(tick loop.TickInfo) {
	if a.Game.Round() != a.round || a.Game.Falls() != a.falls {
		a.round, a.falls = a.Game.Round(), a.Game.Falls()
		a.tick = 0
	}
	if a.tick == a.GrabTick {
		a.Game.Grab()
	}
	if a.tick == a.ReleaseTick {
		a.Game.Release()
	}
	a.tick++
	a.Game.Step(tick)
}

// Reset restarts the script along with the player.
func (a *Autopilot) Reset() {
	a.Game.Reset()
	a.tick = 0
}
