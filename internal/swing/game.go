package swing

import (
	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/loop"
	"github.com/san-kum/swingsim/internal/random"
)

// Platform is a ledge centred on X whose top edge is at Y.
type Platform struct {
	X, Y, W float64
}

func (p Platform) Left() float64  { return p.X - p.W/2 }
func (p Platform) Right() float64 { return p.X + p.W/2 }

type Config struct {
	Anchor dynamo.Vec2
	Start  dynamo.Vec2
	// Size is the player's width and height.
	Size      dynamo.Vec2
	PlatformA Platform
	Gravity   float64
	Jump      float64
	Pump      float64
	Passes    int
	// Hertz is the number of ticks between a landing and the next round.
	Hertz int
	// World bounds. Falling below WorldHeight resets the player.
	WorldWidth  float64
	WorldHeight float64
}

func DefaultConfig() Config {
	return Config{
		Anchor:      dynamo.Vec2{X: 200, Y: 0},
		Start:       dynamo.Vec2{X: 100, Y: 100},
		Size:        dynamo.Vec2{X: 20, Y: 20},
		PlatformA:   Platform{X: 80, Y: 110, W: 60},
		Gravity:     0.04,
		Jump:        1,
		Pump:        0.02125,
		Passes:      3,
		Hertz:       loop.DefaultHertz,
		WorldWidth:  500,
		WorldHeight: 360,
	}
}

type Phase uint8

const (
	Ready Phase = iota
	Swinging
	Grabbing
	Landed
)

func (p Phase) String() string {
	switch p {
	case Swinging:
		return "swinging"
	case Grabbing:
		return "grabbing"
	case Landed:
		return "landed"
	}
	return "ready"
}

// Game holds one session. Rounds share the anchor and rope length; each new
// round draws a fresh target platform from the generator.
type Game struct {
	cfg Config
	rng *random.Mulberry32

	anchor *dynamo.Particle
	player *dynamo.Particle
	link   dynamo.Constraint

	PlatformB Platform

	swinging bool
	grabbing bool
	landed   bool
	// ticks left until the next round, 0 when none is pending
	pending int

	round    int
	landings int
	falls    int
}

func New(cfg Config, rng *random.Mulberry32) *Game {
	g := &Game{
		cfg:    cfg,
		rng:    rng,
		anchor: dynamo.NewAnchor(cfg.Anchor),
		player: dynamo.NewParticle(cfg.Start, 1),
	}
	g.link = dynamo.Constraint{Length: dynamo.Distance(g.player, g.anchor)}
	g.newRound()
	return g
}

func (g *Game) Config() Config { return g.cfg }

func (g *Game) newRound() {
	g.round++
	g.pending = 0
	g.landed = false
	g.PlatformB = Platform{
		X: g.rng.Range(300, 300),
		Y: g.rng.Range(200, 100),
		W: g.rng.Range(20, 200),
	}
	g.Reset()
}

// Reset puts the player back at the start and ends any swing.
func (g *Game) Reset() {
	g.swinging = false
	g.grabbing = false
	g.player.Place(g.cfg.Start)
}

// Grab starts a swing from the start position with an up-and-back kick. It
// cancels a pending new round.
func (g *Game) Grab() {
	g.pending = 0
	g.landed = false
	g.Reset()
	g.swinging = true
	g.grabbing = true
	g.player.SetVelocity(dynamo.Vec2{X: -g.cfg.Jump, Y: -g.cfg.Jump})
}

// Release lets go of the rope; the player keeps flying.
func (g *Game) Release() {
	g.grabbing = false
}

func (g *Game) Step(loop.TickInfo) {
	if g.pending > 0 {
		g.pending--
		if g.pending == 0 {
			g.newRound()
		}
	}
	if !g.swinging {
		return
	}

	p := g.player
	dynamo.ApplyMovement(p)
	dynamo.ApplyGravity(dynamo.Vec2{Y: g.cfg.Gravity}, p)

	if g.grabbing {
		p.Prev.X -= g.cfg.Pump
		for i := 0; i < g.cfg.Passes; i++ {
			dynamo.Constrain(p, g.anchor, g.link)
		}
	}

	if p.Pos.Y > g.cfg.WorldHeight {
		g.falls++
		g.Reset()
		return
	}

	half := g.cfg.Size.X / 2
	b := g.PlatformB
	if p.Pos.Y+g.cfg.Size.Y/2 < b.Y || p.Pos.X+half < b.Left() || p.Pos.X-half > b.Right() {
		return
	}
	if p.Pos.Y+g.cfg.Size.Y*0.1 < b.Y {
		p.Pos.Y = b.Y - g.cfg.Size.Y/2
	}

	// Landing lets go of the rope even if it is still held.
	g.swinging = false
	g.grabbing = false
	g.landed = true
	g.landings++
	g.pending = g.cfg.Hertz
}

// Particles is the anchor followed by the player.
func (g *Game) Particles() []*dynamo.Particle {
	return []*dynamo.Particle{g.anchor, g.player}
}

// LinkErrors reports the rope's stretch while the player holds on, and zero
// otherwise.
func (g *Game) LinkErrors() []float64 {
	if !g.grabbing {
		return []float64{0}
	}
	e := g.link.Error(g.player, g.anchor)
	if e < 0 {
		e = -e
	}
	return []float64{e}
}

func (g *Game) Phase() Phase {
	switch {
	case g.grabbing:
		return Grabbing
	case g.swinging:
		return Swinging
	case g.landed:
		return Landed
	}
	return Ready
}

func (g *Game) Player() *dynamo.Particle { return g.player }
func (g *Game) Anchor() *dynamo.Particle { return g.anchor }

// RopeLength is the anchor-to-player distance measured when the game was
// created.
func (g *Game) RopeLength() float64 { return g.link.Length }

// Pending is the number of ticks until the next round, 0 when none is
// scheduled.
func (g *Game) Pending() int { return g.pending }

func (g *Game) Round() int    { return g.round }
func (g *Game) Landings() int { return g.landings }
func (g *Game) Falls() int    { return g.falls }

// Bounds is the visible world.
func (g *Game) Bounds() (dynamo.Vec2, dynamo.Vec2) {
	return dynamo.Vec2{}, dynamo.Vec2{X: g.cfg.WorldWidth, Y: g.cfg.WorldHeight}
}
