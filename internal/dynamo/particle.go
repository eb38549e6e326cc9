package dynamo

// Kind tells the solver whether a particle can be moved.
type Kind uint8

const (
	Dynamic Kind = iota
	Anchored
)

func (k Kind) String() string {
	if k == Anchored {
		return "anchored"
	}
	return "dynamic"
}

// Particle is a point mass. Its velocity is Pos - Prev.
type Particle struct {
	Pos    Vec2
	Prev   Vec2
	Radius float64

	kind Kind
	mass float64
}

// NewParticle returns a dynamic particle at rest. A mass of zero or less
// yields an anchor.
func NewParticle(pos Vec2, mass float64) *Particle {
	if mass <= 0 {
		return NewAnchor(pos)
	}
	return &Particle{Pos: pos, Prev: pos, kind: Dynamic, mass: mass}
}

// NewAnchor returns a particle no force or constraint can move.
func NewAnchor(pos Vec2) *Particle {
	return &Particle{Pos: pos, Prev: pos, kind: Anchored}
}

// Kind is Anchored for anchors and for any particle without positive mass,
// including the zero Particle.
func (p *Particle) Kind() Kind {
	if p.kind == Anchored || !(p.mass > 0) {
		return Anchored
	}
	return Dynamic
}

func (p *Particle) Anchored() bool { return p.Kind() == Anchored }

// Mass is zero for anchors.
func (p *Particle) Mass() float64 { return p.mass }

// InvMass is the particle's share weight in a correction; anchors weigh nothing.
func (p *Particle) InvMass() float64 {
	if p.Anchored() {
		return 0
	}
	return 1 / p.mass
}

func (p *Particle) Velocity() Vec2 { return p.Pos.Sub(p.Prev) }

func (p *Particle) SetVelocity(v Vec2) { p.Prev = p.Pos.Sub(v) }

// Place moves the particle to pos and brings it to rest.
func (p *Particle) Place(pos Vec2) {
	p.Pos = pos
	p.Prev = pos
}

// ApplyMovement carries each dynamic particle's velocity forward one tick.
func ApplyMovement(ps ...*Particle) {
	for _, p := range ps {
		if p.Anchored() {
			continue
		}
		v := p.Pos.Sub(p.Prev)
		p.Prev = p.Pos
		p.Pos = p.Pos.Add(v)
	}
}

// ApplyGravity displaces each dynamic particle by g, the per-tick acceleration.
func ApplyGravity(g Vec2, ps ...*Particle) {
	for _, p := range ps {
		if p.Anchored() {
			continue
		}
		p.Pos = p.Pos.Add(g)
	}
}

// Positions copies the current position of each particle.
func Positions(ps []*Particle) []Vec2 {
	out := make([]Vec2, len(ps))
	for i, p := range ps {
		out[i] = p.Pos
	}
	return out
}
