package dynamo

// AdjustFunc reshapes the raw distance error before it is corrected.
type AdjustFunc func(err float64) float64

// Constraint binds two particles to Length plus their radii. Strength scales
// each correction; zero means full strength.
type Constraint struct {
	Length   float64
	Strength float64
	Adjust   AdjustFunc
}

// Slack ignores compression, so a rope pulls but never pushes.
func Slack(err float64) float64 {
	if err < 0 {
		return 0
	}
	return err
}

// RopeLink is the soft, slack link used for decorative strands.
func RopeLink() Constraint {
	return Constraint{Length: 2, Strength: 0.125, Adjust: Slack}
}

func (c Constraint) strength() float64 {
	if c.Strength == 0 {
		return 1
	}
	return c.Strength
}

// Error is the shaped violation between a and b: positive when too far apart.
func (c Constraint) Error(a, b *Particle) float64 {
	e := Distance(a, b) - c.Length
	if c.Adjust != nil {
		e = c.Adjust(e)
	}
	return e
}

// Distance is the gap between the surfaces of a and b.
func Distance(a, b *Particle) float64 {
	return a.Pos.Sub(b.Pos).Len() - a.Radius - b.Radius
}

// Constrain runs one relaxation pass between a and b, moving each along the
// line between them in proportion to its inverse mass. It reports whether
// anything moved. Two anchors, coincident particles and a satisfied
// constraint are left alone.
func Constrain(a, b *Particle, c Constraint) bool {
	wa, wb := a.InvMass(), b.InvMass()
	w := wa + wb
	if w == 0 {
		return false
	}

	delta := a.Pos.Sub(b.Pos)
	d := delta.Len()
	if d == 0 {
		return false
	}

	e := d - a.Radius - b.Radius - c.Length
	if c.Adjust != nil {
		e = c.Adjust(e)
	}
	if e == 0 {
		return false
	}

	s := e / (d * w) * c.strength()
	if wa != 0 {
		a.Pos = a.Pos.Sub(delta.Scale(s * wa))
	}
	if wb != 0 {
		b.Pos = b.Pos.Add(delta.Scale(s * wb))
	}
	return true
}

// ConstrainSeries relaxes each adjacent pair from the first particle to the
// last and returns how many pairs moved.
func ConstrainSeries(ps []*Particle, c Constraint) int {
	moved := 0
	for i := 0; i+1 < len(ps); i++ {
		if Constrain(ps[i], ps[i+1], c) {
			moved++
		}
	}
	return moved
}

// ConstrainSeriesReverse is ConstrainSeries walked from the last pair back.
func ConstrainSeriesReverse(ps []*Particle, c Constraint) int {
	moved := 0
	for i := len(ps) - 2; i >= 0; i-- {
		if Constrain(ps[i], ps[i+1], c) {
			moved++
		}
	}
	return moved
}

// ConstrainRope relaxes ps once with RopeLink.
func ConstrainRope(ps []*Particle) int {
	return ConstrainSeries(ps, RopeLink())
}
