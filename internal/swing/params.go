package swing

import (
	"fmt"

	"github.com/san-kum/swingsim/internal/dynamo"
)

func (g *Game) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity": g.cfg.Gravity,
		"jump":    g.cfg.Jump,
		"pump":    g.cfg.Pump,
		"passes":  float64(g.cfg.Passes),
	}
}

// SetParam tunes the physics of the current session. The rope length stays
// as measured when the game was created.
func (g *Game) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		g.cfg.Gravity = value
	case "jump":
		g.cfg.Jump = value
	case "pump":
		g.cfg.Pump = value
	case "passes":
		n := int(value)
		if n < 1 || n > dynamo.MaxIterations {
			return fmt.Errorf("%w: passes must be in [1, %d], got %v", dynamo.ErrParameterBounds, dynamo.MaxIterations, value)
		}
		g.cfg.Passes = n
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}

// Report counts rounds, landings and falls so far.
func (g *Game) Report() map[string]float64 {
	return map[string]float64{
		"rounds":   float64(g.round),
		"landings": float64(g.landings),
		"falls":    float64(g.falls),
	}
}

// GetParams adds the script's ticks to the game's parameters.
func (a *Autopilot) GetParams() map[string]float64 {
	params := a.Game.GetParams()
	params["grab_tick"] = float64(a.GrabTick)
	params["release_tick"] = float64(a.ReleaseTick)
	return params
}

func (a *Autopilot) SetParam(name string, value float64) error {
	switch name {
	case "grab_tick", "release_tick":
		if value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", dynamo.ErrParameterBounds, name, value)
		}
		if name == "grab_tick" {
			a.GrabTick = int(value)
		} else {
			a.ReleaseTick = int(value)
		}
		return nil
	}
	return a.Game.SetParam(name, value)
}
