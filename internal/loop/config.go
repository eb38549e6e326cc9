package loop

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultHertz = 120
	DefaultPanic = 120
	DefaultMax   = 3
)

// ErrInvalidConfig indicates a non-positive rate or tick limit.
var ErrInvalidConfig = errors.New("loop: invalid config")

// Config holds the loop tunables.
type Config struct {
	Hertz int // simulation ticks per second
	Panic int // backlog, in ticks, beyond which time is discarded
	Max   int // ticks run per frame at most
}

func DefaultConfig() Config {
	return Config{
		Hertz: DefaultHertz,
		Panic: DefaultPanic,
		Max:   DefaultMax,
	}
}

// FrameRate is the simulated duration of one tick.
func (c Config) FrameRate() time.Duration {
	return time.Second / time.Duration(c.Hertz)
}

func (c Config) Validate() error {
	if c.Hertz <= 0 {
		return fmt.Errorf("%w: hertz must be positive, got %d", ErrInvalidConfig, c.Hertz)
	}
	if time.Second/time.Duration(c.Hertz) == 0 {
		return fmt.Errorf("%w: hertz %d is below clock resolution", ErrInvalidConfig, c.Hertz)
	}
	if c.Panic <= 0 {
		return fmt.Errorf("%w: panic must be positive, got %d", ErrInvalidConfig, c.Panic)
	}
	if c.Max <= 0 {
		return fmt.Errorf("%w: max must be positive, got %d", ErrInvalidConfig, c.Max)
	}
	return nil
}
