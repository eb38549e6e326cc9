package dynamo

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a particle position that is NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParam indicates a parameter name a system does not expose.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrUnknownModel indicates a model name missing from the registry.
	ErrUnknownModel = errors.New("dynamo: unknown model")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with the frame it occurred in.
type SimulationError struct {
	Frame   int
	Time    time.Duration
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (t=%s): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
