package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for particle space operations.
var (
	// ErrInvalidConfig indicates a construction parameter outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrPlacementExhausted indicates the non-overlap placement budget ran out.
	ErrPlacementExhausted = errors.New("dynamo: particle placement attempts exhausted")

	// ErrInvalidState indicates a particle position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownComponent indicates a registry lookup for an unregistered name.
	ErrUnknownComponent = errors.New("dynamo: unknown component")
)

// ConfigError names the offending parameter of an invalid configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// PlacementError reports which particle could not be placed.
type PlacementError struct {
	Index    int
	Attempts int
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("%v: particle %d not placed after %d attempts", ErrPlacementExhausted, e.Index, e.Attempts)
}

func (e *PlacementError) Unwrap() error { return ErrPlacementExhausted }

// SimulationError wraps an error with the frame and particle it occurred at.
type SimulationError struct {
	Frame    uint64
	Particle uint32
	Wrapped  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d, particle %d: %v", e.Frame, e.Particle, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
