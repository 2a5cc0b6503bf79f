package solver

import (
	"errors"
	"fmt"
)

// ErrTooManyRequirements is returned by the DP solvers when the requirement
// count exceeds MaxDPRequirements.
var ErrTooManyRequirements = errors.New("too many requirements for bitmask DP")

// ErrUnknownAlgorithm is returned by New for an unregistered algorithm name.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Error represents a precondition failure reported before any search begins.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
