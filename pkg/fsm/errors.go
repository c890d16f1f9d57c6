package fsm

import (
	"errors"
	"fmt"
)

var (
	// ErrStateNotFound is matched by every LookupError.
	ErrStateNotFound = errors.New("state not found")
	// ErrNoTransition means no guard of the current state is satisfied.
	ErrNoTransition = errors.New("no transition defined")
	// ErrNoStates is returned when synthesizing an empty machine.
	ErrNoStates = errors.New("state machine has no states")
	// ErrDuplicateNumber means two states share an encoding.
	ErrDuplicateNumber = errors.New("duplicate state number")
	// ErrDuplicateName means two states share a name.
	ErrDuplicateName = errors.New("duplicate state name")
	// ErrTooManyVariables means the table would have more variables than
	// the configured limit.
	ErrTooManyVariables = errors.New("too many truth table variables")
	// ErrNameClash means a guard variable shadows a state variable.
	ErrNameClash = errors.New("input variable clashes with state variable")
)

// LookupError reports a state that could not be found by name or number.
type LookupError struct {
	Name     string
	Number   int
	ByNumber bool
}

func (e *LookupError) Error() string {
	if e.ByNumber {
		return fmt.Sprintf("state %d not found", e.Number)
	}
	return fmt.Sprintf("state %q not found", e.Name)
}

// Unwrap makes errors.Is(err, ErrStateNotFound) hold.
func (e *LookupError) Unwrap() error { return ErrStateNotFound }

// SynthesisError reports a structural problem found while building the
// truth table. State and Input are empty when the problem is not tied to a
// particular row.
type SynthesisError struct {
	State      string
	Number     int
	Input      string          // formatted input assignment, e.g. "a=1, b=0"
	Assignment map[string]bool // input assignment of the failing row
	Err        error
}

func (e *SynthesisError) Error() string {
	switch {
	case e.State == "":
		return fmt.Sprintf("synthesis: %v", e.Err)
	case e.Input == "" && e.Assignment == nil:
		return fmt.Sprintf("synthesis: state %q: %v", e.State, e.Err)
	default:
		return fmt.Sprintf("synthesis: state %q (%d): %v for %s", e.State, e.Number, e.Err, e.Input)
	}
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// EvaluationError wraps an error raised by a guard expression.
type EvaluationError struct {
	From, To  string
	Condition string
	Err       error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate condition %q of %s -> %s: %v", e.Condition, e.From, e.To, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
