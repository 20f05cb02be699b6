package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidReference is returned when a transition names a state absent from the automaton.
var ErrInvalidReference = errors.New("invalid state reference")

// ErrStateNotFound is returned when an operation targets an unknown state.
var ErrStateNotFound = errors.New("state not found")

// ErrValidation is the sentinel every ValidationError matches.
var ErrValidation = errors.New("validation failed")

// ErrNoInitialState is returned when processing is requested before an initial state is set.
var ErrNoInitialState = &ValidationError{Field: "initial_state", Reason: "no initial state is set"}

// ErrEmptyWord is returned when an empty input word is submitted for processing.
var ErrEmptyWord = &ValidationError{Field: "word", Reason: "input word is empty"}

// ErrStuck is the sentinel every StuckError matches.
var ErrStuck = errors.New("execution stuck")

// ErrStaleState is returned when a live session points at a state removed mid-session.
var ErrStaleState = errors.New("current state was removed from the automaton")

// ErrNotActive is returned when a live step is requested outside an active session.
var ErrNotActive = errors.New("live session is not active")

// ErrSnapshotNotFound is returned when a named snapshot cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StuckError reports the (state, symbol) pair with no outgoing transition.
// Consumed is the number of symbols processed before the failure.
type StuckError struct {
	State    string
	Symbol   string
	Consumed int
}

func (e *StuckError) Error() string {
	return fmt.Sprintf("no transition for (%s, %s) after %d symbols", e.State, e.Symbol, e.Consumed)
}

func (e *StuckError) Is(target error) bool {
	return target == ErrStuck
}
