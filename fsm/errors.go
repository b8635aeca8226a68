package fsm

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDefinition  = errors.New("definition has no states")
	ErrMissingPredicate = errors.New("state has no predicate")
	ErrUnknownState     = errors.New("unknown state")
	ErrBadOrder         = errors.New("order must list every state exactly once")

	// ErrInconsistent is matched by every *TransitionError.
	ErrInconsistent = errors.New("transition produced unexpected states")
)

// DefinitionError reports an invalid state table.
type DefinitionError struct {
	State Name
	Err   error
}

func (e *DefinitionError) Error() string {
	if e.State == "" {
		return fmt.Sprintf("fsm definition: %v", e.Err)
	}
	return fmt.Sprintf("fsm definition: state %q: %v", e.State, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// TransitionError reports a committed value whose newly true states differ
// from what the transition declared. Nothing was written.
type TransitionError struct {
	From     []Name
	Expected []Name
	Actual   []Name
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("fsm transition from %v: expected %v to become true, got %v", e.From, e.Expected, e.Actual)
}

func (e *TransitionError) Unwrap() error {
	return ErrInconsistent
}
