package scoped

import (
	"errors"
	"fmt"
)

// ErrUnstableSelector is matched by every *SelectorError.
var ErrUnstableSelector = errors.New("selector is not stable")

// SelectorError reports a selector that returned different values for the
// same input.
type SelectorError struct {
	Name string
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf(
		"selector %q returned different values for the same state; "+
			"build derived values with scoped.Merge, scoped.Merge2 or scoped.Combine instead of allocating in the selector",
		e.Name,
	)
}

func (e *SelectorError) Unwrap() error {
	return ErrUnstableSelector
}
