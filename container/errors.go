package container

import (
	"errors"
	"fmt"
)

// ErrNotLinked is matched by every *ConstructionError.
var ErrNotLinked = errors.New("child container is not linked to its parent")

// ConstructionError reports a child constructor that did not forward the
// options it received from Create to New, leaving the child detached from
// the tree.
type ConstructionError struct {
	Child  string
	Parent string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf(
		"create %s under %s: constructor must pass its options through to container.New, "+
			"e.g. func New%s(initial S, opts ...container.Option) *%s { return &%s{container.New(initial, opts...)} }",
		e.Child, e.Parent, e.Child, e.Child, e.Child,
	)
}

func (e *ConstructionError) Unwrap() error {
	return ErrNotLinked
}
