package fsm

import (
	"maps"
	"slices"
)

// Name identifies a state.
type Name string

// State describes one named state of S.
type State[S any] struct {
	// Is reports whether the state holds for a value.
	Is func(S) bool

	// Set builds the value entered by To. Optional; states without it can
	// only be entered through Commit.
	Set func(current S, args ...any) S

	// From lists the states this one may be entered from, in addition to
	// Definition.Transitions.
	From []Name
}

// Definition is the full state table of a machine.
type Definition[S any] struct {
	States map[Name]State[S]

	// Transitions maps a state to the states it may move to.
	Transitions map[Name][]Name

	// Order fixes the order of Matching. Defaults to sorted names.
	Order []Name
}

// Validate checks that every referenced name is declared and every state has
// a predicate.
func (d Definition[S]) Validate() error {
	if len(d.States) == 0 {
		return &DefinitionError{Err: ErrEmptyDefinition}
	}

	for name, st := range d.States {
		if st.Is == nil {
			return &DefinitionError{State: name, Err: ErrMissingPredicate}
		}
		for _, from := range st.From {
			if _, ok := d.States[from]; !ok {
				return &DefinitionError{State: from, Err: ErrUnknownState}
			}
		}
	}

	for from, targets := range d.Transitions {
		if _, ok := d.States[from]; !ok {
			return &DefinitionError{State: from, Err: ErrUnknownState}
		}
		for _, to := range targets {
			if _, ok := d.States[to]; !ok {
				return &DefinitionError{State: to, Err: ErrUnknownState}
			}
		}
	}

	if d.Order != nil {
		if len(d.Order) != len(d.States) {
			return &DefinitionError{Err: ErrBadOrder}
		}
		seen := make(map[Name]bool, len(d.Order))
		for _, name := range d.Order {
			if _, ok := d.States[name]; !ok || seen[name] {
				return &DefinitionError{State: name, Err: ErrBadOrder}
			}
			seen[name] = true
		}
	}

	return nil
}

func (d Definition[S]) order() []Name {
	if d.Order != nil {
		return slices.Clone(d.Order)
	}
	return slices.Sorted(maps.Keys(d.States))
}

// edges returns, for each target state, the set of states it may be
// entered from.
func (d Definition[S]) edges() map[Name]map[Name]bool {
	in := make(map[Name]map[Name]bool, len(d.States))
	add := func(from, to Name) {
		if in[to] == nil {
			in[to] = make(map[Name]bool)
		}
		in[to][from] = true
	}

	for to, st := range d.States {
		for _, from := range st.From {
			add(from, to)
		}
	}
	for from, targets := range d.Transitions {
		for _, to := range targets {
			add(from, to)
		}
	}
	return in
}
