package fsm

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/tailored-agentic-units/statetree/container"
	"github.com/tailored-agentic-units/statetree/identity"
	"github.com/tailored-agentic-units/statetree/observability"
)

// Machine is a container whose commits are checked against a Definition.
// Its Commit shadows the container's and takes a state name as action.
type Machine[S any] struct {
	*container.Container[S]

	def      Definition[S]
	order    []Name
	edges    map[Name]map[Name]bool
	matching func(S) []Name
}

// New wraps c with the state table def.
func New[S any](c *container.Container[S], def Definition[S]) (*Machine[S], error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	m := &Machine[S]{
		Container: c,
		def:       def,
		order:     def.order(),
		edges:     def.edges(),
	}
	m.matching = identity.Memoize(m.evaluate)
	return m, nil
}

// MustNew is like New but panics on an invalid definition. Intended for
// constructors over a package-level Definition.
func MustNew[S any](c *container.Container[S], def Definition[S]) *Machine[S] {
	m, err := New(c, def)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Machine[S]) evaluate(s S) []Name {
	var names []Name
	for _, name := range m.order {
		if m.def.States[name].Is(s) {
			names = append(names, name)
		}
	}
	return names
}

// Matching returns every state that holds now, in definition order. The
// result is cached until the state changes and must not be modified.
func (m *Machine[S]) Matching() []Name {
	return m.matching(m.State())
}

// Is reports whether the named state holds now.
func (m *Machine[S]) Is(name Name) bool {
	return slices.Contains(m.Matching(), name)
}

// Allowed reports whether name may be entered from any state that holds now.
func (m *Machine[S]) Allowed(name Name) bool {
	return m.permitted(m.Matching(), name)
}

func (m *Machine[S]) permitted(froms []Name, to Name) bool {
	for _, from := range froms {
		if m.edges[to][from] {
			return true
		}
	}
	return false
}

// To enters the named state using its Set function.
//
// It returns false without calling Set when the transition is not allowed
// from the current states, and false when the state has no Set function.
// Otherwise it commits the result as Commit does.
func (m *Machine[S]) To(name Name, args ...any) (bool, error) {
	st, ok := m.def.States[name]
	if !ok {
		return false, fmt.Errorf("fsm to %q: %w", name, ErrUnknownState)
	}

	if !m.Allowed(name) {
		m.emit(EventDenied, observability.LevelInfo, name, nil)
		return false, nil
	}
	if st.Set == nil {
		return false, nil
	}

	return m.Commit(name, st.Set(m.State(), args...))
}

// Commit writes next as the transition into name.
//
// It returns a *TransitionError, writing nothing, when the states that
// become true in next are not exactly name. Otherwise it returns false when
// next is identical to the current state or when name cannot be entered from
// the current states.
func (m *Machine[S]) Commit(name Name, next S) (bool, error) {
	if _, ok := m.def.States[name]; !ok {
		return false, fmt.Errorf("fsm commit %q: %w", name, ErrUnknownState)
	}

	current := m.State()
	if m.Same(next, current) {
		return m.Container.Commit(string(name), next), nil
	}

	froms := m.Matching()
	after := m.evaluate(next)
	var actual []Name
	for _, n := range after {
		if !slices.Contains(froms, n) {
			actual = append(actual, n)
		}
	}

	holds := slices.Contains(after, name)
	extra := slices.ContainsFunc(actual, func(n Name) bool { return n != name })
	if !holds || extra {
		err := &TransitionError{
			From:     slices.Clone(froms),
			Expected: []Name{name},
			Actual:   actual,
		}
		m.emit(EventViolation, observability.LevelError, name, map[string]any{
			"from":   names(froms),
			"actual": names(actual),
		})
		return false, err
	}

	if !m.permitted(froms, name) {
		m.emit(EventDenied, observability.LevelInfo, name, map[string]any{
			"from": names(froms),
		})
		return false, nil
	}

	if !m.Container.Commit(string(name), next) {
		return false, nil
	}
	m.emit(EventTransition, observability.LevelInfo, name, map[string]any{
		"from": names(froms),
	})
	return true, nil
}

func (m *Machine[S]) emit(t observability.EventType, level observability.Level, to Name, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["to"] = string(to)
	data["id"] = m.ID()
	m.Observer().OnEvent(context.Background(), observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    m.Name(),
		Data:      data,
	})
}

func names(ns []Name) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = string(n)
	}
	return out
}
