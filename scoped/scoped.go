// Package scoped derives read-only views of a state tree through memoized
// selectors.
package scoped

import (
	"context"
	"maps"
	"time"

	"github.com/tailored-agentic-units/statetree/container"
	"github.com/tailored-agentic-units/statetree/identity"
	"github.com/tailored-agentic-units/statetree/observability"
)

const EventCreate observability.EventType = "scoped.create"

// Source is anything a view can be derived from.
type Source[S any] interface {
	State() S
	Subscribe(listener func(state S, action string)) func() bool
}

// Dispatch forwards an action to whatever owns the source. Views never
// interpret it.
type Dispatch func(action string, payload any) bool

// Scope is the type-erased form of a View, used for sub-views.
type Scope interface {
	Name() string
	Value() any
	Scopes() map[string]Scope
	Dispatch(action string, payload any) bool
}

// Child is a selector that can be attached under a parent producing D.
type Child[D any] interface {
	Name() string
	scope(src Source[D], dispatch Dispatch, o options) (Scope, error)
}

// Selector is a named pure projection from S to D, with optional named
// children projecting further from D.
//
// fn must return identical values for identical input; see New.
type Selector[S, D any] struct {
	name     string
	fn       func(S) D
	children []Child[D]
}

func Select[S, D any](name string, fn func(S) D) *Selector[S, D] {
	return &Selector[S, D]{name: name, fn: fn}
}

func (s *Selector[S, D]) Name() string { return s.name }

// Extend returns a copy of parent with children attached.
func Extend[S, D any](parent *Selector[S, D], children ...Child[D]) *Selector[S, D] {
	ext := *parent
	ext.children = append(append([]Child[D](nil), parent.children...), children...)
	return &ext
}

func (s *Selector[S, D]) scope(src Source[S], dispatch Dispatch, o options) (Scope, error) {
	return newView(s, src, dispatch, o)
}

type Option func(*options)

type options struct {
	observer observability.Observer
}

func WithObserver(observer observability.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// View is a read-only container over a selector. It shares its parent's
// dispatch and mirrors the selector's children as sub-views.
type View[S, D any] struct {
	name     string
	src      Source[S]
	dispatch Dispatch
	selector func(S) D
	scopes   map[string]Scope
}

// New derives a view of src through sel.
//
// The selector is run twice against the current source state first. When
// the results are not identical, New fails with a *SelectorError: a selector
// that allocates on every call would make every notification look like a
// change.
func New[S, D any](sel *Selector[S, D], src Source[S], dispatch Dispatch, opts ...Option) (*View[S, D], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.observer == nil {
		o.observer = observability.NoOpObserver{}
	}
	return newView(sel, src, dispatch, o)
}

func newView[S, D any](sel *Selector[S, D], src Source[S], dispatch Dispatch, o options) (*View[S, D], error) {
	current := src.State()
	if !identity.Equal(sel.fn(current), sel.fn(current)) {
		return nil, &SelectorError{Name: sel.name}
	}

	v := &View[S, D]{
		name:     sel.name,
		src:      src,
		dispatch: dispatch,
		selector: identity.Memoize(sel.fn),
		scopes:   make(map[string]Scope, len(sel.children)),
	}

	for _, child := range sel.children {
		sub, err := child.scope(v, dispatch, o)
		if err != nil {
			return nil, err
		}
		v.scopes[child.Name()] = sub
	}

	o.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventCreate,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    v.name,
		Data:      map[string]any{"scopes": len(v.scopes)},
	})

	return v, nil
}

// State applies the selector to the source's current state. Repeated calls
// against an unchanged source return the cached result.
func (v *View[S, D]) State() D {
	return v.selector(v.src.State())
}

// Subscribe calls listener after a source notification whose projection
// differs from the last one this listener saw.
func (v *View[S, D]) Subscribe(listener func(state D, action string)) func() bool {
	last := v.State()
	return v.src.Subscribe(func(s S, action string) {
		next := v.selector(s)
		if identity.Equal(last, next) {
			return
		}
		last = next
		listener(next, action)
	})
}

func (v *View[S, D]) Name() string { return v.name }
func (v *View[S, D]) Value() any   { return v.State() }

// Scopes returns the sub-views keyed by selector name.
func (v *View[S, D]) Scopes() map[string]Scope {
	return maps.Clone(v.scopes)
}

// Dispatch forwards to the dispatch the view was created with. Without one
// it reports false.
func (v *View[S, D]) Dispatch(action string, payload any) bool {
	if v.dispatch == nil {
		return false
	}
	return v.dispatch(action, payload)
}

// Lookup returns the sub-view called name as a typed source.
func Lookup[D any](parent Scope, name string) (Source[D], bool) {
	sc, ok := parent.Scopes()[name]
	if !ok {
		return nil, false
	}
	src, ok := sc.(Source[D])
	return src, ok
}

// Observable is the part of a container a view needs.
type Observable[S any] interface {
	State() S
	OnStateChange(listener func(container.Change[S])) func() bool
}

// FromContainer adapts a container, or a type embedding one, to Source.
func FromContainer[S any](c Observable[S]) Source[S] {
	return containerSource[S]{c: c}
}

type containerSource[S any] struct {
	c Observable[S]
}

func (s containerSource[S]) State() S { return s.c.State() }

func (s containerSource[S]) Subscribe(listener func(S, string)) func() bool {
	return s.c.OnStateChange(func(ch container.Change[S]) {
		listener(ch.State, ch.Action)
	})
}
