package container

import (
	"reflect"
	"strings"

	"github.com/tailored-agentic-units/statetree/identity"
	"github.com/tailored-agentic-units/statetree/observability"
	"github.com/tailored-agentic-units/statetree/optic"
)

// Node is satisfied by *Container[S] and by any type embedding it.
type Node[S any] interface {
	Ref
	State() S
	node() *Container[S]
}

// link carries a child's position in the tree from Create to New.
type link[S any] struct {
	tree     *tree
	depth    int
	io       IO
	observer observability.Observer
	get      func() S
	lift     func(next S, action string, target Ref)
}

func withLink[S any](l *link[S]) Option {
	return func(o *options) {
		o.link = l
	}
}

// Create builds a child of parent focused through lens. The child starts
// from the lens view of the parent's state, named after T unless opts or
// ctor say otherwise, and inherits the parent's IO and observer.
//
// ctor must hand every option it receives to New; a child that ends up
// detached from parent is reported as a *ConstructionError.
func Create[P, C any, T Node[C]](
	parent *Container[P],
	lens optic.Lens[P, C],
	ctor func(initial C, opts ...Option) T,
	opts ...Option,
) (T, error) {
	getter := identity.Memoize(lens.Get)

	l := &link[C]{
		tree:     parent.tree,
		depth:    parent.depth + 1,
		io:       parent.io,
		observer: parent.observer,
		get: func() C {
			return getter(parent.State())
		},
		lift: func(next C, action string, target Ref) {
			parent.write(lens.Set(next, parent.State()), action, target)
		},
	}

	all := make([]Option, 0, len(opts)+2)
	all = append(all, withLink(l), WithName(typeName[T]()))
	all = append(all, opts...)

	child := ctor(getter(parent.State()), all...)

	if !linked(child, l) {
		var zero T
		return zero, &ConstructionError{Child: typeName[T](), Parent: parent.name}
	}
	return child, nil
}

// MustCreate is like Create but panics on error.
func MustCreate[P, C any, T Node[C]](
	parent *Container[P],
	lens optic.Lens[P, C],
	ctor func(initial C, opts ...Option) T,
	opts ...Option,
) T {
	child, err := Create(parent, lens, ctor, opts...)
	if err != nil {
		panic(err)
	}
	return child
}

func typeName[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name, _, _ := strings.Cut(t.Name(), "[")
	if name == "" {
		return defaultName
	}
	return name
}

// linked reports whether child was built by New with l. A user type whose
// embedded *Container was never set counts as unlinked.
func linked[C any, T Node[C]](child T, l *link[C]) (ok bool) {
	if isNil(child) {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return child.node().link == l
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
