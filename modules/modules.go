// Package modules composes a parent container from named child containers,
// each focused on the parent state property of the same name.
//
//	type AppState struct {
//	    Todos   TodosState   `statetree:"todos"`
//	    Session SessionState `statetree:"session"`
//	}
//
//	type App struct {
//	    *container.Container[AppState]
//	    Todos   *Todos
//	    Session *Session
//	}
//
//	func NewApp(initial AppState, opts ...container.Option) (*App, error) {
//	    app := &App{Container: container.New(initial, opts...)}
//	    _, err := modules.Mount(app.Container,
//	        modules.Bind[AppState]("todos", &app.Todos, NewTodos),
//	        modules.Bind[AppState]("session", &app.Session, NewSession),
//	    )
//	    return app, err
//	}
package modules

import (
	"fmt"
	"slices"

	"github.com/tailored-agentic-units/statetree/container"
	"github.com/tailored-agentic-units/statetree/optic"
)

// Module attaches one named child to a parent of state P.
type Module[P any] interface {
	Name() string
	mount(parent *container.Container[P]) (container.Ref, error)
}

type binding[P, C any, T container.Node[C]] struct {
	name string
	dst  *T
	ctor func(C, ...container.Option) T
	opts []container.Option
}

// Bind describes a child built by ctor over the property name of P and
// stored in *dst once mounted. opts are applied after the defaults, which
// name the child after the property and hand it parent.IO()[name].
func Bind[P, C any, T container.Node[C]](name string, dst *T, ctor func(C, ...container.Option) T, opts ...container.Option) Module[P] {
	return &binding[P, C, T]{name: name, dst: dst, ctor: ctor, opts: opts}
}

func (b *binding[P, C, T]) Name() string { return b.name }

func (b *binding[P, C, T]) mount(parent *container.Container[P]) (container.Ref, error) {
	lens, err := optic.Prop[P, C](b.name)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", b.name, err)
	}

	opts := make([]container.Option, 0, len(b.opts)+2)
	opts = append(opts, container.WithName(b.name), container.WithIO(IOFor(parent.IO(), b.name)))
	opts = append(opts, b.opts...)

	child, err := container.Create(parent, lens, b.ctor, opts...)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", b.name, err)
	}

	if b.dst != nil {
		*b.dst = child
	}
	if r, ok := any(child).(container.Readier); ok {
		parent.DependOn(r)
	}
	return child, nil
}

// IOFor extracts the IO meant for the module called name from a parent IO
// bag. Entries may be container.IO or plain map[string]any.
func IOFor(io container.IO, name string) container.IO {
	switch v := io[name].(type) {
	case container.IO:
		return v
	case map[string]any:
		return container.IO(v)
	}
	return nil
}

// Registry indexes mounted children by module name.
type Registry struct {
	names []string
	nodes map[string]container.Ref
}

// Mount attaches every module to parent in order. The parent's Ready then
// waits for each child's Ready before running its own init hook.
func Mount[P any](parent *container.Container[P], mods ...Module[P]) (*Registry, error) {
	reg := &Registry{nodes: make(map[string]container.Ref, len(mods))}

	for _, mod := range mods {
		name := mod.Name()
		if _, exists := reg.nodes[name]; exists {
			return nil, fmt.Errorf("module %s mounted twice on %s", name, parent.Name())
		}

		node, err := mod.mount(parent)
		if err != nil {
			return nil, err
		}

		reg.names = append(reg.names, name)
		reg.nodes[name] = node
	}

	return reg, nil
}

// Get returns the child mounted as name.
func (r *Registry) Get(name string) (container.Ref, bool) {
	node, ok := r.nodes[name]
	return node, ok
}

// Names lists module names in mount order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}
