package modules_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tailored-agentic-units/statetree/container"
	"github.com/tailored-agentic-units/statetree/modules"
	"github.com/tailored-agentic-units/statetree/optic"
)

type todosState struct {
	List []string
}

type todos struct {
	*container.Container[todosState]
}

func newTodos(initial todosState, opts ...container.Option) *todos {
	return &todos{container.New(initial, opts...)}
}

func (t *todos) add(text string) {
	t.Commit("add", todosState{List: append(slices.Clip(t.State().List), text)})
}

type counterState struct {
	Count int
}

type counter struct {
	*container.Container[counterState]
}

func newCounter(initial counterState, opts ...container.Option) *counter {
	return &counter{container.New(initial, opts...)}
}

type appState struct {
	Todos   todosState   `statetree:"todos"`
	Counter counterState `statetree:"counter"`
}

type app struct {
	*container.Container[appState]
	todos    *todos
	counter  *counter
	registry *modules.Registry
}

func newApp(initial appState, opts ...container.Option) (*app, error) {
	a := &app{Container: container.New(initial, opts...)}
	reg, err := modules.Mount(a.Container,
		modules.Bind[appState]("todos", &a.todos, newTodos),
		modules.Bind[appState]("counter", &a.counter, newCounter),
	)
	if err != nil {
		return nil, err
	}
	a.registry = reg
	return a, nil
}

func TestMount_NotificationScenario(t *testing.T) {
	a, err := newApp(appState{})
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}

	var rootCalls, todosCalls, counterCalls int
	a.OnStateChange(func(container.Change[appState]) { rootCalls++ })
	a.todos.OnStateChange(func(container.Change[todosState]) { todosCalls++ })
	a.counter.OnStateChange(func(container.Change[counterState]) { counterCalls++ })

	a.todos.add("write docs")

	if rootCalls != 1 || todosCalls != 1 || counterCalls != 0 {
		t.Errorf("notifications root=%d todos=%d counter=%d, want 1 1 0", rootCalls, todosCalls, counterCalls)
	}
	if diff := cmp.Diff([]string{"write docs"}, a.State().Todos.List); diff != "" {
		t.Errorf("root todos mismatch (-want +got):\n%s", diff)
	}
}

func TestMount_Registry(t *testing.T) {
	a, err := newApp(appState{})
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}

	if diff := cmp.Diff([]string{"todos", "counter"}, a.registry.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	node, ok := a.registry.Get("counter")
	if !ok {
		t.Fatal("Get(counter) not found")
	}
	if node.ID() != a.counter.ID() || node.Name() != "counter" || node.Depth() != 1 {
		t.Errorf("Get(counter) = %s@%d", node.Name(), node.Depth())
	}
	if _, ok := a.registry.Get("missing"); ok {
		t.Error("Get(missing) found a module")
	}
}

func TestMount_IO(t *testing.T) {
	io := container.IO{
		"clock":   "wall",
		"todos":   container.IO{"api": "todos-api"},
		"counter": map[string]any{"clock": "fake"},
	}
	a, err := newApp(appState{}, container.WithIO(io))
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}

	if got := a.todos.IO()["api"]; got != "todos-api" {
		t.Errorf("todos api = %v, want todos-api", got)
	}
	if got := a.todos.IO()["clock"]; got != "wall" {
		t.Errorf("todos clock = %v, want inherited wall", got)
	}
	if got := a.counter.IO()["clock"]; got != "fake" {
		t.Errorf("counter clock = %v, want fake", got)
	}
}

func TestMount_ReadyAwaitsChildren(t *testing.T) {
	var order []string
	record := func(name string) container.Option {
		return container.WithInit(func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	root := container.New(appState{}, record("root"))
	var td *todos
	var ct *counter
	_, err := modules.Mount(root,
		modules.Bind[appState]("todos", &td, newTodos, record("todos")),
		modules.Bind[appState]("counter", &ct, newCounter, record("counter")),
	)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	if err := root.Ready(context.Background()); err != nil {
		t.Fatalf("Ready() error = %v", err)
	}
	if diff := cmp.Diff([]string{"todos", "counter", "root"}, order); diff != "" {
		t.Errorf("ready order mismatch (-want +got):\n%s", diff)
	}
}

func TestMount_ChildReadyError(t *testing.T) {
	failure := errors.New("todos backend down")
	root := container.New(appState{}, container.WithInit(func(context.Context) error {
		t.Error("parent init ran after a child failed")
		return nil
	}))

	var td *todos
	_, err := modules.Mount(root, modules.Bind[appState]("todos", &td, newTodos,
		container.WithInit(func(context.Context) error { return failure })))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	if err := root.Ready(context.Background()); !errors.Is(err, failure) {
		t.Errorf("Ready() error = %v, want %v", err, failure)
	}
}

func TestMount_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mount   func(root *container.Container[appState]) error
		wantErr error
	}{
		{
			name: "unknown property",
			mount: func(root *container.Container[appState]) error {
				var c *counter
				_, err := modules.Mount(root, modules.Bind[appState]("clicks", &c, newCounter))
				return err
			},
			wantErr: optic.ErrUnknownProperty,
		},
		{
			name: "constructor drops options",
			mount: func(root *container.Container[appState]) error {
				var c *counter
				broken := func(initial counterState, _ ...container.Option) *counter {
					return &counter{container.New(initial)}
				}
				_, err := modules.Mount(root, modules.Bind[appState]("counter", &c, broken))
				return err
			},
			wantErr: container.ErrNotLinked,
		},
		{
			name: "mounted twice",
			mount: func(root *container.Container[appState]) error {
				var a, b *counter
				_, err := modules.Mount(root,
					modules.Bind[appState]("counter", &a, newCounter),
					modules.Bind[appState]("counter", &b, newCounter),
				)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mount(container.New(appState{}))
			if err == nil {
				t.Fatal("Mount() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Mount() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMount_MapState(t *testing.T) {
	root := container.New(map[string]any{"count": 1})

	type countState = int
	var count *container.Container[countState]
	_, err := modules.Mount(root, modules.Bind[map[string]any]("count", &count, container.New[countState]))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	count.Commit("inc", count.State()+1)
	if got := root.State()["count"]; got != 2 {
		t.Errorf("root count = %v, want 2", got)
	}
}
