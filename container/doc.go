// Package container implements the state tree: a root Container owning one
// immutable state value, and child containers that address parts of it
// through lenses.
//
// User types embed *Container and add methods that compute the next state
// and Commit it:
//
//	type Counter struct {
//	    *container.Container[CounterState]
//	}
//
//	func NewCounter(initial CounterState, opts ...container.Option) *Counter {
//	    return &Counter{container.New(initial, opts...)}
//	}
//
//	func (c *Counter) Increment() {
//	    c.Commit("increment", CounterState{Count: c.State().Count + 1})
//	}
//
// The same constructor serves as a root or, through Create, as a child:
//
//	app := container.New(AppState{})
//	counter, err := container.Create(app, optic.MustProp[AppState, CounterState]("counter"), NewCounter)
//
// # Commits
//
// Commit on a child lifts the new value through each lens up to the root,
// which stores it, bumps the tree version and broadcasts. A commit whose
// value is identical to the current state is ignored. Identity follows
// identity.Equal unless WithEqual says otherwise.
//
// # Notification order
//
// Each subscribed child relays the root broadcast at a priority equal to its
// depth and forwards it to its own listeners only when its view changed.
// For one commit, listeners on deeper nodes therefore run before listeners on
// their ancestors, and the root's own listeners run last.
//
// # Concurrency
//
// A tree is not safe for concurrent use. Commit, State and OnStateChange must
// be called from one goroutine at a time, and listeners run synchronously
// inside Commit. Metrics and Version may be read from any goroutine.
package container
