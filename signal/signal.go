// Package signal provides a synchronous, priority ordered broadcaster.
//
// Handlers run on the dispatching goroutine in descending priority order.
// Handlers sharing a priority run in the order they subscribed. A Signal is
// not safe for concurrent use.
package signal

import "slices"

type subscription[T any] struct {
	handler  func(T)
	priority int
}

// Signal broadcasts values of type T to its subscribers.
//
// The zero value is ready to use.
type Signal[T any] struct {
	subs []*subscription[T]
}

// New returns an empty Signal.
func New[T any]() *Signal[T] {
	return &Signal[T]{}
}

// Subscribe registers handler at the given priority and returns a function
// that removes it. The returned function reports true the first time it
// removes the handler and false on every later call.
func (s *Signal[T]) Subscribe(handler func(T), priority int) func() bool {
	sub := &subscription[T]{handler: handler, priority: priority}

	// Insert after every subscription of equal or higher priority. The
	// slice is replaced rather than grown in place so an in-flight Dispatch
	// keeps iterating its own snapshot.
	at := len(s.subs)
	for i, existing := range s.subs {
		if existing.priority < priority {
			at = i
			break
		}
	}
	s.subs = slices.Insert(slices.Clip(s.subs), at, sub)

	return func() bool {
		i := slices.Index(s.subs, sub)
		if i == -1 {
			return false
		}
		s.subs = slices.Delete(slices.Clone(s.subs), i, i+1)
		return true
	}
}

// Dispatch calls every handler subscribed when Dispatch starts. Handlers
// added or removed by a handler take effect on the next Dispatch.
func (s *Signal[T]) Dispatch(v T) {
	for _, sub := range s.subs {
		sub.handler(v)
	}
}

// HasListeners reports whether any handler is subscribed.
func (s *Signal[T]) HasListeners() bool {
	return len(s.subs) > 0
}

// Len returns the number of subscribed handlers.
func (s *Signal[T]) Len() int {
	return len(s.subs)
}
