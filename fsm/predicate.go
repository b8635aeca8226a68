package fsm

// Predicate reports whether a value is in some state. State.Is fields take
// any func(S) bool; Predicate only names the type for the combinators.
type Predicate[S any] func(S) bool

// Always holds for every value.
func Always[S any]() Predicate[S] {
	return func(S) bool { return true }
}

// Not inverts p.
//
//	disconnected := fsm.Not(connected)
func Not[S any](p Predicate[S]) Predicate[S] {
	return func(s S) bool {
		return !p(s)
	}
}

// And holds when every predicate holds.
//
//	ready := fsm.And(connected, fsm.Not(syncing))
func And[S any](predicates ...Predicate[S]) Predicate[S] {
	return func(s S) bool {
		for _, p := range predicates {
			if !p(s) {
				return false
			}
		}
		return true
	}
}

// Or holds when at least one predicate holds.
func Or[S any](predicates ...Predicate[S]) Predicate[S] {
	return func(s S) bool {
		for _, p := range predicates {
			if p(s) {
				return true
			}
		}
		return false
	}
}
