// Package fsm layers named states and guarded transitions over a container.
//
// A state is a predicate over the container's value, not a tag, so several
// states may hold at once. A Definition names the predicates, how to reach
// each state, and which states each one may be entered from:
//
//	def := fsm.Definition[UserState]{
//	    States: map[fsm.Name]fsm.State[UserState]{
//	        "disconnected": {Is: func(s UserState) bool { return s.Profile == nil }},
//	        "connecting":   {Is: func(s UserState) bool { return s.Connecting }},
//	        "connected":    {Is: func(s UserState) bool { return s.Profile != nil }},
//	    },
//	    Transitions: map[fsm.Name][]fsm.Name{
//	        "disconnected": {"connecting"},
//	        "connecting":   {"connected", "disconnected"},
//	        "connected":    {"disconnected"},
//	    },
//	}
//
// # Transitions
//
// Machine.Commit(name, next) checks two things before writing:
//
//   - consistency: the states that become true in next must be exactly the
//     ones the transition claims. A mismatch means the predicates and the
//     transition table disagree, so Commit refuses the write and returns a
//     *TransitionError.
//   - permission: name must be reachable from a state that holds now. A
//     denied transition returns false and changes nothing. This is the
//     normal outcome of a double submit and is not an error.
//
// Consistency is checked first, so a value that contradicts its transition
// is reported even when the transition would also be denied.
//
// Machine.To(name, args...) builds next with the state's Set function and
// then commits it under the same rules.
package fsm
