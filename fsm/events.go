package fsm

import "github.com/tailored-agentic-units/statetree/observability"

const (
	EventTransition observability.EventType = "fsm.transition"
	EventDenied     observability.EventType = "fsm.denied"
	EventViolation  observability.EventType = "fsm.violation"
)
