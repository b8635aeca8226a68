package container

import "github.com/tailored-agentic-units/statetree/observability"

const (
	// Node lifecycle
	EventCreate observability.EventType = "container.create"

	// Writes
	EventCommit observability.EventType = "container.commit"
	EventNoop   observability.EventType = "container.noop"

	// Relay subscriptions on the root broadcaster
	EventRelayAttach observability.EventType = "relay.attach"
	EventRelayDetach observability.EventType = "relay.detach"
)
