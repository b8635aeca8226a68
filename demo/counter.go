package demo

import "github.com/tailored-agentic-units/statetree/container"

type CounterState struct {
	Count int `json:"count"`
}

type Counter struct {
	*container.Container[CounterState]
}

func NewCounter(initial CounterState, opts ...container.Option) *Counter {
	return &Counter{container.New(initial, opts...)}
}

func (c *Counter) Increment() bool {
	return c.Commit("increment", CounterState{Count: c.State().Count + 1})
}

func (c *Counter) Decrement() bool {
	return c.Commit("decrement", CounterState{Count: c.State().Count - 1})
}

func (c *Counter) Reset() bool {
	return c.Commit("reset", CounterState{})
}
