package container

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/statetree/identity"
	"github.com/tailored-agentic-units/statetree/observability"
	"github.com/tailored-agentic-units/statetree/signal"
)

const defaultName = "container"

// Ref identifies a node independently of its state type.
type Ref interface {
	ID() string
	Name() string
	Depth() int
}

// Change is delivered to listeners after a commit changed the listener's
// view. Target is the node Commit was called on; CurrentTarget is the node
// the listener is registered on.
type Change[S any] struct {
	State         S
	Action        string
	Target        Ref
	CurrentTarget Ref
}

// Readier is anything that can be awaited by Ready.
type Readier interface {
	Ready(ctx context.Context) error
}

type broadcast struct {
	action string
	target Ref
}

// tree is the state shared by every node under one root.
type tree struct {
	broadcaster *signal.Signal[broadcast]
	version     atomic.Uint64
}

// Container is a node of a state tree. A root owns the canonical state; a
// child reads and writes its slice of the root through a lens and never
// stores it.
//
// Containers are not safe for concurrent use.
type Container[S any] struct {
	id       string
	name     string
	depth    int
	io       IO
	observer observability.Observer
	metrics  *Metrics
	tree     *tree
	equal    func(a, b S) bool

	// root only
	state S
	hook  func(S) S

	// child only
	link   *link[S]
	view   func() S
	last   S
	detach func() bool

	changed *signal.Signal[Change[S]]

	init      func(ctx context.Context) error
	deps      []Readier
	readyMu   sync.Mutex
	readyDone bool
	readyErr  error
}

// New builds a root container holding initial. When opts carry the link
// produced by Create, New builds a child of the linked parent instead.
//
// New panics if a typed option (WithEqual, WithWriteHook) was instantiated
// for a state type other than S.
func New[S any](initial S, opts ...Option) *Container[S] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container[S]{
		id:      uuid.Must(uuid.NewV7()).String(),
		name:    o.name,
		metrics: NewMetrics(),
		equal:   typed[func(a, b S) bool](o.equal, "WithEqual"),
		changed: signal.New[Change[S]](),
		init:    o.init,
	}
	if c.name == "" {
		c.name = defaultName
	}
	if c.equal == nil {
		c.equal = identity.Equal[S]
	}

	if o.link == nil {
		c.newRoot(initial, o)
	} else {
		c.newChild(initial, typed[*link[S]](o.link, "link"), o)
	}

	c.emit(EventCreate, observability.LevelVerbose, map[string]any{
		"depth": c.depth,
	})

	return c
}

func (c *Container[S]) newRoot(initial S, o options) {
	c.tree = &tree{broadcaster: signal.New[broadcast]()}
	c.io = maps.Clone(o.io)
	if c.io == nil {
		c.io = IO{}
	}
	c.observer = o.observer
	if c.observer == nil {
		c.observer = observability.NoOpObserver{}
	}
	c.hook = typed[func(S) S](o.hook, "WithWriteHook")
	if c.hook == nil {
		c.hook = func(s S) S { return s }
	}
	c.state = c.hook(initial)
}

func (c *Container[S]) newChild(initial S, l *link[S], o options) {
	c.link = l
	c.tree = l.tree
	c.depth = l.depth
	c.view = l.get

	c.io = maps.Clone(l.io)
	if c.io == nil {
		c.io = IO{}
	}
	maps.Copy(c.io, o.io)

	c.observer = o.observer
	if c.observer == nil {
		c.observer = l.observer
	}

	c.last = initial
	if !c.equal(initial, c.State()) {
		c.write(initial, "new "+c.name, c)
	}
}

// State returns the current state. On a child it is the parent's state seen
// through the lens, recomputed only when the parent's state changed.
func (c *Container[S]) State() S {
	if c.link == nil {
		return c.state
	}
	return c.view()
}

// Commit replaces the node's state with next and notifies listeners whose
// view changed. It returns false, doing nothing, when next is identical to
// the current state.
func (c *Container[S]) Commit(action string, next S) bool {
	if c.equal(next, c.State()) {
		c.metrics.RecordNoop(1)
		c.emit(EventNoop, observability.LevelVerbose, map[string]any{
			"action": action,
		})
		return false
	}

	c.metrics.RecordCommit(1)
	c.write(next, action, c)
	return true
}

func (c *Container[S]) write(next S, action string, target Ref) {
	if c.link != nil {
		c.link.lift(next, action, target)
		return
	}

	c.state = c.hook(next)
	version := c.tree.version.Add(1)

	c.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventCommit,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    target.Name(),
		Data: map[string]any{
			"action":    action,
			"version":   version,
			"target_id": target.ID(),
			"depth":     target.Depth(),
		},
	})

	if c.tree.broadcaster.HasListeners() {
		c.tree.broadcaster.Dispatch(broadcast{action: action, target: target})
	}

	if c.changed.HasListeners() {
		c.notify(action, target)
	}
}

// OnStateChange registers listener and returns a function removing it.
//
// A child subscribes to the root broadcaster while it has at least one
// listener, at a priority equal to its depth, so deeper nodes hear about a
// commit before their ancestors do.
func (c *Container[S]) OnStateChange(listener func(Change[S])) func() bool {
	if c.link == nil {
		return c.changed.Subscribe(listener, 0)
	}

	if c.detach == nil {
		c.last = c.State()
		c.detach = c.tree.broadcaster.Subscribe(c.relay, c.depth)
		c.emit(EventRelayAttach, observability.LevelVerbose, map[string]any{
			"priority": c.depth,
		})
	}

	unsubscribe := c.changed.Subscribe(listener, 0)

	return func() bool {
		removed := unsubscribe()
		if c.detach != nil && !c.changed.HasListeners() {
			c.detach()
			c.detach = nil
			c.emit(EventRelayDetach, observability.LevelVerbose, nil)
		}
		return removed
	}
}

func (c *Container[S]) relay(b broadcast) {
	current := c.State()
	if c.equal(current, c.last) {
		return
	}
	c.last = current
	c.notify(b.action, b.target)
}

func (c *Container[S]) notify(action string, target Ref) {
	c.metrics.RecordNotification(1)
	c.changed.Dispatch(Change[S]{
		State:         c.State(),
		Action:        action,
		Target:        target,
		CurrentTarget: c,
	})
}

// DependOn makes Ready await r before running this node's init hook.
func (c *Container[S]) DependOn(r Readier) {
	c.deps = append(c.deps, r)
}

// Ready awaits every dependency registered with DependOn, then runs the
// WithInit hook. Once that completes, successfully or not, later calls
// return the same result. A call cut short by ctx is not remembered, so
// Ready can be retried with a fresh context.
func (c *Container[S]) Ready(ctx context.Context) error {
	c.readyMu.Lock()
	defer c.readyMu.Unlock()

	if c.readyDone {
		return c.readyErr
	}

	err := c.runReady(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}

	c.readyDone = true
	c.readyErr = err
	return err
}

func (c *Container[S]) runReady(ctx context.Context) error {
	for _, dep := range c.deps {
		if err := dep.Ready(ctx); err != nil {
			if ref, ok := dep.(Ref); ok {
				return fmt.Errorf("%s not ready: %w", ref.Name(), err)
			}
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if c.init != nil {
		if err := c.init(ctx); err != nil {
			return fmt.Errorf("init %s: %w", c.name, err)
		}
	}
	return nil
}

// Same reports whether a and b are identical under the node's equality,
// the relation Commit uses to detect no-ops.
func (c *Container[S]) Same(a, b S) bool {
	return c.equal(a, b)
}

func (c *Container[S]) ID() string   { return c.id }
func (c *Container[S]) Name() string { return c.name }
func (c *Container[S]) Depth() int   { return c.depth }

// IO returns the node's effect bag.
func (c *Container[S]) IO() IO { return c.io }

// Observer returns the observer events are emitted to.
func (c *Container[S]) Observer() observability.Observer { return c.observer }

// Version counts successful writes to the root since construction.
func (c *Container[S]) Version() uint64 {
	return c.tree.version.Load()
}

// Metrics returns a snapshot of this node's counters.
func (c *Container[S]) Metrics() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// HasListeners reports whether anything is subscribed to this node. On a
// root this includes the relays of subscribed children.
func (c *Container[S]) HasListeners() bool {
	if c.link == nil && c.tree.broadcaster.HasListeners() {
		return true
	}
	return c.changed.HasListeners()
}

func (c *Container[S]) node() *Container[S] { return c }

func (c *Container[S]) emit(t observability.EventType, level observability.Level, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["id"] = c.id
	c.observer.OnEvent(context.Background(), observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    c.name,
		Data:      data,
	})
}
