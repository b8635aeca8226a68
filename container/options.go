package container

import (
	"context"
	"fmt"
	"maps"

	"github.com/tailored-agentic-units/statetree/config"
	"github.com/tailored-agentic-units/statetree/observability"
)

// IO is the effect bag handed to every container. The tree never reads it;
// methods on user types use it to reach clients, clocks and the like before
// they commit. Treat it as read-only once constructed.
type IO map[string]any

// Option configures a container built by New.
type Option func(*options)

type options struct {
	name     string
	io       IO
	observer observability.Observer
	init     func(ctx context.Context) error

	// Typed per state; checked by New.
	equal any
	hook  any
	link  any
}

// WithName sets the node name used in actions, events and errors.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithIO merges io over the IO inherited from the parent.
func WithIO(io IO) Option {
	return func(o *options) {
		if o.io == nil {
			o.io = IO{}
		}
		maps.Copy(o.io, io)
	}
}

// WithObserver sets the observer for a root and every node created beneath
// it. On a child it overrides the inherited observer for that node only.
func WithObserver(observer observability.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithInit registers the hook run by Ready.
func WithInit(fn func(ctx context.Context) error) Option {
	return func(o *options) {
		o.init = fn
	}
}

// WithEqual replaces the reference identity relation used to detect
// no-op commits and unchanged views.
func WithEqual[S any](equal func(a, b S) bool) Option {
	return func(o *options) {
		o.equal = equal
	}
}

// WithWriteHook installs a hook applied to the initial root state and to
// every state the root stores afterwards. Typical hooks deep-copy or
// validate the value. It has no effect on child containers.
func WithWriteHook[S any](hook func(S) S) Option {
	return func(o *options) {
		o.hook = hook
	}
}

// FromConfig translates a tree configuration into options. The observer is
// resolved by name through the observability registry.
func FromConfig(cfg config.TreeConfig) ([]Option, error) {
	var opts []Option

	if cfg.Name != "" {
		opts = append(opts, WithName(cfg.Name))
	}

	if cfg.Observer != "" {
		observer, err := observability.GetObserver(cfg.Observer)
		if err != nil {
			return nil, fmt.Errorf("resolve observer: %w", err)
		}
		opts = append(opts, WithObserver(observer))
	}

	return opts, nil
}

func typed[F any](v any, option string) F {
	var zero F
	if v == nil {
		return zero
	}
	fn, ok := v.(F)
	if !ok {
		panic(fmt.Sprintf("container: %s option has type %T, want %T", option, v, zero))
	}
	return fn
}
