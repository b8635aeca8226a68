package demo

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/statetree/container"
	"github.com/tailored-agentic-units/statetree/modules"
	"github.com/tailored-agentic-units/statetree/optic"
	"github.com/tailored-agentic-units/statetree/record"
	"github.com/tailored-agentic-units/statetree/scoped"
)

type AppState struct {
	Counter CounterState `statetree:"counter" json:"counter"`
	Todos   TodosState   `statetree:"todos" json:"todos"`
	Session SessionState `statetree:"session" json:"session"`
}

// Summary is the scoped projection rendered in the status line.
type Summary struct {
	Count int
	Open  int
	Total int
	User  string
}

func newSummarySelector() *scoped.Selector[AppState, Summary] {
	summarize := scoped.Merge(
		[]func(AppState) any{
			func(s AppState) any { return s.Counter.Count },
			func(s AppState) any { return s.Todos.List },
			func(s AppState) any { return s.Session.Profile },
		},
		func(in []any) Summary {
			list := in[1].([]Todo)
			open := 0
			for _, t := range list {
				if isOpen(t) {
					open++
				}
			}
			return Summary{
				Count: in[0].(int),
				Open:  open,
				Total: len(list),
				User:  optic.View(profileName, in[2].(record.Record)),
			}
		},
	)

	return scoped.Extend(
		scoped.Select("summary", summarize),
		scoped.Select("progress", func(s Summary) [2]int { return [2]int{s.Total - s.Open, s.Total} }),
	)
}

// App is the root of the demo tree.
type App struct {
	*container.Container[AppState]

	Counter *Counter
	Todos   *Todos
	Session *Session

	registry *modules.Registry
	summary  *scoped.View[AppState, Summary]
}

// NewApp builds the tree. IO entries keyed by module name reach that
// module; the session expects an Authenticator under AuthKey.
func NewApp(initial AppState, opts ...container.Option) (*App, error) {
	app := &App{Container: container.New(initial, opts...)}

	reg, err := modules.Mount(app.Container,
		modules.Bind[AppState]("counter", &app.Counter, NewCounter),
		modules.Bind[AppState]("todos", &app.Todos, NewTodos),
		modules.Bind[AppState]("session", &app.Session, NewSession),
	)
	if err != nil {
		return nil, err
	}
	app.registry = reg

	summary, err := scoped.New(newSummarySelector(), scoped.FromContainer[AppState](app), app.Dispatch,
		scoped.WithObserver(app.Observer()))
	if err != nil {
		return nil, err
	}
	app.summary = summary

	return app, nil
}

func (a *App) Modules() []string {
	return a.registry.Names()
}

// Summary returns the scoped summary view. Its "progress" sub-view holds
// done and total todo counts.
func (a *App) Summary() *scoped.View[AppState, Summary] {
	return a.summary
}

// Dispatch routes a named action to the module that handles it. Unknown
// actions and payloads of the wrong type report false.
//
// Actions:
//
//	counter.increment, counter.decrement, counter.reset
//	todos.add (string), todos.toggle (int), todos.remove (int)
//	todos.complete_all, todos.clear_done
//	session.login (string), session.logout
func (a *App) Dispatch(action string, payload any) bool {
	switch action {
	case "counter.increment":
		return a.Counter.Increment()
	case "counter.decrement":
		return a.Counter.Decrement()
	case "counter.reset":
		return a.Counter.Reset()

	case "todos.add":
		text, ok := payload.(string)
		return ok && a.Todos.Add(text)
	case "todos.toggle":
		id, ok := payload.(int)
		return ok && a.Todos.Toggle(id)
	case "todos.remove":
		id, ok := payload.(int)
		return ok && a.Todos.Remove(id)
	case "todos.complete_all":
		return a.Todos.CompleteAll()
	case "todos.clear_done":
		return a.Todos.ClearDone()

	case "session.login":
		user, ok := payload.(string)
		if !ok {
			return false
		}
		done, err := a.Session.Login(context.Background(), user)
		return done && err == nil
	case "session.logout":
		done, err := a.Session.Logout()
		return done && err == nil
	}
	return false
}

// Describe returns the action line shown for a change.
func Describe(ch container.Change[AppState]) string {
	if ch.Target == nil || ch.Target.Depth() == 0 {
		return ch.Action
	}
	return fmt.Sprintf("%s/%s", ch.Target.Name(), ch.Action)
}
