package demo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tailored-agentic-units/statetree/container"
	"github.com/tailored-agentic-units/statetree/demo"
	"github.com/tailored-agentic-units/statetree/record"
	"github.com/tailored-agentic-units/statetree/scoped"
)

type failingAuth struct {
	err error
}

func (f failingAuth) Authenticate(context.Context, string) (record.Record, error) {
	return record.Record{}, f.err
}

func newApp(t *testing.T, auth demo.Authenticator) *demo.App {
	t.Helper()

	io := container.IO{}
	if auth != nil {
		io["session"] = container.IO{demo.AuthKey: auth}
	}

	app, err := demo.NewApp(demo.AppState{}, container.WithName("app"), container.WithIO(io))
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	return app
}

func TestApp_Modules(t *testing.T) {
	app := newApp(t, nil)

	if diff := cmp.Diff([]string{"counter", "todos", "session"}, app.Modules()); diff != "" {
		t.Errorf("Modules() mismatch (-want +got):\n%s", diff)
	}
	if app.Todos.Name() != "todos" || app.Todos.Depth() != 1 {
		t.Errorf("todos name = %q depth = %d", app.Todos.Name(), app.Todos.Depth())
	}
}

func TestApp_NotificationScenario(t *testing.T) {
	app := newApp(t, nil)

	var root, todos, counter int
	app.OnStateChange(func(container.Change[demo.AppState]) { root++ })
	app.Todos.OnStateChange(func(container.Change[demo.TodosState]) { todos++ })
	app.Counter.OnStateChange(func(container.Change[demo.CounterState]) { counter++ })

	app.Todos.Add("write tests")

	if root != 1 || todos != 1 || counter != 0 {
		t.Errorf("notifications root=%d todos=%d counter=%d, want 1 1 0", root, todos, counter)
	}
}

func TestTodos(t *testing.T) {
	app := newApp(t, nil)
	todos := app.Todos

	if todos.Add("   ") {
		t.Error("Add(blank) = true")
	}
	todos.Add("a")
	todos.Add("b")
	todos.Add("c")

	if !todos.Toggle(2) {
		t.Fatal("Toggle(2) = false")
	}
	if todos.Toggle(99) {
		t.Error("Toggle(missing) = true")
	}

	want := []demo.Todo{{ID: 1, Text: "a"}, {ID: 3, Text: "c"}}
	if diff := cmp.Diff(want, todos.Open()); diff != "" {
		t.Errorf("Open() mismatch (-want +got):\n%s", diff)
	}

	if !todos.CompleteAll() {
		t.Fatal("CompleteAll() = false")
	}
	if todos.CompleteAll() {
		t.Error("CompleteAll() with nothing open = true")
	}
	for _, todo := range todos.State().List {
		if !todo.Done {
			t.Errorf("todo %d not done", todo.ID)
		}
	}

	todos.Toggle(1)
	if !todos.ClearDone() {
		t.Fatal("ClearDone() = false")
	}
	if diff := cmp.Diff([]demo.Todo{{ID: 1, Text: "a"}}, todos.State().List); diff != "" {
		t.Errorf("after ClearDone mismatch (-want +got):\n%s", diff)
	}

	if !todos.Remove(1) || todos.Remove(1) {
		t.Error("Remove() should succeed once")
	}
	todos.Add("d")
	if got := todos.State().List[0].ID; got != 4 {
		t.Errorf("next id = %d, want 4", got)
	}
}

func TestSession_Login(t *testing.T) {
	app := newApp(t, demo.LocalAuth{})
	s := app.Session

	if !s.Is(demo.SignedOut) {
		t.Fatalf("initial Matching() = %v", s.Matching())
	}

	var actions []string
	s.OnStateChange(func(ch container.Change[demo.SessionState]) {
		actions = append(actions, ch.Action)
	})

	ok, err := s.Login(context.Background(), "jane")
	if err != nil || !ok {
		t.Fatalf("Login() = %v, %v", ok, err)
	}
	if s.User() != "jane" || !s.Is(demo.SignedIn) {
		t.Errorf("User() = %q, Matching() = %v", s.User(), s.Matching())
	}
	if _, ok := s.State().Profile.GetSecret("token"); !ok {
		t.Error("profile has no token secret")
	}

	if ok, err := s.Login(context.Background(), "mike"); ok || err != nil {
		t.Errorf("second Login() = %v, %v, want false, nil", ok, err)
	}

	if ok, err := s.Logout(); !ok || err != nil {
		t.Fatalf("Logout() = %v, %v", ok, err)
	}

	want := []string{string(demo.SigningIn), string(demo.SignedIn), string(demo.SignedOut)}
	if diff := cmp.Diff(want, actions); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_LoginFailure(t *testing.T) {
	authErr := errors.New("denied")

	tests := []struct {
		name    string
		auth    demo.Authenticator
		user    string
		wantErr error
	}{
		{name: "authenticator error", auth: failingAuth{err: authErr}, user: "jane", wantErr: authErr},
		{name: "no authenticator", auth: nil, user: "jane", wantErr: demo.ErrNoAuthenticator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newApp(t, tt.auth).Session

			ok, err := s.Login(context.Background(), tt.user)
			if ok || !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() = %v, %v, want false, %v", ok, err, tt.wantErr)
			}
			if diff := cmp.Diff([]string{string(demo.SignedOut)}, names(s.Matching())); diff != "" {
				t.Errorf("Matching() mismatch (-want +got):\n%s", diff)
			}
			if s.State().Error != tt.wantErr.Error() {
				t.Errorf("Error = %q, want %q", s.State().Error, tt.wantErr.Error())
			}
		})
	}
}

func TestLocalAuth(t *testing.T) {
	if _, err := (demo.LocalAuth{}).Authenticate(context.Background(), " "); err == nil {
		t.Error("Authenticate(blank) error = nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (demo.LocalAuth{Delay: 1 << 30}).Authenticate(ctx, "jane"); !errors.Is(err, context.Canceled) {
		t.Errorf("Authenticate(canceled) error = %v", err)
	}
}

func TestApp_Summary(t *testing.T) {
	app := newApp(t, demo.LocalAuth{})
	view := app.Summary()

	var seen []demo.Summary
	view.Subscribe(func(s demo.Summary, action string) {
		seen = append(seen, s)
	})

	progress, ok := scoped.Lookup[[2]int](view, "progress")
	if !ok {
		t.Fatal("Lookup(progress) failed")
	}
	var progressed [][2]int
	progress.Subscribe(func(p [2]int, action string) {
		progressed = append(progressed, p)
	})

	view.Dispatch("todos.add", "a")
	view.Dispatch("counter.increment", nil)
	view.Dispatch("todos.toggle", 1)
	view.Dispatch("session.login", "jane")

	want := []demo.Summary{
		{Open: 1, Total: 1},
		{Count: 1, Open: 1, Total: 1},
		{Count: 1, Open: 0, Total: 1},
		{Count: 1, Open: 0, Total: 1, User: "jane"},
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("summaries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][2]int{{0, 1}, {1, 1}}, progressed); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}

func TestApp_Dispatch(t *testing.T) {
	app := newApp(t, demo.LocalAuth{})

	tests := []struct {
		action  string
		payload any
		want    bool
	}{
		{action: "counter.increment", want: true},
		{action: "counter.decrement", want: true},
		{action: "counter.reset", want: false},
		{action: "todos.add", payload: 1, want: false},
		{action: "todos.add", payload: "x", want: true},
		{action: "todos.toggle", payload: 1, want: true},
		{action: "todos.clear_done", want: true},
		{action: "todos.complete_all", want: false},
		{action: "todos.remove", payload: 1, want: false},
		{action: "session.logout", want: false},
		{action: "session.login", payload: "jane", want: true},
		{action: "session.logout", want: true},
		{action: "unknown", want: false},
	}

	for _, tt := range tests {
		if got := app.Dispatch(tt.action, tt.payload); got != tt.want {
			t.Errorf("Dispatch(%q, %v) = %v, want %v", tt.action, tt.payload, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	app := newApp(t, nil)

	var got []string
	app.OnStateChange(func(ch container.Change[demo.AppState]) {
		got = append(got, demo.Describe(ch))
	})

	app.Counter.Increment()
	app.Commit("load", demo.AppState{})

	if diff := cmp.Diff([]string{"counter/increment", "load"}, got); diff != "" {
		t.Errorf("Describe() mismatch (-want +got):\n%s", diff)
	}
}

func names[N ~string](ns []N) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = string(n)
	}
	return out
}
