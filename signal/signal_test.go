package signal_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tailored-agentic-units/statetree/signal"
)

func TestSignal_PriorityOrder(t *testing.T) {
	tests := []struct {
		name       string
		priorities []int
		want       []int
	}{
		{name: "descending", priorities: []int{2, 1, 0}, want: []int{0, 1, 2}},
		{name: "ascending", priorities: []int{0, 1, 2}, want: []int{2, 1, 0}},
		{name: "ties keep subscription order", priorities: []int{1, 1, 1}, want: []int{0, 1, 2}},
		{name: "mixed", priorities: []int{0, 3, 1, 3, 0}, want: []int{1, 3, 2, 0, 4}},
		{name: "negative", priorities: []int{-1, 0}, want: []int{1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s signal.Signal[string]
			var order []int
			for i, p := range tt.priorities {
				s.Subscribe(func(string) { order = append(order, i) }, p)
			}

			s.Dispatch("x")

			if diff := cmp.Diff(tt.want, order); diff != "" {
				t.Errorf("dispatch order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSignal_DeliversValue(t *testing.T) {
	s := signal.New[int]()
	var got []int
	s.Subscribe(func(v int) { got = append(got, v) }, 0)

	s.Dispatch(1)
	s.Dispatch(2)

	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("received mismatch (-want +got):\n%s", diff)
	}
}

func TestSignal_UnsubscribeIdempotent(t *testing.T) {
	s := signal.New[int]()
	calls := 0
	unsubscribe := s.Subscribe(func(int) { calls++ }, 0)

	if !s.HasListeners() {
		t.Fatal("HasListeners() = false after Subscribe")
	}
	if !unsubscribe() {
		t.Error("first unsubscribe() = false, want true")
	}
	if unsubscribe() {
		t.Error("second unsubscribe() = true, want false")
	}
	if s.HasListeners() {
		t.Error("HasListeners() = true after unsubscribe")
	}

	s.Dispatch(1)
	if calls != 0 {
		t.Errorf("handler called %d times after unsubscribe", calls)
	}
}

func TestSignal_SameHandlerTwice(t *testing.T) {
	s := signal.New[int]()
	calls := 0
	handler := func(int) { calls++ }

	first := s.Subscribe(handler, 0)
	s.Subscribe(handler, 0)

	s.Dispatch(0)
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}

	first()
	s.Dispatch(0)
	if calls != 3 {
		t.Errorf("calls = %d, want 3 after removing one registration", calls)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSignal_DispatchSnapshot(t *testing.T) {
	s := signal.New[int]()
	var order []string

	var removeSecond func() bool
	s.Subscribe(func(int) {
		order = append(order, "first")
		removeSecond()
		s.Subscribe(func(int) { order = append(order, "late") }, 0)
	}, 1)
	removeSecond = s.Subscribe(func(int) { order = append(order, "second") }, 0)

	s.Dispatch(0)

	if diff := cmp.Diff([]string{"first", "second"}, order); diff != "" {
		t.Errorf("first dispatch mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}
