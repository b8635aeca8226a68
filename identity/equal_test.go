package identity_test

import (
	"math"
	"testing"

	"github.com/tailored-agentic-units/statetree/identity"
)

type todo struct {
	ID   int
	Text string
}

type todosState struct {
	List   []todo
	Filter string
}

func TestEqual_Scalars(t *testing.T) {
	if !identity.Equal(1, 1) {
		t.Error("Equal(1, 1) = false, want true")
	}
	if identity.Equal(1, 2) {
		t.Error("Equal(1, 2) = true, want false")
	}
	if !identity.Equal("a", "a") {
		t.Error(`Equal("a", "a") = false, want true`)
	}
	if identity.Equal(math.NaN(), math.NaN()) {
		t.Error("Equal(NaN, NaN) = true, want false")
	}
}

func TestEqual_Slices(t *testing.T) {
	list := []todo{{ID: 1}, {ID: 2}}
	copied := append([]todo(nil), list...)

	tests := []struct {
		name string
		a, b []todo
		want bool
	}{
		{name: "same slice", a: list, b: list, want: true},
		{name: "copy with same content", a: list, b: copied, want: false},
		{name: "shorter reslice", a: list, b: list[:1], want: false},
		{name: "both nil", a: nil, b: nil, want: true},
		{name: "nil and empty", a: nil, b: []todo{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := identity.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual_Structs(t *testing.T) {
	list := []todo{{ID: 1}}
	s1 := todosState{List: list, Filter: "all"}
	s2 := todosState{List: list, Filter: "all"}
	s3 := todosState{List: []todo{{ID: 1}}, Filter: "all"}

	if !identity.Equal(s1, s2) {
		t.Error("structs sharing the same slice should be equal")
	}
	if identity.Equal(s1, s3) {
		t.Error("structs with distinct slices should not be equal")
	}
}

func TestEqual_MapsAndPointers(t *testing.T) {
	m := map[string]int{"a": 1}
	if !identity.Equal(m, m) {
		t.Error("same map should be equal")
	}
	if identity.Equal(m, map[string]int{"a": 1}) {
		t.Error("distinct maps should not be equal")
	}

	p := &todo{ID: 1}
	if !identity.Equal(p, p) {
		t.Error("same pointer should be equal")
	}
	if identity.Equal(p, &todo{ID: 1}) {
		t.Error("distinct pointers should not be equal")
	}
}

func TestEqual_Interfaces(t *testing.T) {
	var a, b any = 1, 1
	if !identity.Equal(a, b) {
		t.Error("boxed equal ints should be equal")
	}

	a, b = 1, "1"
	if identity.Equal(a, b) {
		t.Error("different dynamic types should not be equal")
	}

	a, b = nil, nil
	if !identity.Equal(a, b) {
		t.Error("nil interfaces should be equal")
	}
}

func TestMemoize(t *testing.T) {
	calls := 0
	double := identity.Memoize(func(xs []int) []int {
		calls++
		out := make([]int, len(xs))
		for i, x := range xs {
			out[i] = x * 2
		}
		return out
	})

	in := []int{1, 2, 3}
	first := double(in)
	second := double(in)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !identity.Equal(first, second) {
		t.Error("memoized result should be identical for identical input")
	}

	double([]int{1, 2, 3})
	if calls != 2 {
		t.Errorf("calls = %d, want 2 after a new input", calls)
	}
}
