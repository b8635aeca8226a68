package scoped

import (
	"maps"
	"slices"

	"github.com/tailored-agentic-units/statetree/identity"
)

// Merge builds a selector that feeds the results of inputs to merge. merge
// only runs again when one of the input results changed, so the merged
// value keeps its identity across unrelated commits.
func Merge[S, I, D any](inputs []func(S) I, merge func([]I) D) func(S) D {
	var (
		initialized bool
		last        []I
		result      D
	)

	return func(s S) D {
		values := make([]I, len(inputs))
		for i, in := range inputs {
			values[i] = in(s)
		}
		if initialized && sameAll(last, values) {
			return result
		}
		initialized = true
		last = values
		result = merge(values)
		return result
	}
}

// Merge2 is Merge for two inputs of different types.
func Merge2[S, A, B, D any](a func(S) A, b func(S) B, merge func(A, B) D) func(S) D {
	var (
		initialized bool
		lastA       A
		lastB       B
		result      D
	)

	return func(s S) D {
		va, vb := a(s), b(s)
		if initialized && identity.Equal(lastA, va) && identity.Equal(lastB, vb) {
			return result
		}
		initialized = true
		lastA, lastB = va, vb
		result = merge(va, vb)
		return result
	}
}

// Combine builds a selector producing a map with one entry per mapping
// key. The map is rebuilt only when an entry changed.
func Combine[S any](mapping map[string]func(S) any) func(S) map[string]any {
	keys := slices.Sorted(maps.Keys(mapping))
	inputs := make([]func(S) any, len(keys))
	for i, k := range keys {
		inputs[i] = mapping[k]
	}

	return Merge(inputs, func(values []any) map[string]any {
		out := make(map[string]any, len(values))
		for i, v := range values {
			out[keys[i]] = v
		}
		return out
	})
}

func sameAll[I any](a, b []I) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !identity.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
