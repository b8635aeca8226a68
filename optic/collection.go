package optic

import (
	"cmp"
	"slices"
)

// Find focuses the first element matching pred. When nothing matches, Get
// returns the zero value and Set returns the original slice.
func Find[T any](pred func(T) bool) Lens[[]T, T] {
	return Lens[[]T, T]{
		Get: func(s []T) T {
			i := slices.IndexFunc(s, pred)
			if i == -1 {
				var zero T
				return zero
			}
			return s[i]
		},
		Set: func(v T, s []T) []T {
			i := slices.IndexFunc(s, pred)
			if i == -1 {
				return s
			}
			out := slices.Clone(s)
			out[i] = v
			return out
		},
	}
}

// Filter focuses the subsequence of elements matching pred. Set writes the
// replacement back index for index and panics with *LengthError when its
// length differs from the number of matches.
func Filter[T any](pred func(T) bool) Lens[[]T, []T] {
	return Lens[[]T, []T]{
		Get: func(s []T) []T {
			indexes := matchingIndexes(s, pred)
			out := make([]T, len(indexes))
			for i, idx := range indexes {
				out[i] = s[idx]
			}
			return out
		},
		Set: func(v []T, s []T) []T {
			indexes := matchingIndexes(s, pred)
			if len(indexes) == 0 && len(v) == 0 {
				return s
			}
			return scatter("filter", s, indexes, v)
		},
	}
}

// Sort focuses the elements in ascending order by < and >. Values that are
// neither, such as NaN against anything, compare equal and keep their
// relative order. See SortFunc.
func Sort[T cmp.Ordered]() Lens[[]T, []T] {
	return SortFunc(ascending[T])
}

func ascending[T cmp.Ordered](a, b T) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

// SortFunc focuses a stably sorted copy of the elements. Set takes values in
// sorted order and writes each one back to the original index of the element
// it replaces, so the underlying order is preserved. A replacement of a
// different length panics with *LengthError.
func SortFunc[T any](compare func(a, b T) int) Lens[[]T, []T] {
	type entry struct {
		index int
		value T
	}

	sorted := func(s []T) []entry {
		entries := make([]entry, len(s))
		for i, v := range s {
			entries[i] = entry{index: i, value: v}
		}
		slices.SortStableFunc(entries, func(a, b entry) int {
			return compare(a.value, b.value)
		})
		return entries
	}

	return Lens[[]T, []T]{
		Get: func(s []T) []T {
			entries := sorted(s)
			out := make([]T, len(entries))
			for i, e := range entries {
				out[i] = e.value
			}
			return out
		},
		Set: func(v []T, s []T) []T {
			entries := sorted(s)
			indexes := make([]int, len(entries))
			for i, e := range entries {
				indexes[i] = e.index
			}
			return scatter("sort", s, indexes, v)
		},
	}
}

func matchingIndexes[T any](s []T, pred func(T) bool) []int {
	var indexes []int
	for i, v := range s {
		if pred(v) {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

func scatter[T any](lens string, s []T, indexes []int, values []T) []T {
	if len(values) != len(indexes) {
		panic(&LengthError{Lens: lens, Want: len(indexes), Got: len(values)})
	}
	out := slices.Clone(s)
	for i, idx := range indexes {
		out[idx] = values[i]
	}
	return out
}
