package optic

// Lens focuses a part A of a larger value S through a pure get/set pair.
//
// Lenses must satisfy two laws:
//   - Get(Set(a, s)) returns a
//   - Set(Get(s), s) returns s or an equivalent copy
//
// Partial lenses only keep the first law while their focus exists. Index
// out of range and Find with no match read the zero value and return s
// unchanged from Set, so Get(Set(a, s)) is the zero value there.
type Lens[S, A any] struct {
	Get func(s S) A
	Set func(a A, s S) S
}

// View reads the focus of l in s.
func View[S, A any](l Lens[S, A], s S) A {
	return l.Get(s)
}

// Set replaces the focus of l in s with a and returns the updated whole.
func Set[S, A any](l Lens[S, A], a A, s S) S {
	return l.Set(a, s)
}

// Over applies fn to the focus of l in s.
func Over[S, A any](l Lens[S, A], fn func(A) A, s S) S {
	return l.Set(fn(l.Get(s)), s)
}

// Compose focuses inner through outer. Get chains outer then inner; Set writes
// the inner result back into the outer focus.
func Compose[S, B, A any](outer Lens[S, B], inner Lens[B, A]) Lens[S, A] {
	return Lens[S, A]{
		Get: func(s S) A {
			return inner.Get(outer.Get(s))
		},
		Set: func(a A, s S) S {
			return outer.Set(inner.Set(a, outer.Get(s)), s)
		},
	}
}

// Identity focuses the whole value.
func Identity[S any]() Lens[S, S] {
	return Lens[S, S]{
		Get: func(s S) S { return s },
		Set: func(a S, _ S) S { return a },
	}
}

// Key focuses the entry k of a map. Set clones the map before writing.
// Reading a missing key returns the zero value.
func Key[K comparable, V any](k K) Lens[map[K]V, V] {
	return Lens[map[K]V, V]{
		Get: func(m map[K]V) V {
			return m[k]
		},
		Set: func(v V, m map[K]V) map[K]V {
			out := make(map[K]V, len(m)+1)
			for key, val := range m {
				out[key] = val
			}
			out[k] = v
			return out
		},
	}
}

// Index focuses element i of a slice. An out-of-range index reads the zero
// value and ignores writes; the slice never grows.
func Index[T any](i int) Lens[[]T, T] {
	return Lens[[]T, T]{
		Get: func(s []T) T {
			if i < 0 || i >= len(s) {
				var zero T
				return zero
			}
			return s[i]
		},
		Set: func(v T, s []T) []T {
			if i < 0 || i >= len(s) {
				return s
			}
			out := make([]T, len(s))
			copy(out, s)
			out[i] = v
			return out
		},
	}
}

// Path focuses a nested entry of map[string]any values. Missing or
// non-map intermediates read as nil and are replaced by fresh maps on write.
func Path(keys ...string) Lens[map[string]any, any] {
	return Lens[map[string]any, any]{
		Get: func(m map[string]any) any {
			var cur any = m
			for _, k := range keys {
				next, ok := cur.(map[string]any)
				if !ok {
					return nil
				}
				cur = next[k]
			}
			return cur
		},
		Set: func(v any, m map[string]any) map[string]any {
			if len(keys) == 0 {
				if out, ok := v.(map[string]any); ok {
					return out
				}
				return m
			}
			return setPath(m, keys, v)
		},
	}
}

func setPath(m map[string]any, keys []string, v any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, val := range m {
		out[k] = val
	}

	if len(keys) == 1 {
		out[keys[0]] = v
		return out
	}

	child, _ := m[keys[0]].(map[string]any)
	out[keys[0]] = setPath(child, keys[1:], v)
	return out
}
