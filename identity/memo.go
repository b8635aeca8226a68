package identity

// Memoize wraps fn with a single-slot cache: the last argument and its result
// are remembered, and a call with an Equal argument returns the cached result
// without invoking fn.
//
// The returned function is not safe for concurrent use.
func Memoize[I, O any](fn func(I) O) func(I) O {
	var (
		initialized bool
		lastArg     I
		lastResult  O
	)

	return func(arg I) O {
		if initialized && Equal(lastArg, arg) {
			return lastResult
		}
		initialized = true
		lastArg = arg
		lastResult = fn(arg)
		return lastResult
	}
}
