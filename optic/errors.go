package optic

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is matched by every *LengthError.
var ErrLengthMismatch = errors.New("replacement length mismatch")

// LengthError reports a collection lens write whose replacement does not
// cover the focused elements exactly.
type LengthError struct {
	Lens string
	Want int
	Got  int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s lens: replacement has %d values, focus has %d", e.Lens, e.Got, e.Want)
}

func (e *LengthError) Unwrap() error {
	return ErrLengthMismatch
}

// PropError reports a property lens that cannot be derived for a type.
type PropError struct {
	Type string
	Name string
	Err  error
}

func (e *PropError) Error() string {
	return fmt.Sprintf("property %q of %s: %v", e.Name, e.Type, e.Err)
}

func (e *PropError) Unwrap() error {
	return e.Err
}

// TrySet behaves like Set but returns a *LengthError instead of panicking when
// a collection lens rejects the replacement.
func TrySet[S, A any](l Lens[S, A], a A, s S) (result S, err error) {
	defer func() {
		if r := recover(); r != nil {
			lengthErr, ok := r.(*LengthError)
			if !ok {
				panic(r)
			}
			err = lengthErr
		}
	}()
	return l.Set(a, s), nil
}
