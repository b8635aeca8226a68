package optic

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Keyed is implemented by state values that expose named properties without
// being plain structs or maps. WithProperty must return a new value of the
// receiver's dynamic type and leave the receiver untouched.
type Keyed interface {
	Property(name string) (any, bool)
	WithProperty(name string, value any) Keyed
}

var (
	// ErrUnknownProperty is returned when S has no property with the given name.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrPropertyType is returned when the property type is incompatible with A.
	ErrPropertyType = errors.New("property type mismatch")

	// ErrUnsupportedState is returned for state kinds that have no properties.
	ErrUnsupportedState = errors.New("state type has no properties")

	keyedType = reflect.TypeFor[Keyed]()
)

// tagName is the struct tag consulted before field names.
const tagName = "statetree"

// Prop derives a lens focusing the property name of S.
//
// Supported state shapes:
//   - structs and pointers to structs: the exported field tagged
//     `statetree:"name"`, or else the exported field called name
//   - maps with string keys
//   - types implementing Keyed
//
// Setters never modify their input: structs are copied, maps are cloned.
func Prop[S, A any](name string) (Lens[S, A], error) {
	st := reflect.TypeFor[S]()
	at := reflect.TypeFor[A]()

	if st.Implements(keyedType) {
		return keyedProp[S, A](name), nil
	}

	switch {
	case st.Kind() == reflect.Struct:
		idx, err := fieldIndex(st, at, name)
		if err != nil {
			return Lens[S, A]{}, err
		}
		return structProp[S, A](st, idx, name), nil

	case st.Kind() == reflect.Pointer && st.Elem().Kind() == reflect.Struct:
		idx, err := fieldIndex(st.Elem(), at, name)
		if err != nil {
			return Lens[S, A]{}, err
		}
		return structPtrProp[S, A](st.Elem(), idx, name), nil

	case st.Kind() == reflect.Map && st.Key().Kind() == reflect.String:
		if !compatible(st.Elem(), at) {
			return Lens[S, A]{}, &PropError{Type: st.String(), Name: name, Err: ErrPropertyType}
		}
		return mapProp[S, A](st, name), nil
	}

	return Lens[S, A]{}, &PropError{Type: st.String(), Name: name, Err: ErrUnsupportedState}
}

// MustProp is like Prop but panics when the lens cannot be derived.
func MustProp[S, A any](name string) Lens[S, A] {
	l, err := Prop[S, A](name)
	if err != nil {
		panic(err)
	}
	return l
}

func fieldIndex(st, at reflect.Type, name string) (int, error) {
	byName := -1
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get(tagName), ",")
		if tag == name {
			return checkField(st, at, f, i, name)
		}
		if f.Name == name && byName == -1 {
			byName = i
		}
	}

	if byName == -1 {
		return -1, &PropError{Type: st.String(), Name: name, Err: ErrUnknownProperty}
	}
	return checkField(st, at, st.Field(byName), byName, name)
}

func checkField(st, at reflect.Type, f reflect.StructField, i int, name string) (int, error) {
	if !compatible(f.Type, at) {
		return -1, &PropError{
			Type: st.String(),
			Name: name,
			Err:  fmt.Errorf("%w: field is %s, lens wants %s", ErrPropertyType, f.Type, at),
		}
	}
	return i, nil
}

// compatible reports whether values of the property type pt can be read as A
// and written back from A. Interface-typed properties are checked when read.
func compatible(pt, at reflect.Type) bool {
	switch {
	case pt == at:
		return true
	case at.Kind() == reflect.Interface:
		return pt.AssignableTo(at)
	case pt.Kind() == reflect.Interface:
		return at.AssignableTo(pt)
	}
	return false
}

func structProp[S, A any](st reflect.Type, idx int, name string) Lens[S, A] {
	return Lens[S, A]{
		Get: func(s S) A {
			return read[A](reflect.ValueOf(&s).Elem().Field(idx))
		},
		Set: func(a A, s S) S {
			out := reflect.New(st).Elem()
			out.Set(reflect.ValueOf(&s).Elem())
			out.Field(idx).Set(write(a, st.Field(idx).Type, st, name))
			return out.Interface().(S)
		},
	}
}

func structPtrProp[S, A any](st reflect.Type, idx int, name string) Lens[S, A] {
	return Lens[S, A]{
		Get: func(s S) A {
			v := reflect.ValueOf(&s).Elem()
			if v.IsNil() {
				var zero A
				return zero
			}
			return read[A](v.Elem().Field(idx))
		},
		Set: func(a A, s S) S {
			out := reflect.New(st)
			if v := reflect.ValueOf(&s).Elem(); !v.IsNil() {
				out.Elem().Set(v.Elem())
			}
			out.Elem().Field(idx).Set(write(a, st.Field(idx).Type, st, name))
			return out.Interface().(S)
		},
	}
}

func mapProp[S, A any](st reflect.Type, name string) Lens[S, A] {
	key := reflect.ValueOf(name).Convert(st.Key())

	return Lens[S, A]{
		Get: func(s S) A {
			v := reflect.ValueOf(&s).Elem()
			if v.IsNil() {
				var zero A
				return zero
			}
			entry := v.MapIndex(key)
			if !entry.IsValid() {
				var zero A
				return zero
			}
			return read[A](entry)
		},
		Set: func(a A, s S) S {
			v := reflect.ValueOf(&s).Elem()
			out := reflect.MakeMapWithSize(st, v.Len()+1)
			iter := v.MapRange()
			for iter.Next() {
				out.SetMapIndex(iter.Key(), iter.Value())
			}
			out.SetMapIndex(key, write(a, st.Elem(), st, name))
			return out.Interface().(S)
		},
	}
}

func keyedProp[S, A any](name string) Lens[S, A] {
	return Lens[S, A]{
		Get: func(s S) A {
			keyed, ok := any(s).(Keyed)
			if !ok {
				var zero A
				return zero
			}
			v, _ := keyed.Property(name)
			a, _ := v.(A)
			return a
		},
		Set: func(a A, s S) S {
			return any(s).(Keyed).WithProperty(name, a).(S)
		},
	}
}

func read[A any](v reflect.Value) A {
	if v.Kind() == reflect.Interface && v.IsNil() {
		var zero A
		return zero
	}
	a, _ := v.Interface().(A)
	return a
}

func write[A any](a A, pt, st reflect.Type, name string) reflect.Value {
	v := reflect.ValueOf(&a).Elem()
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Zero(pt)
		}
		v = v.Elem()
	}
	if !v.Type().AssignableTo(pt) {
		panic(&PropError{
			Type: st.String(),
			Name: name,
			Err:  fmt.Errorf("%w: cannot assign %s to %s", ErrPropertyType, v.Type(), pt),
		})
	}
	return v
}
