// Package record provides an immutable string-keyed record for state trees
// whose shape is only known at runtime.
//
// A Record separates regular data from secrets. Data is what Map, JSON
// encoding and the inspector see; secrets travel with the record but are
// never published.
package record

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/tailored-agentic-units/statetree/optic"
)

// Record is an immutable map of values. Every mutator returns a new Record
// and leaves the receiver untouched, so two Records are identical exactly
// when neither has been modified since one was copied from the other.
//
// The zero Record is empty and ready to use.
type Record struct {
	data    map[string]any
	secrets map[string]any
}

// New builds a Record holding a copy of data.
func New(data map[string]any) Record {
	return Record{data: maps.Clone(data)}
}

// Get retrieves the value stored under key.
func (r Record) Get(key string) (any, bool) {
	v, ok := r.data[key]
	return v, ok
}

// Set returns a Record with key bound to value.
func (r Record) Set(key string, value any) Record {
	out := r.clone()
	if out.data == nil {
		out.data = make(map[string]any, 1)
	}
	out.data[key] = value
	return out
}

// Delete returns a Record without key. Deleting a missing key returns r.
func (r Record) Delete(key string) Record {
	if _, ok := r.data[key]; !ok {
		return r
	}
	out := r.clone()
	delete(out.data, key)
	return out
}

// Merge returns a Record with the data of other copied over r. Secrets of
// other are merged the same way.
func (r Record) Merge(other Record) Record {
	out := r.clone()
	if len(other.data) > 0 {
		if out.data == nil {
			out.data = make(map[string]any, len(other.data))
		}
		maps.Copy(out.data, other.data)
	}
	if len(other.secrets) > 0 {
		if out.secrets == nil {
			out.secrets = make(map[string]any, len(other.secrets))
		}
		maps.Copy(out.secrets, other.secrets)
	}
	return out
}

func (r Record) Len() int { return len(r.data) }

// Keys returns the data keys in sorted order.
func (r Record) Keys() []string {
	return slices.Sorted(maps.Keys(r.data))
}

// Map returns a copy of the data, without secrets.
func (r Record) Map() map[string]any {
	out := maps.Clone(r.data)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

// GetSecret retrieves a secret stored under key.
func (r Record) GetSecret(key string) (any, bool) {
	v, ok := r.secrets[key]
	return v, ok
}

// SetSecret returns a Record with the secret key bound to value.
func (r Record) SetSecret(key string, value any) Record {
	out := r.clone()
	if out.secrets == nil {
		out.secrets = make(map[string]any, 1)
	}
	out.secrets[key] = value
	return out
}

// DeleteSecret returns a Record without the secret key.
func (r Record) DeleteSecret(key string) Record {
	if _, ok := r.secrets[key]; !ok {
		return r
	}
	out := r.clone()
	delete(out.secrets, key)
	return out
}

// Property and WithProperty let optic.Prop focus record keys.
func (r Record) Property(name string) (any, bool) {
	return r.Get(name)
}

func (r Record) WithProperty(name string, value any) optic.Keyed {
	return r.Set(name, value)
}

// MarshalJSON encodes the data only.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var data map[string]any
	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}
	r.data = data
	r.secrets = nil
	return nil
}

func (r Record) clone() Record {
	return Record{
		data:    maps.Clone(r.data),
		secrets: maps.Clone(r.secrets),
	}
}

// Field focuses key as a value of type A. A missing key or a value of
// another type reads as the zero value.
func Field[A any](key string) optic.Lens[Record, A] {
	return optic.Lens[Record, A]{
		Get: func(r Record) A {
			v, _ := r.Get(key)
			a, _ := v.(A)
			return a
		},
		Set: func(a A, r Record) Record {
			return r.Set(key, a)
		},
	}
}

// Has reports whether a record holds key.
func Has(key string) func(Record) bool {
	return func(r Record) bool {
		_, ok := r.Get(key)
		return ok
	}
}

// Equals reports whether a record holds value under key.
func Equals(key string, value any) func(Record) bool {
	return func(r Record) bool {
		v, ok := r.Get(key)
		return ok && v == value
	}
}
