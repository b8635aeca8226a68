package record_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tailored-agentic-units/statetree/identity"
	"github.com/tailored-agentic-units/statetree/optic"
	"github.com/tailored-agentic-units/statetree/record"
)

func TestRecord_Zero(t *testing.T) {
	var r record.Record

	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get() on zero Record reported a value")
	}
	if diff := cmp.Diff(map[string]any{}, r.Map()); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_Immutability(t *testing.T) {
	original := record.New(map[string]any{"user": "alice"})

	tests := []struct {
		name   string
		mutate func(record.Record) record.Record
	}{
		{name: "set", mutate: func(r record.Record) record.Record { return r.Set("user", "bob") }},
		{name: "delete", mutate: func(r record.Record) record.Record { return r.Delete("user") }},
		{name: "merge", mutate: func(r record.Record) record.Record {
			return r.Merge(record.New(map[string]any{"user": "carol"}))
		}},
		{name: "secret", mutate: func(r record.Record) record.Record { return r.SetSecret("token", "xyz") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := tt.mutate(original)

			if v, _ := original.Get("user"); v != "alice" {
				t.Errorf("original user = %v, want alice", v)
			}
			if _, ok := original.GetSecret("token"); ok {
				t.Error("original gained a secret")
			}
			if identity.Equal(original, updated) {
				t.Error("mutated record is identical to the original")
			}
		})
	}
}

func TestRecord_NewCopiesInput(t *testing.T) {
	data := map[string]any{"a": 1}
	r := record.New(data)
	data["a"] = 2

	if v, _ := r.Get("a"); v != 1 {
		t.Errorf("Get(a) = %v, want 1", v)
	}
}

func TestRecord_DeleteMissingKeepsIdentity(t *testing.T) {
	r := record.New(map[string]any{"a": 1})
	if !identity.Equal(r, r.Delete("b")) {
		t.Error("Delete of a missing key should return the same record")
	}
	if !identity.Equal(r, r.DeleteSecret("b")) {
		t.Error("DeleteSecret of a missing key should return the same record")
	}
}

func TestRecord_Merge(t *testing.T) {
	left := record.New(map[string]any{"user": "alice", "role": "admin"})
	right := record.New(map[string]any{"count": 42, "role": "user"}).SetSecret("token", "t")

	merged := left.Merge(right)

	want := map[string]any{"user": "alice", "role": "user", "count": 42}
	if diff := cmp.Diff(want, merged.Map()); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
	if v, _ := merged.GetSecret("token"); v != "t" {
		t.Errorf("merged secret = %v, want t", v)
	}
	if diff := cmp.Diff([]string{"count", "role", "user"}, merged.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_SecretsNotPublished(t *testing.T) {
	r := record.New(map[string]any{"user": "alice"}).SetSecret("token", "bearer-xyz")

	if _, ok := r.Map()["token"]; ok {
		t.Error("Map() exposed a secret")
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `{"user":"alice"}` {
		t.Errorf("Marshal() = %s", b)
	}

	var decoded record.Record
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if v, _ := decoded.Get("user"); v != "alice" {
		t.Errorf("decoded user = %v, want alice", v)
	}
}

func TestRecord_Lenses(t *testing.T) {
	r := record.New(map[string]any{"count": 1})

	count := record.Field[int]("count")
	if got := optic.View(count, r); got != 1 {
		t.Errorf("Field View() = %d, want 1", got)
	}
	if got := optic.View(count, optic.Set(count, 5, r)); got != 5 {
		t.Errorf("Field round trip = %d, want 5", got)
	}
	if got := optic.View(record.Field[string]("count"), r); got != "" {
		t.Errorf("Field of the wrong type = %q, want zero", got)
	}

	prop := optic.MustProp[record.Record, int]("count")
	updated := optic.Set(prop, 9, r)
	if v, _ := updated.Get("count"); v != 9 {
		t.Errorf("Prop Set() = %v, want 9", v)
	}
}

func TestPredicates(t *testing.T) {
	r := record.New(map[string]any{"status": "approved"})

	tests := []struct {
		name string
		pred func(record.Record) bool
		want bool
	}{
		{name: "has present", pred: record.Has("status"), want: true},
		{name: "has missing", pred: record.Has("user"), want: false},
		{name: "equals match", pred: record.Equals("status", "approved"), want: true},
		{name: "equals mismatch", pred: record.Equals("status", "pending"), want: false},
		{name: "equals missing", pred: record.Equals("user", nil), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(r); got != tt.want {
				t.Errorf("predicate = %v, want %v", got, tt.want)
			}
		})
	}
}
