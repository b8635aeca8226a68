package inspect

import (
	"sync"
	"time"

	"github.com/tailored-agentic-units/statetree/container"
)

// Snapshot is the state of a tree after one commit.
type Snapshot struct {
	State     any
	Version   uint64
	Action    string
	UpdatedAt time.Time
}

// Store holds the latest Snapshot. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	set      bool
}

func NewStore() *Store {
	return &Store{}
}

// Update replaces the held snapshot.
func (s *Store) Update(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
	s.set = true
}

// Snapshot returns the held snapshot and whether one was ever stored.
func (s *Store) Snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.set
}

// Source is a node whose changes can be recorded.
type Source[S any] interface {
	State() S
	Version() uint64
	OnStateChange(listener func(container.Change[S])) func() bool
}

// Attach records the current state of src in store and then every change
// src is notified of. The returned function stops recording.
func Attach[S any](store *Store, src Source[S]) func() bool {
	store.Update(Snapshot{
		State:     src.State(),
		Version:   src.Version(),
		Action:    "attach",
		UpdatedAt: time.Now(),
	})

	return src.OnStateChange(func(ch container.Change[S]) {
		store.Update(Snapshot{
			State:     ch.State,
			Version:   src.Version(),
			Action:    ch.Action,
			UpdatedAt: time.Now(),
		})
	})
}
