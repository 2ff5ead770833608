package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/cohort/internal/domain/model"
	"github.com/okian/cohort/pkg/metrics"
)

// snapshot is an immutable view of the panel. Readers load it without
// locking; Replace publishes a new one.
type snapshot struct {
	people []model.Person
	byID   map[string]int
}

// MemoryStore keeps the panel in memory.
type MemoryStore struct {
	// writeMu serializes Replace; reads go through snap.
	writeMu sync.Mutex
	snap    atomic.Pointer[snapshot]
	closed  atomic.Bool

	newID func() string
	seed  []model.Person
}

// NewMemoryStore creates an in-memory store. Seeded people are validated the
// same way as Replace; an invalid seed is reported as an error.
func NewMemoryStore(ctx context.Context, opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{newID: defaultID}

	for _, opt := range opts {
		opt(s)
	}

	s.snap.Store(&snapshot{byID: map[string]int{}})
	if err := s.Replace(ctx, s.seed); err != nil {
		return nil, err
	}
	s.seed = nil
	return s, nil
}

// Replace swaps the whole panel. People without an id receive a generated
// one; duplicate ids are rejected and leave the store unchanged.
func (s *MemoryStore) Replace(_ context.Context, people []model.Person) error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := &snapshot{
		people: make([]model.Person, len(people)),
		byID:   make(map[string]int, len(people)),
	}
	for i, p := range people {
		if p.ID == "" {
			p.ID = s.newID()
		}
		if _, dup := next.byID[p.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		next.byID[p.ID] = i
		next.people[i] = p
	}

	s.snap.Store(next)
	metrics.RecordPanelLoad(len(next.people), time.Now().Unix())
	return nil
}

// All returns the current panel.
func (s *MemoryStore) All(_ context.Context) ([]model.Person, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()
	people := s.snap.Load().people
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	return people, nil
}

// Get returns the person with id.
func (s *MemoryStore) Get(_ context.Context, id string) (model.Person, error) {
	if s.closed.Load() {
		return model.Person{}, ErrClosed
	}
	snap := s.snap.Load()
	i, ok := snap.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Person{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return snap.people[i], nil
}

// Count returns the panel size.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(s.snap.Load().people)
}

// Close marks the store closed. Subsequent reads fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.closed.Store(true)
	return nil
}
