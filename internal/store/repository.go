package store

import (
	"sort"
	"sync"
)

// Repository holds the store registry and per-store event logs.
//
// Implementations must make every mutation atomic: the background
// provisioning goroutines and the foreground API handlers both touch the
// same stores, and the single-writer invariant for status transitions relies
// on Update applying its closure under the repository lock.
type Repository interface {
	Insert(s *Store)
	Get(id string) (*Store, bool)
	// List returns all stores ordered by creation time, newest first.
	List() []*Store
	// Update applies fn to the stored record under the repository lock.
	// It reports whether the store existed; updating an absent store is a
	// no-op, which is what lets a late terminal write from a provisioning
	// goroutine land harmlessly after the store was deleted.
	Update(id string, fn func(*Store)) bool
	Delete(id string)

	AppendEvent(e *Event)
	// Events returns a store's audit log in append order. An unknown store
	// yields an empty slice, not an error.
	Events(storeID string) []*Event
	DeleteEvents(storeID string)
}

// memoryRepository is the in-process registry. State is volatile by design:
// the platform makes no durability promise across restarts.
type memoryRepository struct {
	mu     sync.Mutex
	stores map[string]*Store
	events map[string][]*Event
}

// NewMemoryRepository returns an empty in-memory Repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		stores: make(map[string]*Store),
		events: make(map[string][]*Event),
	}
}

func (r *memoryRepository) Insert(s *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.stores[s.ID] = &cp
}

func (r *memoryRepository) Get(id string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	if !ok {
		return nil, false
	}
	cp := *s
	return &cp, true
}

func (r *memoryRepository) List() []*Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Store, 0, len(r.stores))
	for _, s := range r.stores {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *memoryRepository) Update(id string, fn func(*Store)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	if !ok {
		return false
	}
	fn(s)
	return true
}

func (r *memoryRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, id)
}

func (r *memoryRepository) AppendEvent(e *Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.events[e.StoreID] = append(r.events[e.StoreID], &cp)
}

func (r *memoryRepository) Events(storeID string) []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.events[storeID]
	out := make([]*Event, len(events))
	for i, e := range events {
		cp := *e
		out[i] = &cp
	}
	return out
}

func (r *memoryRepository) DeleteEvents(storeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, storeID)
}
