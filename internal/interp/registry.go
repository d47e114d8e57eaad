package interp

import "sync"

// Registry owns native resources of one kind, indexed by int64 handle.
// Handles start at 1 and only ever increment, so a removed handle is never
// reissued. Each Registry has its own mutex; operations on different kinds
// never contend.
//
// The lock covers only the map operation. Callers that block on a native
// resource (process wait, thread join) must Remove the entry first and
// block outside the lock, so sibling entries of the same kind stay
// reachable during the wait.
type Registry[T any] struct {
	mu      sync.Mutex
	kind    string
	nextID  int64
	entries map[int64]T
}

// NewRegistry returns an empty registry. kind appears in InvalidHandle
// messages ("invalid file ID: 7").
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:    kind,
		nextID:  1,
		entries: make(map[int64]T),
	}
}

// Create takes ownership of res and returns its handle. Never fails.
func (r *Registry[T]) Create(res T) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.entries[id] = res
	return id
}

// Get returns the resource for in-place use without transferring ownership.
func (r *Registry[T]) Get(id int64) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.entries[id]
	if !ok {
		var zero T
		return zero, invalidHandlef(r.kind, id)
	}
	return res, nil
}

// Remove deletes the entry and returns ownership of the resource. The
// handle is permanently retired: later Get or Remove calls on it fail.
func (r *Registry[T]) Remove(id int64) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.entries[id]
	if !ok {
		var zero T
		return zero, invalidHandlef(r.kind, id)
	}
	delete(r.entries, id)
	return res, nil
}

// Len reports the number of live entries.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Each calls fn for every live entry while holding the lock. fn must not
// call back into the registry.
func (r *Registry[T]) Each(fn func(id int64, res T)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, res := range r.entries {
		fn(id, res)
	}
}
