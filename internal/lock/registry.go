// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package lock

import (
	"sort"
	"sync"
)

// Registry maps resource keys to the reader-writer mutex guarding them.
// Entries are created on first use and never removed, so every caller
// asking for the same key always shares the same mutex.
type Registry struct {
	mu    sync.RWMutex
	locks map[string]*sync.RWMutex
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		locks: make(map[string]*sync.RWMutex),
	}
}

// Resolve returns the mutex for key, creating it if this is the first time
// the key has been seen. Concurrent first lookups of the same key all
// receive the same mutex.
func (r *Registry) Resolve(key string) *sync.RWMutex {
	rw, _ := r.resolve(key)
	return rw
}

// resolve is Resolve, additionally reporting whether the mutex was created
// by this call.
func (r *Registry) resolve(key string) (*sync.RWMutex, bool) {
	r.mu.RLock()
	rw, ok := r.locks[key]
	r.mu.RUnlock()
	if ok {
		return rw, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Someone else may have won the race between the two locks.
	if rw, ok := r.locks[key]; ok {
		return rw, false
	}
	rw = &sync.RWMutex{}
	r.locks[key] = rw
	return rw, true
}

// Len returns the number of keys resolved so far.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.locks)
}

// Keys returns the keys resolved so far, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.locks))
	for key := range r.locks {
		keys = append(keys, key)
	}
	r.mu.RUnlock()

	sort.Strings(keys)
	return keys
}
