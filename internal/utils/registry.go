package utils

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Registry is a thread-safe map whose keys are listed in sorted order
type Registry[K cmp.Ordered, V any] struct {
	mu    sync.RWMutex
	items map[K]V
	kind  string
}

// NewRegistry creates a registry; kind names its items in duplicate errors
func NewRegistry[K cmp.Ordered, V any](kind string) *Registry[K, V] {
	return &Registry[K, V]{
		items: make(map[K]V),
		kind:  kind,
	}
}

// Register adds an item, rejecting a key that is already present
func (r *Registry[K, V]) Register(key K, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; exists {
		return fmt.Errorf("%s '%v' is already registered", r.kind, key)
	}
	r.items[key] = value
	return nil
}

// Set stores an item, replacing any previous value
func (r *Registry[K, V]) Set(key K, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[key] = value
}

// Get retrieves an item from the registry
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.items[key]
	return value, exists
}

// Keys returns all keys in ascending order
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]K, 0, len(r.items))
	for key := range r.items {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Values returns all items ordered by key
func (r *Registry[K, V]) Values() []V {
	keys := r.Keys()

	r.mu.RLock()
	defer r.mu.RUnlock()

	values := make([]V, 0, len(keys))
	for _, key := range keys {
		if value, ok := r.items[key]; ok {
			values = append(values, value)
		}
	}
	return values
}

// Size returns the number of items in the registry
func (r *Registry[K, V]) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
