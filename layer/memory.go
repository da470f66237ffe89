package layer

import (
	"sync"
	"time"

	"github.com/flowscan/bitwise"
)

// Configuration for the memory layer
type MemoryConfig struct {
	// The duration of the cached values, set 0 to disable expiration
	Retention time.Duration
}

type memoryItem struct {
	value    bitwise.Raw
	expireAt time.Time
}

// Memory layer is a map-based in-memory store, it should be used as the first line of cache
// with short expiration, or on its own in tests
type Memory[TKey comparable] struct {
	config MemoryConfig
	data   map[TKey]memoryItem
	mu     sync.RWMutex
	now    func() time.Time
}

// Create a new in-memory layer
func NewMemory[TKey comparable](config MemoryConfig) *Memory[TKey] {
	return &Memory[TKey]{
		config: config,
		data:   make(map[TKey]memoryItem),
		now:    time.Now,
	}
}

// Unique identifier for this layer used for logging and metric purposes
func (l *Memory[TKey]) Identifier() string { return "memory" }

// The function that will be used to resolve a set of keys, expired values are reported as not found
func (l *Memory[TKey]) Get(keys []TKey) ([]bitwise.Raw, []error) {
	result := make([]bitwise.Raw, len(keys))
	errors := make([]error, len(keys))
	now := l.now()
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i, k := range keys {
		if item, ok := l.data[k]; ok && !item.expired(now) {
			result[i] = item.value
		} else {
			errors[i] = bitwise.NewErrNotFound(k)
		}
	}
	return result, errors
}

func (l *Memory[TKey]) Set(keys []TKey, values []bitwise.Raw) []error {
	var expireAt time.Time
	if l.config.Retention > 0 {
		expireAt = l.now().Add(l.config.Retention)
	}
	l.mu.Lock()
	for i, k := range keys {
		l.data[k] = memoryItem{value: values[i], expireAt: expireAt}
	}
	l.mu.Unlock()
	return nil
}

// Purge deletes the expired values, returns the number of deleted values
func (l *Memory[TKey]) Purge() int {
	now := l.now()
	count := 0
	l.mu.Lock()
	for k, item := range l.data {
		if item.expired(now) {
			delete(l.data, k)
			count++
		}
	}
	l.mu.Unlock()
	return count
}

// Len returns the number of values held, including expired ones not purged yet
func (l *Memory[TKey]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.data)
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expireAt.IsZero() && !now.Before(i.expireAt)
}
