package cache

import (
	"sync"
	"time"
)

// memoryCache never expires entries. Used in tests and short-lived tools.
type memoryCache[T any] struct {
	mu           sync.Mutex
	entries      map[string]entry[T]
	waitInterval time.Duration
}

func (c *memoryCache[T]) getOrClaim(key string) hitResult[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		return hitResult[T]{entry: existing}
	}

	c.entries[key] = entry[T]{}
	return hitResult[T]{claimed: true}
}

func (c *memoryCache[T]) set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[T]{data: data, valid: true}
}

func (c *memoryCache[T]) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *memoryCache[T]) wait() {
	time.Sleep(c.waitInterval)
}

func NewMemoryCache[T any]() *memoryCache[T] {
	return &memoryCache[T]{
		entries:      make(map[string]entry[T]),
		waitInterval: time.Millisecond,
	}
}
