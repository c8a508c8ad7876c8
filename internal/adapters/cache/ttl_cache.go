package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type ttlCache[T any] struct {
	cache        *ttlcache.Cache[string, entry[T]]
	waitInterval time.Duration
}

func (c *ttlCache[T]) getOrClaim(key string) hitResult[T] {
	item, existed := c.cache.GetOrSet(key, entry[T]{})
	return hitResult[T]{
		entry:   item.Value(),
		claimed: !existed,
	}
}

func (c *ttlCache[T]) set(key string, data T) {
	c.cache.Set(key, entry[T]{data: data, valid: true}, ttlcache.DefaultTTL)
}

func (c *ttlCache[T]) delete(key string) {
	c.cache.Delete(key)
}

func (c *ttlCache[T]) wait() {
	time.Sleep(c.waitInterval)
}

// NewTTLCache returns a cache where entries expire ttl after they are set.
// Hits do not extend the lifetime of an entry.
func NewTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	cache := ttlcache.New[string, entry[T]](
		ttlcache.WithTTL[string, entry[T]](ttl),
		ttlcache.WithDisableTouchOnHit[string, entry[T]](),
	)
	go cache.Start()
	return &ttlCache[T]{
		cache:        cache,
		waitInterval: 50 * time.Millisecond,
	}
}
