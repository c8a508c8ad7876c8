package cache

import (
	"context"
	"fmt"

	"github.com/Amund211/gamelens/internal/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func recordLookup(ctx context.Context, result string) {
	logging.FromContext(ctx).InfoContext(ctx, "Looking up cache", "cache", result)
	metrics.lookupCount.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// GetOrCreate returns the cached value for key, calling create on a miss.
//
// Concurrent callers for the same key wait for the first one instead of calling create
// themselves. If create fails nothing is stored, and waiting callers try again.
// A waiting caller gives up when ctx is done.
func GetOrCreate[T any](ctx context.Context, cache Cache[T], key string, create func() (T, error)) (T, error) {
	var empty T

	for waits := 0; ; waits++ {
		result := cache.getOrClaim(key)

		switch {
		case result.claimed:
			recordLookup(ctx, "miss")
			return createClaimed(cache, key, create)
		case result.valid:
			if waits > 0 {
				recordLookup(ctx, "waited")
			} else {
				recordLookup(ctx, "hit")
			}
			return result.data, nil
		}

		if err := ctx.Err(); err != nil {
			return empty, fmt.Errorf("gave up waiting for cache entry: %w", err)
		}
		cache.wait()
	}
}

// createClaimed fills a claimed entry, releasing the claim if create fails so other callers can retry
func createClaimed[T any](cache Cache[T], key string, create func() (T, error)) (data T, err error) {
	set := false
	defer func() {
		if !set {
			cache.delete(key)
		}
	}()

	data, err = create()
	if err != nil {
		var empty T
		return empty, fmt.Errorf("failed to create cache entry: %w", err)
	}

	cache.set(key, data)
	set = true
	return data, nil
}
