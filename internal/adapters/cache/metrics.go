package cache

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var metrics = func() struct {
	lookupCount metric.Int64Counter
} {
	meter := otel.Meter("gamelens/cache")

	lookupCount, err := meter.Int64Counter("cache/lookups")
	if err != nil {
		panic(fmt.Errorf("failed to create cache/lookups counter: %w", err))
	}

	return struct {
		lookupCount metric.Int64Counter
	}{
		lookupCount: lookupCount,
	}
}()
