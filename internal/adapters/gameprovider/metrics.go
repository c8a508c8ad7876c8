package gameprovider

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type fallbackKind string

const (
	fallbackDate     fallbackKind = "date"
	fallbackDuration fallbackKind = "duration"
	fallbackShape    fallbackKind = "shape"
)

type gameproviderMetricsCollection struct {
	fallbackCount metric.Int64Counter
	skippedCount  metric.Int64Counter
}

var metrics gameproviderMetricsCollection

func init() {
	const name = "gamelens/gameprovider"
	meter := otel.Meter(name)

	fallbackCount, err := meter.Int64Counter(
		"gameprovider/normalization_fallbacks",
		metric.WithDescription("Number of raw fields replaced by their fallback value during normalization"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create fallback count metric: %w", err))
	}

	skippedCount, err := meter.Int64Counter(
		"gameprovider/skipped_records",
		metric.WithDescription("Number of raw records that could not be decoded at all"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create skipped count metric: %w", err))
	}

	metrics = gameproviderMetricsCollection{
		fallbackCount: fallbackCount,
		skippedCount:  skippedCount,
	}
}
