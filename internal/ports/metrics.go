package ports

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type portsMetricsCollection struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	responseSize    metric.Int64Histogram
	gamesReceived   metric.Int64Histogram
}

var metrics = func() portsMetricsCollection {
	meter := otel.Meter("gamelens/ports")

	must := func(name string, err error) {
		if err != nil {
			panic(fmt.Errorf("failed to create %s metric: %w", name, err))
		}
	}

	requestCount, err := meter.Int64Counter(
		"ports/request_count",
		metric.WithDescription("Total number of requests received"),
	)
	must("request count", err)

	requestDuration, err := meter.Float64Histogram(
		"ports/request_duration_seconds",
		metric.WithDescription("Processing time for received requests"),
		metric.WithUnit("s"),
	)
	must("request duration", err)

	responseSize, err := meter.Int64Histogram(
		"ports/response_size_bytes",
		metric.WithDescription("Size of response bodies"),
		metric.WithUnit("By"),
	)
	must("response size", err)

	gamesReceived, err := meter.Int64Histogram(
		"ports/games_received",
		metric.WithDescription("Number of raw game records in submitted libraries"),
	)
	must("games received", err)

	return portsMetricsCollection{
		requestCount:    requestCount,
		requestDuration: requestDuration,
		responseSize:    responseSize,
		gamesReceived:   gamesReceived,
	}
}()

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytesWritten += int64(n)
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// clientKind buckets user agents so the metric attribute stays low-cardinality
func clientKind(userAgent string) string {
	lower := strings.ToLower(userAgent)
	switch {
	case lower == "":
		return "missing"
	case strings.HasPrefix(lower, "gamelens"):
		return "gamelens"
	case strings.HasPrefix(lower, "mozilla/"):
		return "browser"
	case strings.HasPrefix(lower, "curl/"), strings.HasPrefix(lower, "python-requests/"), strings.HasPrefix(lower, "go-http-client/"):
		return "script"
	}
	return "other"
}

func buildMetricsMiddleware(routeName string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next(recorder, r)

			attributesOption := metric.WithAttributes(
				attribute.String("method", r.Method),
				attribute.String("route", routeName),
				attribute.String("status_code", strconv.Itoa(recorder.statusCode)),
				attribute.String("client", clientKind(r.UserAgent())),
			)

			metrics.requestCount.Add(ctx, 1, attributesOption)
			metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), attributesOption)
			metrics.responseSize.Record(ctx, recorder.bytesWritten, attributesOption)
		}
	}
}
