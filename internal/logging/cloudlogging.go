package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// https://cloud.google.com/logging/docs/structured-logging#special-payload-fields
const (
	traceKey        = "logging.googleapis.com/trace"
	spanIDKey       = "logging.googleapis.com/spanId"
	traceSampledKey = "logging.googleapis.com/trace_sampled"
)

// cloudLoggingAttr renames the top level slog keys to the ones Cloud Logging understands
func cloudLoggingAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.MessageKey:
		a.Key = "message"
	case slog.LevelKey:
		a.Key = "severity"
		if level, ok := a.Value.Any().(slog.Level); ok && level == slog.LevelWarn {
			a.Value = slog.StringValue("WARNING")
		}
	}
	return a
}

// NewCloudLoggingHandler writes JSON records Cloud Logging can parse. When project is set
// records logged with a context also link to the active trace.
func NewCloudLoggingHandler(w io.Writer, level slog.Leveler, project string) slog.Handler {
	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: cloudLoggingAttr,
	})
	if project != "" {
		handler = NewCloudTraceLogHandler(handler, project)
	}
	return handler
}

// NewCloudTraceLogHandler adds the trace of the span in the record's context
func NewCloudTraceLogHandler(base slog.Handler, project string) slog.Handler {
	return &traceHandler{next: base, tracePrefix: fmt.Sprintf("projects/%s/traces/", project)}
}

type traceHandler struct {
	next        slog.Handler
	tracePrefix string
}

func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	spanContext := trace.SpanContextFromContext(ctx)
	if !spanContext.IsValid() {
		return h.next.Handle(ctx, r)
	}

	r = r.Clone()
	r.AddAttrs(
		slog.String(traceKey, h.tracePrefix+spanContext.TraceID().String()),
		slog.String(spanIDKey, spanContext.SpanID().String()),
		slog.Bool(traceSampledKey, spanContext.IsSampled()),
	)
	return h.next.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{next: h.next.WithAttrs(attrs), tracePrefix: h.tracePrefix}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{next: h.next.WithGroup(name), tracePrefix: h.tracePrefix}
}
