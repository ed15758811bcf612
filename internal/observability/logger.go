package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Log attribute keys for trace correlation and service identity.
const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrEnv     = "env"
	attrMode    = "mode"
)

// LogHandler decorates an [slog.Handler] with OpenTelemetry correlation:
// records emitted under an active span carry trace_id and span_id, and every
// record carries the service identity from Config. Identity attributes are
// attached ahead of any group, so they stay at the top level of the record.
type LogHandler struct {
	next slog.Handler
}

// NewLogHandler wraps next with trace correlation and the service identity
// of cfg.
func NewLogHandler(next slog.Handler, cfg Config) *LogHandler {
	identity := []slog.Attr{
		slog.String(attrService, cfg.ServiceName),
		slog.String(attrMode, string(cfg.Mode)),
	}

	if cfg.Environment != "" {
		identity = append(identity, slog.String(attrEnv, cfg.Environment))
	}

	return &LogHandler{next: next.WithAttrs(identity)}
}

// Enabled reports whether the wrapped handler wants records at this level.
func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle stamps the record with the active span's identifiers, if any, and
// passes it on.
func (h *LogHandler) Handle(ctx context.Context, record slog.Record) error {
	if span := trace.SpanContextFromContext(ctx); span.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, span.TraceID().String()),
			slog.String(attrSpanID, span.SpanID().String()),
		)
	}

	emitErr := h.next.Handle(ctx, record)
	if emitErr != nil {
		return fmt.Errorf("emit log record: %w", emitErr)
	}

	return nil
}

// WithAttrs forwards the attributes to the wrapped handler.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandler{next: h.next.WithAttrs(attrs)}
}

// WithGroup opens a group on the wrapped handler.
func (h *LogHandler) WithGroup(name string) slog.Handler {
	return &LogHandler{next: h.next.WithGroup(name)}
}
