//go:build !notrace

package lucidxml

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"runtime"
	"time"
)

type traceLoggerKey struct{}
type spanIDKey struct{}

// nullLogger discards everything; it's what getTraceLogFromContext
// returns when the caller never installed a trace logger.
var nullLogger = slog.New(slog.DiscardHandler)

// TracingEnabled is true in this build. The notrace build tag swaps in
// a version that's permanently false and turns every call below into a
// no-op, for callers who don't want tracing overhead at all.
var TracingEnabled = true

// SetTracingEnabled allows toggling tracing at runtime within a
// tracing-capable build.
func SetTracingEnabled(enabled bool) {
	TracingEnabled = enabled
}

// SpanInfo holds information about a tracing span. It's a plain struct,
// not an interface, so callers that only need the span's identity (for
// example to read the parent ID) don't need to round-trip through End.
type SpanInfo struct {
	ID       string
	ParentID string
	Name     string
	Start    time.Time
	Tags     map[string]string
}

// Span is the upgrade path for future OpenTelemetry compatibility.
type Span interface {
	End()
}

type loggingSpan struct {
	logger *slog.Logger
	info   *SpanInfo
}

func (s *loggingSpan) End() {
	if !TracingEnabled {
		return
	}
	s.logger.Debug("END",
		slog.String("span_id", s.info.ID),
		slog.String("span_name", s.info.Name),
		slog.Duration("duration", time.Since(s.info.Start)),
	)
}

func WithTraceLogger(ctx context.Context, tlog *slog.Logger) context.Context {
	if _, ok := ctx.Value(traceLoggerKey{}).(*slog.Logger); ok {
		return ctx
	}
	return context.WithValue(ctx, traceLoggerKey{}, tlog)
}

func getTraceLogFromContext(ctx context.Context) *slog.Logger {
	tlog, ok := ctx.Value(traceLoggerKey{}).(*slog.Logger)
	if !ok {
		return nullLogger
	}

	pc, _, _, ok := runtime.Caller(2)
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			tlog = tlog.With(slog.String("fn", fn.Name()))
		}
	}
	return tlog
}

// WithSpan attaches a new span to ctx, chaining it off whatever span
// (if any) is already in ctx, and returns both the child context and
// the span's info.
func WithSpan(ctx context.Context, name string) (context.Context, *SpanInfo) {
	info := &SpanInfo{
		ID:    generateSpanID(),
		Name:  name,
		Start: time.Now(),
	}
	if parentID, ok := ctx.Value(spanIDKey{}).(string); ok {
		info.ParentID = parentID
	}
	return context.WithValue(ctx, spanIDKey{}, info.ID), info
}

// StartSpan is WithSpan plus a START log line and a Span whose End
// method logs the matching END line with the elapsed duration.
func StartSpan(ctx context.Context, spanName string) (context.Context, Span) {
	ctx, info := WithSpan(ctx, spanName)
	logger := getTraceLogFromContext(ctx)
	if TracingEnabled {
		logger.Debug("START",
			slog.String("span_id", info.ID),
			slog.String("span_name", info.Name),
		)
	}
	return ctx, &loggingSpan{logger: logger, info: info}
}

// TraceEvent logs a structured event tagged with the current span ID,
// if any.
func TraceEvent(ctx context.Context, msg string, attrs ...slog.Attr) {
	if !TracingEnabled {
		return
	}
	logger := getTraceLogFromContext(ctx)
	if spanID, ok := ctx.Value(spanIDKey{}).(string); ok {
		attrs = append(attrs, slog.String("span_id", spanID))
	}
	logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// TraceError logs err alongside msg, tagged with the current span ID,
// if any.
func TraceError(ctx context.Context, err error, msg string, attrs ...slog.Attr) {
	if !TracingEnabled {
		return
	}
	logger := getTraceLogFromContext(ctx)
	attrs = append(attrs, slog.String("error", err.Error()))
	if spanID, ok := ctx.Value(spanIDKey{}).(string); ok {
		attrs = append(attrs, slog.String("span_id", spanID))
	}
	logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

// generateSpanID returns a 16-character hex-encoded random span ID.
func generateSpanID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the system entropy source is
		// broken; fall back to a fixed, obviously-wrong ID rather
		// than panicking out of a tracing call.
		return "0000000000000000"
	}
	return hex.EncodeToString(b)
}
