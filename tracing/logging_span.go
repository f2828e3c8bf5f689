package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// LoggingSpan returns a composite Span which logs changes registered with
// span using log, before passing them on. If log is discarding, span is
// returned as-is.
func LoggingSpan(span Span, log Logger) Span {
	if IsDiscard(log) {
		return span
	}
	return &loggingSpan{Span: span, log: log}
}

// LogSpanStart logs that a span with the given starting attributes
// started.
func LogSpanStart(log Logger, attrs []attribute.KeyValue) {
	if len(attrs) != 0 {
		log = log.WithValues(kvListToLogAttrs(attrs)...)
	}
	log.WithCallDepth(1).Info("starting span")
}

// loggingSpan is a span that's logging changes to it using the
// given Logger. It is a composite Span implementation.
type loggingSpan struct {
	// embedding is important; this automatically exposes all inherited functionality from the
	// underlying resource.
	Span

	log Logger
}

const (
	spanNameKey              = "span-name"
	spanEventKey             = "span-event"
	spanStatusCodeKey        = "span-status-code"
	spanStatusDescriptionKey = "span-status-description"
	// SpanAttributePrefix is the prefix used when logging an attribute registered
	// with a Span.
	SpanAttributePrefix = "span-attr-"
	// LogAttributePrefix is the prefix used when registering a logged attribute
	// with a Span.
	LogAttributePrefix = "log-attr-"
)

func (s *loggingSpan) End(options ...trace.SpanEndOption) {
	s.log.WithCallDepth(1).Info("ending span")
	s.Span.End(options...)
}

func (s *loggingSpan) AddEvent(name string, options ...trace.EventOption) {
	s.log.WithCallDepth(1).Info("span event", spanEventKey, name)
	s.Span.AddEvent(name, options...)
}

func (s *loggingSpan) RecordError(err error, options ...trace.EventOption) {
	s.log.WithCallDepth(1).Error(err, "span error")
	s.Span.RecordError(err, options...)
}

func (s *loggingSpan) SetStatus(code codes.Code, description string) {
	// The description is only included when there's an error, as
	// documented for Span.SetStatus.
	args := []interface{}{spanStatusCodeKey, code.String()}
	if code == codes.Error {
		args = append(args, spanStatusDescriptionKey, description)
	}
	s.log.WithCallDepth(1).Info("span status change", args...)

	s.Span.SetStatus(code, description)
}

func (s *loggingSpan) SetName(name string) {
	s.log.WithCallDepth(1).Info("span name change", spanNameKey, name)
	s.Span.SetName(name)
}

func (s *loggingSpan) SetAttributes(kv ...attribute.KeyValue) {
	s.log.WithCallDepth(1).Info("span attribute change", kvListToLogAttrs(kv)...)
	s.Span.SetAttributes(kv...)
}

func kvListToLogAttrs(kv []attribute.KeyValue) []interface{} {
	attrs := make([]interface{}, 0, len(kv)*2)
	for _, item := range kv {
		attrs = append(attrs, SpanAttributePrefix+string(item.Key), item.Value.AsInterface())
	}
	return attrs
}
