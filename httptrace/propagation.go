package httptrace

import (
	"context"

	"github.com/luxas/deklarative-httptrace/tracing"
	"go.opentelemetry.io/otel/trace"
)

// Propagation resolves and sets the currently-active span of a context.
// Spans started from a context returned by ContextWithSpan are children
// of the given span.
type Propagation interface {
	// SpanFromContext returns the active span of ctx, or a no-op span.
	SpanFromContext(ctx context.Context) trace.Span
	// ContextWithSpan returns a copy of parent with span as active span.
	ContextWithSpan(parent context.Context, span trace.Span) context.Context
}

// DefaultPropagation returns the Propagation used by OpenTelemetry,
// storing the active span as a context.Context value.
func DefaultPropagation() Propagation { return contextPropagation{} }

type contextPropagation struct{}

func (contextPropagation) SpanFromContext(ctx context.Context) trace.Span {
	return tracing.SpanFromContext(ctx)
}

func (contextPropagation) ContextWithSpan(parent context.Context, span trace.Span) context.Context {
	return tracing.ContextWithSpan(parent, span)
}
