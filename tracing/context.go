package tracing

import (
	"context"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/trace"
)

// SpanFromContext retrieves the currently-executing Span stored in the
// context, if any, or a no-op Span.
func SpanFromContext(ctx context.Context) Span { return trace.SpanFromContext(ctx) }

// ContextWithSpan returns a copy of parent with span set as the
// currently-executing Span.
func ContextWithSpan(parent context.Context, span Span) context.Context {
	return trace.ContextWithSpan(parent, span)
}

// TracerProviderFromContext retrieves the TracerProvider from the
// context. If the current Span's TracerProvider() is not a no-op
// TracerProvider, it is used, or otherwise the global from
// GetGlobalTracerProvider().
func TracerProviderFromContext(ctx context.Context) TracerProvider {
	if spanTp := FromUpstream(SpanFromContext(ctx).TracerProvider()); !spanTp.IsNoop() {
		return spanTp
	}
	return GetGlobalTracerProvider()
}

// contextWithLogger injects the given Logger into a new context
// descending from parent.
func contextWithLogger(parent context.Context, log Logger) context.Context {
	return logr.NewContext(parent, log)
}

// contextWithTracerProvider injects the given TracerProvider into a new context
// descending from parent.
func contextWithTracerProvider(parent context.Context, tp trace.TracerProvider) context.Context {
	return trace.ContextWithSpan(parent, &tracerProviderSpan{
		Span: SpanFromContext(parent),
		tp:   tp,
	})
}

// tracerProviderSpan is a composite Span just returning a static TracerProvider.
// This trick allows us to register a TracerProvider with a context, without a
// new context.Context.WithValue key. The SpanContext of the wrapped Span is
// kept, so the context still reports the same current span identity.
type tracerProviderSpan struct {
	Span
	tp trace.TracerProvider
}

func (s *tracerProviderSpan) TracerProvider() trace.TracerProvider { return s.tp }

// Context returns a new *ContextBuilder.
func Context() *ContextBuilder { return &ContextBuilder{} }

// ContextBuilder is a builder-pattern constructor for a context.Context,
// that possibly includes a TracerProvider and/or Logger.
//
// Servers use it to seed the base context of every request, see
// http.Server.BaseContext.
type ContextBuilder struct {
	from   context.Context
	tp     trace.TracerProvider
	log    Logger
	hasLog bool
}

// From sets the "base context" to start applying context.WithValue operations
// to. By default this is context.Background().
func (b *ContextBuilder) From(ctx context.Context) *ContextBuilder {
	b.from = ctx
	return b
}

// WithTracerProvider registers a TracerProvider with the context.
func (b *ContextBuilder) WithTracerProvider(tp trace.TracerProvider) *ContextBuilder {
	b.tp = tp
	return b
}

// WithLogger registers a Logger with the context.
func (b *ContextBuilder) WithLogger(log Logger) *ContextBuilder {
	b.log = log
	b.hasLog = true
	return b
}

// Build builds the context.
func (b *ContextBuilder) Build() context.Context {
	ctx := b.from
	if ctx == nil {
		ctx = context.Background()
	}
	if b.tp != nil {
		ctx = contextWithTracerProvider(ctx, b.tp)
	}
	if b.hasLog {
		ctx = contextWithLogger(ctx, b.log)
	}
	return ctx
}
