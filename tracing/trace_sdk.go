package tracing

import (
	"context"
	"reflect"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// FromUpstream converts any trace.TracerProvider into a TracerProvider.
// If upstream already is a TracerProvider, it is returned as-is.
func FromUpstream(upstream trace.TracerProvider) TracerProvider {
	return composite(upstream, nil)
}

func composite(upstream trace.TracerProvider, underlying TracerProvider) TracerProvider {
	if tp, ok := upstream.(TracerProvider); ok {
		return tp
	}
	return &upstreamConverter{upstream, underlying}
}

var _ TracerProvider = &upstreamConverter{}

// upstreamConverter forwards Shutdown and ForceFlush to the upstream
// provider if it supports them, otherwise to the underlying provider
// it was composed on top of, if any.
type upstreamConverter struct {
	trace.TracerProvider
	underlying TracerProvider
}

func (c *upstreamConverter) Shutdown(ctx context.Context) error {
	if shutdownable, ok := c.TracerProvider.(interface {
		Shutdown(ctx context.Context) error
	}); ok {
		return shutdownable.Shutdown(ctx)
	}
	if c.underlying != nil {
		return c.underlying.Shutdown(ctx)
	}
	return nil
}

func (c *upstreamConverter) ForceFlush(ctx context.Context) error {
	if flushable, ok := c.TracerProvider.(interface {
		ForceFlush(ctx context.Context) error
	}); ok {
		return flushable.ForceFlush(ctx)
	}
	if c.underlying != nil {
		return c.underlying.ForceFlush(ctx)
	}
	return nil
}

func (c *upstreamConverter) IsNoop() bool {
	if noopable, ok := c.TracerProvider.(interface {
		IsNoop() bool
	}); ok {
		return noopable.IsNoop()
	}
	if c.underlying != nil {
		return c.underlying.IsNoop()
	}
	return isNoop(c.TracerProvider)
}

func isNoop(tp trace.TracerProvider) bool {
	switch tp.(type) {
	case nil, noop.TracerProvider, *noop.TracerProvider:
		return true
	}
	// The span returned from trace.SpanFromContext on an empty context
	// reports this provider.
	return reflect.TypeOf(tp) == reflect.TypeOf(trace.NewNoopTracerProvider()) //nolint:staticcheck
}
