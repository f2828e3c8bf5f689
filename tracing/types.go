package tracing

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/luxas/deklarative-httptrace/tracing/zaplog"
	"go.opentelemetry.io/otel/trace"
)

type (
	// Span is a symbolic link to trace.Span.
	Span = trace.Span
	// Logger is a symbolic link to logr.Logger.
	Logger = logr.Logger
)

// TracerProvider is a trace.TracerProvider that can also be flushed and
// shut down, like the SDK's TracerProvider. Providers that do not support
// flushing or shutting down can be converted using the functions in this
// package; those operations are then no-ops.
type TracerProvider interface {
	trace.TracerProvider

	// Shutdown flushes and stops all span processors.
	Shutdown(ctx context.Context) error
	// ForceFlush exports all ended spans that have not yet been exported.
	ForceFlush(ctx context.Context) error
	// IsNoop reports whether spans started by this provider are discarded.
	IsNoop() bool
}

// NewZap is a shorthand for zaplog.NewZap().
//
// Refer to the zaplog package for usage details and examples.
func NewZap() *zaplog.Builder { return zaplog.NewZap() }
