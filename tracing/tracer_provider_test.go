package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

func TestProvider_withExporter(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp, err := Provider().
		WithExporter(exp).
		WithAttributes(semconv.ServiceNameKey.String("shop")).
		Synchronous().
		Build()
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "checkout")
	span.End()
	require.NoError(t, tp.ForceFlush(context.Background()))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "checkout", spans[0].Name)
	assert.Contains(t, spans[0].Resource.Attributes(), semconv.ServiceNameKey.String("shop"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestProvider_testYAML(t *testing.T) {
	var buf bytes.Buffer
	tp, err := Provider().TestYAMLTo(&buf).Build()
	require.NoError(t, err)

	ctx, root := tp.Tracer("test").Start(context.Background(), "root")
	_, child := tp.Tracer("test").Start(ctx, "child")
	child.SetAttributes(attribute.String("k", "v"))
	child.End()
	assert.Empty(t, buf.String())
	root.End()

	assert.Contains(t, buf.String(), "# root\n")
	assert.Contains(t, buf.String(), "child")
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestProvider_deterministicIDs(t *testing.T) {
	traceID := func() string {
		tp, err := Provider().DeterministicIDs(42).Build()
		require.NoError(t, err)
		_, span := tp.Tracer("test").Start(context.Background(), "span")
		defer span.End()
		return span.SpanContext().TraceID().String()
	}
	assert.Equal(t, traceID(), traceID())
}
