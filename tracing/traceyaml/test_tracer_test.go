package traceyaml

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestTracerProvider(t *testing.T) {
	var buf bytes.Buffer
	tp := New(noop.NewTracerProvider(), &buf)
	tracer := tp.Tracer("test")

	ctx, root := tracer.Start(context.Background(), "HTTP GET",
		trace.WithNewRoot(),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithLinks(trace.Link{}),
		trace.WithAttributes(attribute.String("http.method", "GET")),
	)
	_, child := tracer.Start(ctx, "query")
	child.AddEvent("cache miss")
	child.RecordError(errors.New("timeout")) //nolint:goerr113
	child.SetStatus(codes.Error, "timeout")
	child.End()
	root.SetAttributes(attribute.Int("rows", 3))
	root.End()

	roots := tp.Roots()
	require.Len(t, roots, 1)
	info := roots[0]
	assert.Equal(t, "HTTP GET", info.SpanName)
	assert.Equal(t, 1, info.Ended)
	assert.Equal(t, &SpanConfig{
		Attributes: Attributes{"http.method": "GET"},
		Links:      []Link{{TraceID: trace.TraceID{}.String(), SpanID: trace.SpanID{}.String()}},
		NewRoot:    true,
		SpanKind:   "server",
	}, info.StartConfig)
	assert.Equal(t, Attributes{"rows": int64(3)}, info.Attributes)

	require.Len(t, info.Children, 1)
	c := info.Children[0]
	assert.Equal(t, "query", c.SpanName)
	assert.Equal(t, []Event{{Name: "cache miss"}}, c.Events)
	assert.Equal(t, []Error{{Error: "timeout"}}, c.Errors)
	assert.Equal(t, []Status{{Code: "Error", Description: "timeout"}}, c.StatusChanges)

	// Only root spans are written, when they end.
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("# ")))
	assert.Contains(t, buf.String(), "# HTTP GET\n")
}
