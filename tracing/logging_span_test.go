package tracing

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace/noop"
)

func ExampleLoggingSpan() {
	log := NewZap().Example().Build().WithName("db")
	_, span := noop.NewTracerProvider().Tracer("example").Start(context.Background(), "query")

	LogSpanStart(log, []attribute.KeyValue{attribute.String("table", "users")})
	span = LoggingSpan(span, log)
	span.SetAttributes(attribute.Int("rows", 3))
	span.AddEvent("cache miss")
	span.RecordError(errors.New("timeout")) //nolint:goerr113
	span.SetStatus(codes.Error, "timeout")
	span.End()

	// Output:
	// {"level":"info(v=0)","logger":"db","msg":"starting span","span-attr-table":"users"}
	// {"level":"info(v=0)","logger":"db","msg":"span attribute change","span-attr-rows":3}
	// {"level":"info(v=0)","logger":"db","msg":"span event","span-event":"cache miss"}
	// {"level":"error","logger":"db","msg":"span error","error":"timeout"}
	// {"level":"info(v=0)","logger":"db","msg":"span status change","span-status-code":"Error","span-status-description":"timeout"}
	// {"level":"info(v=0)","logger":"db","msg":"ending span"}
}
