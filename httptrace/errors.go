package httptrace

import (
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PanicError describes a panic recovered while serving a request. It is
// only used for recording the panic with the span; the decorator panics
// again with Value after recording.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Unwrap returns Value if it is an error, such that errors.Is(err,
// http.ErrAbortHandler) works as expected.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// recordFailure registers err as an exception event with span, and marks
// the span as failed.
func recordFailure(span trace.Span, err error, opts ...trace.EventOption) {
	span.RecordError(err, opts...)
	span.SetStatus(codes.Error, err.Error())
}
