package httptrace_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/luxas/deklarative-httptrace/httptrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func ExampleDecorate() {
	// Record the ended spans in memory; in production, use tracing.Provider().
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	h := httptrace.Decorator().
		WithTracerProvider(tp).
		WithRoute("/api/ping").
		Func(func(w http.ResponseWriter, r *http.Request) error {
			return httptrace.WriteJSON(w, map[string]string{"status": "ok"})
		})

	req := httptest.NewRequest(http.MethodGet, "/api/ping?verbose=1", nil)
	rec := httptest.NewRecorder()
	if err := h(rec, req); err != nil {
		fmt.Println(err)
		return
	}

	span := recorder.Ended()[0]
	fmt.Println(span.Name(), span.SpanKind())
	for _, kv := range span.Attributes() {
		switch kv.Key {
		case "http.target", "http.url", "http.route", "http.response.body":
			fmt.Printf("%s=%s\n", kv.Key, kv.Value.Emit())
		}
	}
	fmt.Println(rec.Body.String())

	// Output:
	// HTTP GET server
	// http.target=/api/ping
	// http.url=http://example.com/api/ping?verbose=1
	// http.route=/api/ping
	// http.response.body={"status":"ok"}
	// {"status":"ok"}
}
