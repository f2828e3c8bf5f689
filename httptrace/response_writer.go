package httptrace

import (
	"fmt"
	"net/http"

	"github.com/luxas/deklarative-httptrace/json"
	"go.opentelemetry.io/otel/trace"
)

// TraceResponseHeader is the response header carrying the trace and span
// ID of the request span, in the W3C traceparent format.
const TraceResponseHeader = "traceresponse"

// TraceResponse formats sc as a TraceResponseHeader value,
// "00-{trace-id}-{span-id}-01".
func TraceResponse(sc trace.SpanContext) string {
	return fmt.Sprintf("00-%s-%s-01", sc.TraceID(), sc.SpanID())
}

// JSONResponder is implemented by http.ResponseWriters that know how to
// send a JSON body. Writers given to decorated handlers implement it;
// use WriteJSON rather than calling it directly.
type JSONResponder interface {
	JSON(body interface{}) error
}

// WriteJSON sends body as JSON through w. If w is a JSONResponder, sending
// is delegated to it, otherwise body is encoded and written with the
// "application/json" content type. The error of the underlying send, if
// any, is returned.
func WriteJSON(w http.ResponseWriter, body interface{}) error {
	if jr, ok := w.(JSONResponder); ok {
		return jr.JSON(body)
	}
	return writeJSON(w, body)
}

func writeJSON(w http.ResponseWriter, body interface{}) error {
	b, err := json.Marshal(body, json.EscapeHTML(false))
	if err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, err = w.Write(b)
	return err
}

// statusReporter is implemented by http.ResponseWriters knowing the
// status code of the response.
type statusReporter interface {
	Status() int
}

// statusOf returns the status code w reports, or http.StatusOK.
func statusOf(w http.ResponseWriter) int {
	if sr, ok := w.(statusReporter); ok {
		if code := sr.Status(); code > 0 {
			return code
		}
	}
	return http.StatusOK
}

var (
	_ JSONResponder  = &responseWriter{}
	_ statusReporter = &responseWriter{}
	_ http.Flusher   = &responseWriter{}
)

// responseWriter is a composite http.ResponseWriter recording JSON bodies
// with span, and the status code written.
type responseWriter struct {
	http.ResponseWriter

	span        trace.Span
	status      int
	wroteHeader bool
}

func newResponseWriter(w http.ResponseWriter, span trace.Span) *responseWriter {
	return &responseWriter{ResponseWriter: w, span: span, status: statusOf(w)}
}

func (w *responseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(p []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(p)
}

// JSON records a non-nil body as the response body attribute, and sends it
// using the underlying writer. If the same response sends JSON multiple
// times, the last body is recorded.
func (w *responseWriter) JSON(body interface{}) error {
	if body != nil {
		if s, err := json.MarshalString(body, json.EscapeHTML(false)); err == nil {
			w.span.SetAttributes(ResponseBodyKey.String(s))
		}
	}
	if jr, ok := w.ResponseWriter.(JSONResponder); ok {
		return jr.JSON(body)
	}
	return writeJSON(w, body)
}

// Status returns the status code of the response; if nothing has been
// written yet, the status reported by the underlying writer.
func (w *responseWriter) Status() int { return w.status }

func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		w.wroteHeader = true
		f.Flush()
	}
}

// Unwrap returns the underlying http.ResponseWriter, for use with
// http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
