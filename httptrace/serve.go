package httptrace

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/luxas/deklarative-httptrace/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the name of the tracer request spans are started
// with.
const InstrumentationName = "github.com/luxas/deklarative-httptrace"

type decorator struct {
	tp      trace.TracerProvider
	log     tracing.Logger
	hasLog  bool
	prop    Propagation
	routeFn RouteFunc
	attrs   []attribute.KeyValue
	maxBody int64
	metrics *Metrics
}

func (d *decorator) tracerProvider(ctx context.Context) trace.TracerProvider {
	if d.tp != nil {
		return d.tp
	}
	return tracing.TracerProviderFromContext(ctx)
}

func (d *decorator) logger(ctx context.Context) tracing.Logger {
	if d.hasLog {
		return d.log
	}
	return tracing.LoggerFromContext(ctx)
}

func (d *decorator) route(r *http.Request) string {
	if d.routeFn == nil {
		return ""
	}
	return d.routeFn(r)
}

// serve runs next within a new request span.
func (d *decorator) serve(w http.ResponseWriter, r *http.Request, next HandlerFunc) error {
	start := time.Now()
	ctx := r.Context()
	route := d.route(r)

	limit := d.maxBody
	if r.Header.Get("Expect") != "" {
		// Reading would send "100 Continue" before the handler can refuse.
		limit = 0
	}
	body, replay := readBody(r.Body, limit)
	attrs := append(requestAttributes(r, statusOf(w), body, route), d.attrs...)

	// The span the request context carries is typically not related to
	// this request; link it rather than parenting the request span to it.
	synthetic := d.prop.SpanFromContext(ctx)

	spanName := "HTTP " + r.Method
	log := d.logger(ctx).WithName(spanName)
	tracing.LogSpanStart(log, attrs)

	ctx, span := d.tracerProvider(ctx).Tracer(InstrumentationName).Start(ctx, spanName,
		trace.WithNewRoot(),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithLinks(trace.Link{SpanContext: synthetic.SpanContext()}),
		trace.WithAttributes(attrs...),
	)
	span = tracing.LoggingSpan(span, log)

	rw := newResponseWriter(w, span)
	rw.Header().Set(TraceResponseHeader, TraceResponse(span.SpanContext()))

	ctx = d.prop.ContextWithSpan(ctx, span)
	ctx = logr.NewContext(ctx, tracing.SpanLogger(log, span))
	req := r.WithContext(ctx)
	req.Body = replay

	// span.End must not be deferred directly; the SDK span would recover
	// and record the panic a second time.
	defer func() {
		p := recover()
		if p != nil {
			recordFailure(span, &PanicError{Value: p}, trace.WithStackTrace(true))
			d.metrics.observe(r.Method, route, PanicCode, true, time.Since(start))
		}
		span.End()
		if p != nil {
			panic(p)
		}
	}()

	if err := next(rw, req); err != nil {
		recordFailure(span, err)
		d.metrics.observe(r.Method, route, strconv.Itoa(rw.Status()), true, time.Since(start))
		return err
	}

	if headers, ok := marshalHeaders(rw.Header(), ""); ok {
		span.SetAttributes(ResponseHeadersKey.String(headers))
	}
	d.metrics.observe(r.Method, route, strconv.Itoa(rw.Status()), false, time.Since(start))
	return nil
}
