package httptrace

import (
	"net/http"

	"github.com/luxas/deklarative-httptrace/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HandlerFunc is a http.HandlerFunc that can fail. Decorated HandlerFuncs
// return the error of the inner HandlerFunc as-is.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ServeHTTP calls h, discarding the error. It makes HandlerFunc a
// http.Handler.
func (h HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) { _ = h(w, r) }

// Decorate traces every request h serves. route is the route template h
// is registered for; it is recorded with the span unless empty.
//
// This is a shorthand for Decorator().WithRoute(route).Func(h).
func Decorate(h HandlerFunc, route string) HandlerFunc {
	return Decorator().WithRoute(route).Func(h)
}

// Decorator returns a new *DecoratorBuilder.
func Decorator() *DecoratorBuilder {
	return &DecoratorBuilder{
		prop:    DefaultPropagation(),
		maxBody: DefaultMaxBodyBytes,
	}
}

// DecoratorBuilder configures how requests are traced. The configuration
// is copied when one of Func, Handler or Middleware is called; modifying
// the builder after that does not affect already-decorated handlers.
type DecoratorBuilder struct {
	tp      trace.TracerProvider
	log     tracing.Logger
	hasLog  bool
	prop    Propagation
	routeFn RouteFunc
	attrs   []attribute.KeyValue
	maxBody int64
	metrics *Metrics
}

// WithRoute records route as the http.route attribute of every request.
//
// A call to this function overwrites any previous route or RouteFunc.
func (b *DecoratorBuilder) WithRoute(route string) *DecoratorBuilder {
	if route == "" {
		b.routeFn = nil
		return b
	}
	return b.WithRouteFunc(StaticRoute(route))
}

// WithRouteFunc resolves the http.route attribute of every request using
// fn, e.g. MuxRoute.
//
// A call to this function overwrites any previous route or RouteFunc.
func (b *DecoratorBuilder) WithRouteFunc(fn RouteFunc) *DecoratorBuilder {
	b.routeFn = fn
	return b
}

// WithTracerProvider specifies the TracerProvider to start request spans
// with. By default, tracing.TracerProviderFromContext is used to resolve
// it from the request context.
//
// A call to this function overwrites any previous value.
func (b *DecoratorBuilder) WithTracerProvider(tp trace.TracerProvider) *DecoratorBuilder {
	b.tp = tp
	return b
}

// WithLogger specifies the Logger that span operations are logged to. By
// default, tracing.LoggerFromContext is used to resolve it from the
// request context.
//
// A call to this function overwrites any previous value.
func (b *DecoratorBuilder) WithLogger(log tracing.Logger) *DecoratorBuilder {
	b.log = log
	b.hasLog = true
	return b
}

// WithPropagation specifies how the active span is resolved from and set
// in the request context. The default is DefaultPropagation().
//
// A call to this function overwrites any previous value.
func (b *DecoratorBuilder) WithPropagation(prop Propagation) *DecoratorBuilder {
	if prop == nil {
		prop = DefaultPropagation()
	}
	b.prop = prop
	return b
}

// WithAttributes registers attributes that are added to every request span
// when it starts.
//
// A call to this function appends to the list of previous values.
func (b *DecoratorBuilder) WithAttributes(attrs ...attribute.KeyValue) *DecoratorBuilder {
	b.attrs = append(b.attrs, attrs...)
	return b
}

// WithMaxBodyBytes sets the size limit of recorded request bodies. Larger
// bodies are not recorded, but still passed to the handler. A limit of
// zero or less disables recording request bodies.
//
// A call to this function overwrites any previous value.
func (b *DecoratorBuilder) WithMaxBodyBytes(limit int64) *DecoratorBuilder {
	b.maxBody = limit
	return b
}

// WithMetrics records every request with m.
//
// A call to this function overwrites any previous value.
func (b *DecoratorBuilder) WithMetrics(m *Metrics) *DecoratorBuilder {
	b.metrics = m
	return b
}

// Func decorates next.
func (b *DecoratorBuilder) Func(next HandlerFunc) HandlerFunc {
	d := b.build()
	return func(w http.ResponseWriter, r *http.Request) error {
		return d.serve(w, r, next)
	}
}

// Handler decorates next. As http.Handlers cannot return errors, only
// panics are recorded as failures.
func (b *DecoratorBuilder) Handler(next http.Handler) http.Handler {
	d := b.build()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = d.serve(w, r, func(w http.ResponseWriter, r *http.Request) error {
			next.ServeHTTP(w, r)
			return nil
		})
	})
}

// Middleware is the same as Handler. It can be registered with routers
// such as gorilla/mux, using router.Use(b.Middleware).
func (b *DecoratorBuilder) Middleware(next http.Handler) http.Handler {
	return b.Handler(next)
}

func (b *DecoratorBuilder) build() *decorator {
	return &decorator{
		tp:      b.tp,
		log:     b.log,
		hasLog:  b.hasLog,
		prop:    b.prop,
		routeFn: b.routeFn,
		attrs:   append([]attribute.KeyValue(nil), b.attrs...),
		maxBody: b.maxBody,
		metrics: b.metrics,
	}
}
