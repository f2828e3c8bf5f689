package tracing

import (
	"context"
	"io"
	"math/rand"
	"sync"

	"github.com/luxas/deklarative-httptrace/tracing/traceyaml"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
)

// DefaultServiceName is the "service.name" resource attribute registered
// by TracerProviderBuilder unless overridden through WithAttributes.
const DefaultServiceName = "deklarative-httptrace"

// CompositeTracerProviderFunc builds a composite TracerProvider from the given
// TracerProvider. If the returned TracerProvider doesn't implement Shutdown or
// ForceFlush, the "parent" TracerProvider will be used.
type CompositeTracerProviderFunc func(TracerProvider) trace.TracerProvider

// Provider returns a new *TracerProviderBuilder instance.
func Provider() *TracerProviderBuilder {
	return &TracerProviderBuilder{}
}

// TracerProviderBuilder is an opinionated builder-pattern constructor for a
// TracerProvider that can export spans to stdout, or an OpenTelemetry
// Collector over gRPC or HTTP.
type TracerProviderBuilder struct {
	exporters    []tracesdk.SpanExporter
	errs         []error
	tpOpts       []tracesdk.TracerProviderOption
	attrs        []attribute.KeyValue
	sync         bool
	compositeFns []CompositeTracerProviderFunc
}

func (b *TracerProviderBuilder) withExporter(exp tracesdk.SpanExporter, err error) *TracerProviderBuilder {
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.exporters = append(b.exporters, exp)
	return b
}

// WithInsecureOTelExporter registers an exporter to an OpenTelemetry Collector on the
// given address, which defaults to "localhost:4317" if addr is empty. The OpenTelemetry
// Collector speaks gRPC, hence, don't add any "http(s)://" prefix to addr. Additional
// options can be supplied that can override the default behavior.
func (b *TracerProviderBuilder) WithInsecureOTelExporter(ctx context.Context, addr string, opts ...otlptracegrpc.Option) *TracerProviderBuilder {
	if len(addr) == 0 {
		addr = "localhost:4317"
	}

	defaultOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(addr),
		otlptracegrpc.WithInsecure(),
	}
	// Make sure to order the defaultOpts first, so opts can override the default ones
	opts = append(defaultOpts, opts...)
	return b.withExporter(otlptracegrpc.New(ctx, opts...))
}

// WithInsecureOTelHTTPExporter registers an exporter to an OpenTelemetry Collector
// speaking OTLP over HTTP on the given host:port address, which defaults to
// "localhost:4318" if addr is empty. Additional options can be supplied that can
// override the default behavior.
func (b *TracerProviderBuilder) WithInsecureOTelHTTPExporter(ctx context.Context, addr string, opts ...otlptracehttp.Option) *TracerProviderBuilder {
	if len(addr) == 0 {
		addr = "localhost:4318"
	}

	defaultOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(addr),
		otlptracehttp.WithInsecure(),
	}
	opts = append(defaultOpts, opts...)
	return b.withExporter(otlptracehttp.New(ctx, opts...))
}

// WithStdoutExporter exports pretty-formatted telemetry data to os.Stdout, or another writer if
// stdouttrace.WithWriter(w) is supplied as an option.
func (b *TracerProviderBuilder) WithStdoutExporter(opts ...stdouttrace.Option) *TracerProviderBuilder {
	defaultOpts := []stdouttrace.Option{
		stdouttrace.WithPrettyPrint(),
	}
	// Make sure to order the defaultOpts first, so opts can override the default ones
	opts = append(defaultOpts, opts...)
	return b.withExporter(stdouttrace.New(opts...))
}

// WithExporter registers an arbitrary exporter, for example a
// tracetest.InMemoryExporter in unit tests.
func (b *TracerProviderBuilder) WithExporter(exp tracesdk.SpanExporter) *TracerProviderBuilder {
	return b.withExporter(exp, nil)
}

// WithOptions allows configuring the TracerProvider in various ways, for example tracesdk.WithSpanProcessor(sp)
// or tracesdk.WithIDGenerator().
func (b *TracerProviderBuilder) WithOptions(opts ...tracesdk.TracerProviderOption) *TracerProviderBuilder {
	b.tpOpts = append(b.tpOpts, opts...)
	return b
}

// WithAttributes allows registering more default attributes for traces created by this TracerProvider.
// By default semantic conventions of version v1.4.0 are used, with "service.name" => DefaultServiceName.
func (b *TracerProviderBuilder) WithAttributes(attrs ...attribute.KeyValue) *TracerProviderBuilder {
	b.attrs = append(b.attrs, attrs...)
	return b
}

// Synchronous allows configuring whether the exporters should export in synchronous mode,
// which is useful for avoiding flakes in unit tests. The default mode is batching.
// DO NOT use in production.
func (b *TracerProviderBuilder) Synchronous() *TracerProviderBuilder {
	b.sync = true
	return b
}

// Composite builds a composite TracerProvider from the resulting TracerProvider
// when Build() is called. If the returned TracerProvider doesn't implement Shutdown or
// ForceFlush, the "parent" TracerProvider will be used. It is possible to build a
// chain of composite TracerProviders by calling this function repeatedly.
func (b *TracerProviderBuilder) Composite(fn CompositeTracerProviderFunc) *TracerProviderBuilder {
	b.compositeFns = append(b.compositeFns, fn)
	return b
}

// TestYAMLTo builds a composite TracerProvider that uses traceyaml.New() to write
// trace testing YAML to writer w. See traceyaml.New for more information about how
// it works.
//
// This is useful for unit tests.
func (b *TracerProviderBuilder) TestYAMLTo(w io.Writer) *TracerProviderBuilder {
	return b.Composite(func(tp TracerProvider) trace.TracerProvider {
		return traceyaml.New(tp, w)
	})
}

// DeterministicIDs enables deterministic trace and span IDs. Useful for unit tests.
// DO NOT use in production.
func (b *TracerProviderBuilder) DeterministicIDs(seed int64) *TracerProviderBuilder {
	return b.WithOptions(tracesdk.WithIDGenerator(deterministicWithSeed(seed)))
}

// Build builds the TracerProvider.
func (b *TracerProviderBuilder) Build() (TracerProvider, error) {
	// Combine and filter the errors from the exporter building
	if err := multierr.Combine(b.errs...); err != nil {
		return nil, err
	}
	// This can be overridden through WithAttributes
	attrs := []attribute.KeyValue{
		semconv.ServiceNameKey.String(DefaultServiceName),
	}
	// Make sure to order the default attrs first, so b.attrs can override the default ones
	attrs = append(attrs, b.attrs...)

	tpOpts := []tracesdk.TracerProviderOption{
		// Record information about this application in an Resource.
		tracesdk.WithResource(resource.NewWithAttributes(semconv.SchemaURL, attrs...)),
	}

	for _, exporter := range b.exporters {
		// The non-syncing mode shall only be used in testing. The batching mode must be used in production.
		if b.sync {
			tpOpts = append(tpOpts, tracesdk.WithSyncer(exporter))
			continue
		}

		tpOpts = append(tpOpts, tracesdk.WithBatcher(exporter))
	}

	// Make sure to order the defaultTpOpts first, so b.tpOpts can override the default ones
	tpOpts = append(tpOpts, b.tpOpts...)
	sdktp := tracesdk.NewTracerProvider(tpOpts...)

	// Compose a set of TracerProviders on top of each other
	tp := FromUpstream(sdktp)
	for _, fn := range b.compositeFns {
		tp = composite(fn(tp), tp)
	}
	return tp, nil
}

// InstallGlobally builds the TracerProvider and registers it globally using otel.SetTracerProvider(tp).
func (b *TracerProviderBuilder) InstallGlobally() (TracerProvider, error) {
	tp, err := b.Build()
	if err != nil {
		return nil, err
	}
	SetGlobalTracerProvider(tp)
	return tp, nil
}

type deterministicIDGenerator struct {
	mu  *sync.Mutex
	rnd *rand.Rand
}

func (g *deterministicIDGenerator) NewSpanID(context.Context, trace.TraceID) trace.SpanID {
	g.mu.Lock()
	defer g.mu.Unlock()
	sid := trace.SpanID{}
	_, _ = g.rnd.Read(sid[:])
	return sid
}

func (g *deterministicIDGenerator) NewIDs(context.Context) (trace.TraceID, trace.SpanID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	tid := trace.TraceID{}
	_, _ = g.rnd.Read(tid[:])
	sid := trace.SpanID{}
	_, _ = g.rnd.Read(sid[:])
	return tid, sid
}

func deterministicWithSeed(seed int64) tracesdk.IDGenerator {
	return &deterministicIDGenerator{
		mu: &sync.Mutex{},
		// Use the "weak" random number generator math/rand, not the more secure
		// crypto/rand because we specifically don't want secure randomness but
		// deterministicness for unit tests.
		//nolint:gosec
		rnd: rand.New(rand.NewSource(seed)),
	}
}
