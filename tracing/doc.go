/*
Package tracing includes high-level tools for connecting OpenTelemetry
traces with go-logr logs, used by package httptrace for instrumenting
HTTP requests.

The core idea of interconnecting logs and traces is that when some metadata is
registered with a span (for example, it starts, ends, or has attributes or errors
registered), information about this is also logged, see LoggingSpan. And upon
logging something through a Logger returned by SpanLogger, the key/value pairs
are also registered with the span.

This means you have dual ways of looking at your application's execution; the
"waterfall" visualization of spans in a trace in an OpenTelemetry-compliant UI,
or through pluggable logging using logr. Log output for a request would look
something like:

	{"level":"info(v=0)","logger":"HTTP GET","msg":"starting span","span-attr-http.method":"GET"}
	{"level":"info(v=0)","logger":"HTTP GET","msg":"span attribute change","span-attr-http.response.body":"{}"}
	{"level":"info(v=0)","logger":"HTTP GET","msg":"ending span"}

A context might carry a TracerProvider to use for exporting span data, and a
logr.Logger to which logs are sent; see ContextBuilder. If none are given,
the globally-registered ones are used, see SetGlobalTracerProvider and
SetGlobalLogger.

The application owner wanting to (maybe conditionally) enable tracing and
logging creates "backend" implementations of TracerProvider and Logger, using
the TracerProviderBuilder (also configurable from the environment, see
ProviderFromEnv) and the zaplog.Builder. These backends control where the
telemetry data is sent, and how much of it is enabled.

In package traceyaml there are utilities for unit testing the traces. In package
filetest there are utilities for using "golden" testdata/ files for comparing actual
output of loggers, tracers, and general writers against expected output. Both the
TracerProviderBuilder and zaplog.Builder support deterministic output for unit tests
and examples.
*/
package tracing
