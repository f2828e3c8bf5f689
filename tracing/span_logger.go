package tracing

import (
	"fmt"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
)

// SpanLogger returns a Logger that registers the keysAndValues given to
// Info and Error calls as attributes of span, prefixed with
// LogAttributePrefix. The message of an error given to Error is registered
// as the "error" attribute; it is not recorded as a span event, that is
// left to whoever handles the error. Log entries are then passed on to log.
//
// If log is discarding, only Info calls at V(0) are registered with the
// span.
func SpanLogger(log Logger, span Span) Logger {
	sink := log.GetSink()
	if depthSink, ok := sink.(logr.CallDepthLogSink); ok {
		// Account for this composite sink in the call stack.
		sink = depthSink.WithCallDepth(1)
	}
	return logr.New(&spanLogger{sink: sink, span: span})
}

// spanLogger is a composite logr.LogSink implementation that registers
// keysAndValues arguments of Logger.Info and Logger.Error calls with
// the span.
type spanLogger struct {
	// sink is nil if the underlying Logger is discarding.
	sink          logr.LogSink
	span          Span
	keysAndValues []interface{}
}

var (
	_ logr.LogSink          = &spanLogger{}
	_ logr.CallDepthLogSink = &spanLogger{}
)

// Init is a no-op, the underlying sink has been initialized by its Logger.
func (l *spanLogger) Init(logr.RuntimeInfo) {}

func (l *spanLogger) Enabled(level int) bool {
	if l.sink == nil {
		return level == 0
	}
	return l.sink.Enabled(level)
}

func (l *spanLogger) Info(level int, msg string, keysAndValues ...interface{}) {
	l.span.SetAttributes(l.attrs(keysAndValues)...)

	if l.sink != nil {
		l.sink.Info(level, msg, keysAndValues...)
	}
}

func (l *spanLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	attrs := l.attrs(keysAndValues)
	if err != nil {
		attrs = append(attrs, attribute.String(LogAttributePrefix+"error", err.Error()))
	}
	l.span.SetAttributes(attrs...)

	if l.sink != nil {
		l.sink.Error(err, msg, keysAndValues...)
	}
}

func (l *spanLogger) attrs(keysAndValues []interface{}) []attribute.KeyValue {
	all := make([]interface{}, 0, len(l.keysAndValues)+len(keysAndValues))
	all = append(all, l.keysAndValues...)
	return keysAndValuesToAttrs(append(all, keysAndValues...))
}

func (l *spanLogger) WithValues(keysAndValues ...interface{}) logr.LogSink {
	kv := make([]interface{}, 0, len(l.keysAndValues)+len(keysAndValues))
	kv = append(kv, l.keysAndValues...)
	kv = append(kv, keysAndValues...)

	out := &spanLogger{span: l.span, keysAndValues: kv}
	if l.sink != nil {
		out.sink = l.sink.WithValues(keysAndValues...)
	}
	return out
}

func (l *spanLogger) WithName(name string) logr.LogSink {
	out := &spanLogger{span: l.span, keysAndValues: l.keysAndValues}
	if l.sink != nil {
		out.sink = l.sink.WithName(name)
	}
	return out
}

func (l *spanLogger) WithCallDepth(depth int) logr.LogSink {
	out := &spanLogger{sink: l.sink, span: l.span, keysAndValues: l.keysAndValues}
	if depthSink, ok := l.sink.(logr.CallDepthLogSink); ok {
		out.sink = depthSink.WithCallDepth(depth)
	}
	return out
}

// keysAndValuesToAttrs converts logr key/value pairs into attributes.
// An odd number of arguments yields no attributes; pairs with a
// non-string key are skipped.
func keysAndValuesToAttrs(keysAndValues []interface{}) []attribute.KeyValue {
	keyValLen := len(keysAndValues)
	if keyValLen%2 != 0 {
		return nil
	}
	attrs := make([]attribute.KeyValue, 0, keyValLen/2)
	for i := 0; i < keyValLen; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, anyAttr(LogAttributePrefix+key, keysAndValues[i+1]))
	}
	return attrs
}

func anyAttr(key string, v interface{}) attribute.KeyValue {
	switch val := v.(type) {
	case string:
		return attribute.String(key, val)
	case bool:
		return attribute.Bool(key, val)
	case int:
		return attribute.Int(key, val)
	case int64:
		return attribute.Int64(key, val)
	case float64:
		return attribute.Float64(key, val)
	case []string:
		return attribute.StringSlice(key, val)
	case error:
		return attribute.String(key, val.Error())
	default:
		return attribute.String(key, fmt.Sprint(val))
	}
}
