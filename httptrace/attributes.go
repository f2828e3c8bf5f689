package httptrace

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/luxas/deklarative-httptrace/json"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// Attribute keys that are not part of the semantic conventions.
const (
	SyntheticRequestKey = attribute.Key("app.synthetic_request")
	RequestHeadersKey   = attribute.Key("http.request.headers")
	RequestBodyKey      = attribute.Key("http.request.body")
	ResponseHeadersKey  = attribute.Key("http.response.headers")
	ResponseBodyKey     = attribute.Key("http.response.body")
)

// DefaultMaxBodyBytes is the largest request body recorded by default.
const DefaultMaxBodyBytes = 64 << 10

// requestAttributes returns the span start attributes of r. body is the
// already-read request body, or nil if it should not be recorded.
func requestAttributes(r *http.Request, status int, body []byte, route string) []attribute.KeyValue {
	uri := requestURI(r)
	attrs := []attribute.KeyValue{
		SyntheticRequestKey.Bool(true),
		semconv.HTTPTargetKey.String(targetOf(uri)),
		semconv.HTTPStatusCodeKey.Int(status),
		semconv.HTTPMethodKey.String(r.Method),
		semconv.HTTPUserAgentKey.String(r.UserAgent()),
		semconv.HTTPURLKey.String("http://" + r.Host + uri),
		semconv.HTTPFlavorKey.String(fmt.Sprintf("%d.%d", r.ProtoMajor, r.ProtoMinor)),
	}
	if headers, ok := marshalHeaders(r.Header, r.Host); ok {
		attrs = append(attrs, RequestHeadersKey.String(headers))
	}
	if len(body) != 0 {
		attrs = append(attrs, RequestBodyKey.String(marshalBody(body)))
	}
	if route != "" {
		attrs = append(attrs, semconv.HTTPRouteKey.String(route))
	}
	return attrs
}

// requestURI returns the unmodified request-target of r in origin form,
// i.e. the path and query.
func requestURI(r *http.Request) string {
	if r.RequestURI == "" || r.URL.IsAbs() {
		return r.URL.RequestURI()
	}
	return r.RequestURI
}

func targetOf(uri string) string {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		return uri[:i]
	}
	return uri
}

// marshalHeaders serializes h as a JSON object with lower-case names.
// Single-valued headers are strings, others arrays. If host is non-empty,
// it is included as "host", as Go removes it from the header map.
func marshalHeaders(h http.Header, host string) (string, bool) {
	obj := make(map[string]interface{}, len(h)+1)
	for name, values := range h {
		name = strings.ToLower(name)
		if len(values) == 1 {
			obj[name] = values[0]
		} else {
			obj[name] = values
		}
	}
	if _, ok := obj["host"]; !ok && host != "" {
		obj["host"] = host
	}
	s, err := json.MarshalString(obj, json.EscapeHTML(false))
	return s, err == nil
}

// marshalBody returns body compacted if it is JSON, or as a JSON string
// otherwise.
func marshalBody(body []byte) string {
	if json.Valid(body) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, body); err == nil {
			return buf.String()
		}
	}
	s, err := json.MarshalString(string(body), json.EscapeHTML(false))
	if err != nil {
		return ""
	}
	return s
}

// readBody reads up to limit+1 bytes of body, and returns a replacement
// body from which the handler still reads the full, unmodified content.
// The returned bytes are nil if the body is empty, larger than limit or
// could not be read.
func readBody(body io.ReadCloser, limit int64) ([]byte, io.ReadCloser) {
	if body == nil || body == http.NoBody || limit <= 0 {
		return nil, body
	}
	buf, err := io.ReadAll(io.LimitReader(body, limit+1))
	replay := &replayBody{
		Reader: io.MultiReader(bytes.NewReader(buf), body),
		Closer: body,
	}
	if err != nil || int64(len(buf)) > limit || len(buf) == 0 {
		return nil, replay
	}
	return buf, replay
}

type replayBody struct {
	io.Reader
	io.Closer
}
