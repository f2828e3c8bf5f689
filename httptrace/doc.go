/*
Package httptrace decorates HTTP handlers such that every request they
serve is described by one server-kind OpenTelemetry span, without the
handler knowing about tracing.

For each request, the decorator

	1. starts a new root span named "HTTP {method}", linked to (but not
	   a child of) whatever span the request context already carries,
	   with attributes describing the request;
	2. sets the "traceresponse" response header, 00-{trace-id}-{span-id}-01,
	   such that clients can correlate their call with the trace;
	3. runs the handler with the span, and a Logger registering its
	   key/value pairs with the span, set in the request context;
	4. records a JSON body sent through WriteJSON as an attribute;
	5. records a returned error or panic with the span, and passes it on
	   unchanged;
	6. records the response headers when the handler succeeded, and
	   always ends the span.

The span attributes follow the OpenTelemetry semantic conventions v1.4.0
(http.method, http.target, http.url, http.flavor, http.user_agent,
http.status_code and http.route), plus app.synthetic_request,
http.request.headers, http.request.body, http.response.headers and
http.response.body, all serialized as JSON.

Note that http.status_code is read before the handler runs. Unless the
http.ResponseWriter reports another status through a Status() int
method, it is always 200, whatever status the handler writes later. Use
Metrics to observe final status codes.

Handlers that can fail are written as a HandlerFunc:

	h := httptrace.Decorate(func(w http.ResponseWriter, r *http.Request) error {
		return httptrace.WriteJSON(w, map[string]string{"status": "ok"})
	}, "/api/ping")

Plain http.Handlers are decorated through the builder; panics are what
is recorded for them:

	mux.Handle("/", httptrace.Decorator().WithRoute("/").Handler(h))
*/
package httptrace
