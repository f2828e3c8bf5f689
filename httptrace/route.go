package httptrace

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouteFunc resolves the route template matched by r, e.g. "/users/{id}",
// or "" if it is not known.
type RouteFunc func(r *http.Request) string

// StaticRoute returns a RouteFunc always returning route.
func StaticRoute(route string) RouteFunc {
	return func(*http.Request) string { return route }
}

// MuxRoute resolves the path template of the gorilla/mux route matching
// r. The decorator must then be registered as mux middleware, for the
// route to be known when the request starts.
func MuxRoute(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return ""
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return ""
	}
	return tpl
}
