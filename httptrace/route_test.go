package httptrace

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestMuxRoute(t *testing.T) {
	sr, tp := newRecorder()
	router := mux.NewRouter()
	router.Use(Decorator().WithTracerProvider(tp).WithRouteFunc(MuxRoute).Middleware)

	var id string
	router.HandleFunc("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id = mux.Vars(r)["id"]
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newRequest(http.MethodGet, "/users/42", nil))

	assert.Equal(t, "42", id)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	attrs := attrsOf(onlySpan(t, sr))
	assert.Equal(t, "/users/{id}", attrs["http.route"].AsString())
	assert.Equal(t, "/users/42", attrs["http.target"].AsString())
}

func TestMuxRoute_noRoute(t *testing.T) {
	assert.Equal(t, "", MuxRoute(newRequest(http.MethodGet, "/", nil)))
}

func TestDecorator_withRoute(t *testing.T) {
	b := Decorator().WithRoute("/a")
	assert.Equal(t, "/a", b.build().route(nil))

	b.WithRoute("")
	assert.Equal(t, "", b.build().route(nil))
}
