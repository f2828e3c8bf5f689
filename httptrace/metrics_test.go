package httptrace

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewMetrics("test", registry)
	require.NoError(t, err)

	_, tp := newRecorder()
	b := Decorator().WithTracerProvider(tp).WithRoute("/items/{id}").WithMetrics(m)
	found := b.Func(func(w http.ResponseWriter, r *http.Request) error { return WriteJSON(w, item{ID: 1}) })
	missing := b.Func(func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusNotFound)
		return nil
	})
	failing := b.Func(func(http.ResponseWriter, *http.Request) error { return errBoom })

	for _, h := range []HandlerFunc{found, found, missing, failing} {
		_ = h(httptest.NewRecorder(), newRequest(http.MethodGet, "/items/1", nil))
	}

	// The failing handler did not write a status.
	assert.Equal(t, 3.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/items/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/items/{id}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failuresTotal.WithLabelValues("GET", "/items/{id}")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))
}

func TestMetrics_panic(t *testing.T) {
	m, err := NewMetrics("test", prometheus.NewRegistry())
	require.NoError(t, err)

	_, tp := newRecorder()
	h := Decorator().WithTracerProvider(tp).WithMetrics(m).Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.Panics(t, func() { h.ServeHTTP(httptest.NewRecorder(), newRequest(http.MethodPost, "/", nil)) })
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failuresTotal.WithLabelValues("POST", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "", PanicCode)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "", "200")))
}

func TestNewMetrics_duplicate(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewMetrics("test", registry)
	require.NoError(t, err)

	_, err = NewMetrics("test", registry)
	assert.Error(t, err)
}

func TestMetrics_nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.observe("GET", "/", "200", false, 0) })
}
