package httptrace

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// jsonRecorder is a http.ResponseWriter with its own way of sending JSON.
type jsonRecorder struct {
	*httptest.ResponseRecorder
	bodies []interface{}
	err    error
}

func (r *jsonRecorder) JSON(body interface{}) error {
	r.bodies = append(r.bodies, body)
	return r.err
}

func TestResponseWriter_delegatesJSON(t *testing.T) {
	errSend := errors.New("connection reset") //nolint:goerr113
	sr, tp := newRecorder()
	payload := item{ID: 1, Name: "x"}
	h := Decorator().WithTracerProvider(tp).Func(func(w http.ResponseWriter, r *http.Request) error {
		return WriteJSON(w, payload)
	})

	w := &jsonRecorder{ResponseRecorder: httptest.NewRecorder(), err: errSend}
	err := h(w, newRequest(http.MethodGet, "/items/1", nil))
	assert.ErrorIs(t, err, errSend)
	assert.Equal(t, []interface{}{payload}, w.bodies)
	assert.Empty(t, w.Body.String())

	attrs := attrsOf(onlySpan(t, sr))
	assert.Equal(t, `{"id":1,"name":"x"}`, attrs["http.response.body"].AsString())
}

func TestResponseWriter_lastJSONWins(t *testing.T) {
	sr, tp := newRecorder()
	h := Decorator().WithTracerProvider(tp).Func(func(w http.ResponseWriter, r *http.Request) error {
		if err := WriteJSON(w, []int{1}); err != nil {
			return err
		}
		return WriteJSON(w, []int{2})
	})

	require.NoError(t, h(httptest.NewRecorder(), newRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, "[2]", attrsOf(onlySpan(t, sr))["http.response.body"].AsString())
}

func TestResponseWriter_unencodableJSON(t *testing.T) {
	sr, tp := newRecorder()
	h := Decorator().WithTracerProvider(tp).Func(func(w http.ResponseWriter, r *http.Request) error {
		return WriteJSON(w, func() {})
	})

	assert.Error(t, h(httptest.NewRecorder(), newRequest(http.MethodGet, "/", nil)))
	assert.NotContains(t, attrsOf(onlySpan(t, sr)), ResponseBodyKey)
}

func TestWriteJSON_plainWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, map[string]string{"html": "<b>"}))
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"html":"<b>"}`, rec.Body.String())
}

func TestResponseWriter_status(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec, nil)
	assert.Equal(t, http.StatusOK, rw.Status())

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusCreated, rw.Status())
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Nested writers report the status of the outer one.
	assert.Equal(t, http.StatusCreated, newResponseWriter(rw, nil).Status())
}

func TestResponseWriter_controller(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec, nil)
	require.NoError(t, http.NewResponseController(rw).Flush())
	assert.True(t, rec.Flushed)
	assert.Same(t, rec, rw.Unwrap())
}
