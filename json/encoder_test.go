package json

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalString_sortsMapKeys(t *testing.T) {
	got, err := MarshalString(map[string]interface{}{
		"user-agent": "curl/8.0",
		"host":       "x.test",
		"accept":     []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"accept":["a","b"],"host":"x.test","user-agent":"curl/8.0"}`, got)
}

func TestMarshal_escapeHTML(t *testing.T) {
	tests := []struct {
		name string
		opts []EncoderOption
		want string
	}{
		{name: "default", want: `"\u003cb\u003e"`},
		{name: "escape", opts: []EncoderOption{EscapeHTML(true)}, want: `"\u003cb\u003e"`},
		{name: "no escape", opts: []EncoderOption{EscapeHTML(false)}, want: `"<b>"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal("<b>", tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshal_rawMessage(t *testing.T) {
	got, err := Marshal(map[string]RawMessage{"a": RawMessage(`{"b":1}`)})
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"b":1}}`, string(got))
}

func TestCompact(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Compact(&buf, []byte("{ \"a\" : [1, 2] }\n")))
	assert.Equal(t, `{"a":[1,2]}`, buf.String())
	assert.True(t, Valid([]byte(`{"a":1}`)))
	assert.False(t, Valid([]byte(`{"a":`)))
}
