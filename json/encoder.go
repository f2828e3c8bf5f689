// Package json serializes values into the compact JSON strings used as
// span attribute values. It is backed by github.com/json-iterator/go with
// map keys sorted, so equal inputs always produce equal output.
package json

import (
	jsoniter "github.com/json-iterator/go"
)

// EncoderOption applies an option to the target EncoderOptions.
type EncoderOption interface {
	applyToEncoder(*EncoderOptions)
}

func defaultEncoderOpts() *EncoderOptions {
	return &EncoderOptions{
		// match encoding/json default
		EscapeHTML: boolVar(true),
	}
}
func boolVar(b bool) *bool { return &b }

// EncoderOptions configures Marshal.
type EncoderOptions struct {
	// EscapeHTML specifies whether the characters <, > and & shall be
	// escaped inside JSON strings.
	//
	// Default: true
	EscapeHTML *bool
}

// EscapeHTML returns an EncoderOption setting EncoderOptions.EscapeHTML.
func EscapeHTML(escape bool) EncoderOption {
	return &EncoderOptions{EscapeHTML: &escape}
}

func (o *EncoderOptions) applyToEncoder(target *EncoderOptions) {
	if o.EscapeHTML != nil {
		target.EscapeHTML = o.EscapeHTML
	}
}

func (o *EncoderOptions) applyOptions(opts []EncoderOption) *EncoderOptions {
	for _, opt := range opts {
		opt.applyToEncoder(o)
	}
	return o
}

func (o *EncoderOptions) toJSONIter() jsoniter.API {
	return jsoniterForConfig(jsoniterConfig{escapeHTML: *o.EscapeHTML})
}

// Marshal encodes obj into compact JSON.
func Marshal(obj interface{}, opts ...EncoderOption) ([]byte, error) {
	o := defaultEncoderOpts().applyOptions(opts)
	return o.toJSONIter().Marshal(obj)
}

// MarshalString is like Marshal, but returns a string.
func MarshalString(obj interface{}, opts ...EncoderOption) (string, error) {
	o := defaultEncoderOpts().applyOptions(opts)
	return o.toJSONIter().MarshalToString(obj)
}
