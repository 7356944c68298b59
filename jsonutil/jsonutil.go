// Package jsonutil provides thin wrappers around sonic for
// performance-sensitive encoding and decoding tasks.
package jsonutil

import (
	"io"

	"github.com/bytedance/sonic"
)

// The std-compatible sonic config keeps map keys sorted so serialized
// payloads are deterministic.
var api = sonic.ConfigStd

// Marshal encodes v into a compact JSON byte slice.
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// MarshalIndent encodes v into indented JSON, mirroring the signature of
// encoding/json.MarshalIndent.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// Encode streams the JSON encoding of v into w.
func Encode(w io.Writer, v any) error {
	return api.NewEncoder(w).Encode(v)
}

// Decode reads a JSON value from r into v.
func Decode(r io.Reader, v any) error {
	return api.NewDecoder(r).Decode(v)
}
