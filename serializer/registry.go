// Package serializer maps mimetypes to serializer functions and negotiates
// the best mimetype for a request's accept preferences. A Registry is mutated
// during application setup only and treated as read-only once requests are
// being served.
package serializer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vitalk/apify/apierr"
)

// Well-known mimetypes seeded into every registry.
const (
	MimetypeJSON       = "application/json"
	MimetypeJavascript = "application/javascript"
	MimetypeHTML       = "text/html"
)

// ErrNoDefaultSerializer reports that the configured default mimetype has no
// registered serializer. This is a deployment misconfiguration, not a
// client-facing condition, and is deliberately distinct from the
// NotAcceptable API error.
var ErrNoDefaultSerializer = errors.New("serializer: no serializer registered for default mimetype")

// Func converts an in-memory payload into the wire-format body for one
// mimetype.
type Func func(v any) ([]byte, error)

// Registry holds the serializer function per mimetype together with the
// default mimetype used to render error responses when negotiation fails.
type Registry struct {
	defaultMimetype string
	entries         map[string]Func
}

// NewRegistry returns a registry seeded with the built-in serializers:
// text/html renders the HTML debug dump, application/json and
// application/javascript serialize to JSON.
func NewRegistry(defaultMimetype string) *Registry {
	if defaultMimetype == "" {
		defaultMimetype = MimetypeJSON
	}
	r := &Registry{
		defaultMimetype: defaultMimetype,
		entries:         make(map[string]Func),
	}
	r.Register(MimetypeHTML, Debug(DefaultDumpTemplate()))
	r.Register(MimetypeJSON, JSON)
	r.Register(MimetypeJavascript, JSON)
	return r
}

// Register stores fn as the serializer for mimetype. The last registration
// for a mimetype wins.
func (r *Registry) Register(mimetype string, fn Func) {
	r.entries[mimetype] = fn
}

// Lookup returns the registered (mimetype, fn) pair, or the NotAcceptable
// API error when the mimetype is unknown.
func (r *Registry) Lookup(mimetype string) (string, Func, error) {
	fn, ok := r.entries[mimetype]
	if !ok {
		return "", nil, apierr.ErrNotAcceptable
	}
	return mimetype, fn, nil
}

// Default returns the pair for the configured default mimetype. A missing
// default serializer fails with ErrNoDefaultSerializer so the condition
// surfaces as a fatal setup problem rather than a 406.
func (r *Registry) Default() (string, Func, error) {
	fn, ok := r.entries[r.defaultMimetype]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrNoDefaultSerializer, r.defaultMimetype)
	}
	return r.defaultMimetype, fn, nil
}

// DefaultMimetype returns the mimetype used for error rendering fallback.
func (r *Registry) DefaultMimetype() string {
	return r.defaultMimetype
}

// Mimetypes returns the registered mimetypes in sorted order, which keeps
// negotiation tie-breaks deterministic.
func (r *Registry) Mimetypes() []string {
	known := make([]string, 0, len(r.entries))
	for mimetype := range r.entries {
		known = append(known, mimetype)
	}
	sort.Strings(known)
	return known
}
