package serializer

import (
	"github.com/munnerz/goautoneg"

	"github.com/vitalk/apify/apierr"
)

// Negotiate picks the registered mimetype that best satisfies the Accept
// header, honouring q-values and preferring full type/subtype matches over
// wildcards. An absent or empty Accept header means the client accepts
// nothing usable and fails with NotAcceptable; the caller decides whether to
// fall back to the default serializer for error rendering.
func (r *Registry) Negotiate(accept string) (string, Func, error) {
	best := goautoneg.Negotiate(accept, r.Mimetypes())
	if best == "" {
		return "", nil, apierr.ErrNotAcceptable
	}
	return r.Lookup(best)
}
