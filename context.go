package apify

import (
	"context"

	"github.com/vitalk/apify/serializer"
)

type contextKey struct{ name string }

var requestContextKey = &contextKey{"apify.request"}

// RequestContext is the per-request scratch state holding the resolved
// mimetype and serializer. It is created when the pipeline starts, read by
// the envelope builder and the error translator, and discarded with the
// request. Exactly one resolution happens per request.
type RequestContext struct {
	Mimetype   string
	Serializer serializer.Func
}

func withRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// RequestContextFrom returns the negotiation result stored for the current
// request. Views and finalizers can use it to inspect the mimetype the
// response will be rendered with.
func RequestContextFrom(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey).(*RequestContext)
	return rc, ok
}
