// Package apify turns ordinary view functions into content-negotiated API
// endpoints on top of net/http. It picks a serializer from the client's
// Accept header, wraps payloads and errors into uniform response envelopes,
// and lets callers hook preprocessors and finalizers around every call.
//
// # Packages
//
//   - apify: the extension facade and the request pipeline (negotiation,
//     envelopes, error translation, route publication).
//   - serializer: the mimetype → serializer registry with built-in JSON and
//     HTML debug serializers and accept-header negotiation.
//   - apierr: the API error family rendered as {"error", "message"}
//     envelopes.
//   - probe: adapters that turn database pings or arbitrary closures into
//     checks for the built-in status endpoint.
//   - jsonutil: tiny helpers around sonic for performance-sensitive encoding
//     tasks.
//
// # Quick Start
//
//	api := apify.New(apify.WithLogger(logger))
//
//	api.Route("/ping", func(r *http.Request) (any, error) {
//	    return map[string]string{"status": "ok"}, nil
//	})
//
//	if err := api.RegisterRoutes(); err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", api.Handler())
//
// Registration is a setup-phase activity: register every route, serializer,
// preprocessor, and finalizer first, then call RegisterRoutes exactly once.
// Routes registered afterwards are not served, and the registries are
// treated as read-only while requests are in flight.
package apify
