package apify

import (
	"html/template"
	"log/slog"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

// Option configures the facade via the functional options pattern.
type Option func(*Apify)

// WithConfig replaces the default configuration, typically with the result
// of LoadConfig.
func WithConfig(cfg Config) Option {
	return func(a *Apify) {
		a.cfg = cfg
	}
}

// WithLogger injects the structured logger used by the request logging
// middleware and error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Apify) {
		if logger != nil {
			a.log = logger
		}
	}
}

// WithPreprocessors seeds the preprocessor chain. Functions run in the given
// order, after the fixed serializer-resolution step.
func WithPreprocessors(fns ...Preprocessor) Option {
	return func(a *Apify) {
		a.preprocessors = append(a.preprocessors, fns...)
	}
}

// WithFinalizers seeds the finalizer chain.
func WithFinalizers(fns ...Finalizer) Option {
	return func(a *Apify) {
		a.finalizers = append(a.finalizers, fns...)
	}
}

// WithErrorHandler replaces the fallback handler for errors the pipeline
// does not translate. The default logs the error and writes a plain 500.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(a *Apify) {
		if fn != nil {
			a.errorHandler = fn
		}
	}
}

// WithSwagger wires an OpenAPI document; published routes are then validated
// against it by the request validation middleware.
func WithSwagger(doc *openapi3.T) Option {
	return func(a *Apify) {
		a.swagger = doc
	}
}

// WithStatusChecks registers readiness checks and enables the built-in
// GET /status endpoint, which reports through the content-negotiation
// pipeline like any other view.
func WithStatusChecks(checks ...StatusCheck) Option {
	return func(a *Apify) {
		a.statusChecks = append(a.statusChecks, checks...)
	}
}

// WithProbeTimeout bounds how long the status endpoint waits for its checks.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(a *Apify) {
		if timeout > 0 {
			a.probeTimeout = timeout
		}
	}
}

// WithDumpTemplate replaces the embedded template behind the text/html debug
// serializer.
func WithDumpTemplate(tmpl *template.Template) Option {
	return func(a *Apify) {
		if tmpl != nil {
			a.dumpTemplate = tmpl
		}
	}
}

type routeSettings struct {
	methods []string
}

// RouteOption adjusts a single Route registration.
type RouteOption func(*routeSettings)

// WithMethods sets the HTTP methods the rule responds to. The default is GET
// only.
func WithMethods(methods ...string) RouteOption {
	return func(s *routeSettings) {
		if len(methods) > 0 {
			s.methods = methods
		}
	}
}
