package apify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapiMW "github.com/oapi-codegen/nethttp-middleware"
)

// Middleware wraps an http.Handler to produce a new http.Handler. The chain
// applies to the published router as a whole, outside the per-route
// pipeline.
type Middleware func(http.Handler) http.Handler

type swaggerDoc = *openapi3.T

func (a *Apify) middlewareChain() []Middleware {
	chain := make([]Middleware, 0, 4)

	if a.swagger != nil {
		chain = append(chain, oapiMiddleware(a.swagger))
	}
	if len(a.cfg.CORS.Origins) > 0 {
		chain = append(chain, corsMiddleware(a.cfg.CORS))
	}
	if a.cfg.Timeout > 0 {
		chain = append(chain, timeoutMiddleware(a.cfg.Timeout))
	}
	chain = append(chain, a.requestLogMiddleware())

	return chain
}

func oapiMiddleware(swagger *openapi3.T) Middleware {
	return func(next http.Handler) http.Handler {
		// Clear the servers array so validation does not insist on matching
		// server names. We don't know where this thing will be mounted.
		swagger.Servers = nil

		validatorOptions := &oapiMW.Options{
			Options: openapi3filter.Options{
				AuthenticationFunc: func(c context.Context, input *openapi3filter.AuthenticationInput) error {
					return nil
				},
			},
		}

		return oapiMW.OapiRequestValidatorWithOptions(swagger, validatorOptions)(next)
	}
}

// requestLogMiddleware stamps every request with a ULID correlation id,
// echoes it as X-Request-Id, and logs the request unless its path is quieted
// down. Headers listed in HideHeaders are redacted from the log record.
func (a *Apify) requestLogMiddleware() Middleware {
	quietRoutes := cloneStrings(a.cfg.QuietdownRoutes)
	redacted := cloneStrings(a.cfg.HideHeaders)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := newTraceID()
			r = r.WithContext(withTraceID(r.Context(), id))
			w.Header().Set("X-Request-Id", id)

			if !containsPath(quietRoutes, r.URL.Path) {
				headers := cloneHeaders(r.Header)
				redactHeaders(headers, redacted)

				a.log.DebugContext(r.Context(), "request",
					"method", r.Method,
					"path", r.URL.Path,
					"accept", r.Header.Get("Accept"),
					"header", headers,
					"traceId", id)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func corsMiddleware(cfg CORSConfig) Middleware {
	origins := cloneStrings(cfg.Origins)
	methods := cloneStrings(cfg.Methods)
	headers := cloneStrings(cfg.Headers)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if allowedOrigin(origin, origins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ","))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(headers, ","))
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func timeoutMiddleware(timeout time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "Timeout")
	}
}

func allowedOrigin(origin string, allowed []string) bool {
	for _, candidate := range allowed {
		if candidate == "*" || candidate == origin {
			return true
		}
	}
	return false
}

func containsPath(paths []string, path string) bool {
	for _, candidate := range paths {
		if candidate == path {
			return true
		}
	}
	return false
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	cloned := make([]string, len(values))
	copy(cloned, values)
	return cloned
}

func cloneHeaders(src http.Header) http.Header {
	headers := make(http.Header, len(src))
	for key, values := range src {
		headers[key] = append([]string(nil), values...)
	}
	return headers
}

func redactHeaders(headers http.Header, hidden []string) {
	for _, header := range hidden {
		canonical := http.CanonicalHeaderKey(header)
		values, exists := headers[canonical]
		if !exists {
			continue
		}

		redactedLen := 0
		for _, value := range values {
			redactedLen += len(value)
		}
		headers[canonical] = []string{fmt.Sprintf("[REDACTED - %d bytes]", redactedLen)}
	}
}
