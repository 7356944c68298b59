package apify

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestLogMiddlewareStampsTraceID(t *testing.T) {
	a := New()

	var seen string
	handler := a.requestLogMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TraceID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if seen == "" {
		t.Fatal("expected trace id in request context")
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("expected X-Request-Id %q, got %q", seen, got)
	}
}

func TestRequestLogMiddlewareUniqueIDs(t *testing.T) {
	a := New()

	handler := a.requestLogMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	ids := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		ids[rec.Header().Get("X-Request-Id")] = struct{}{}
	}
	if len(ids) != 10 {
		t.Fatalf("expected 10 unique ids, got %d", len(ids))
	}
}

func TestCORSMiddleware(t *testing.T) {
	cfg := CORSConfig{
		Origins: []string{"https://app.example.com"},
		Methods: []string{http.MethodGet, http.MethodPost},
		Headers: []string{"Content-Type"},
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := corsMiddleware(cfg)(next)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
			t.Fatalf("expected origin echo, got %q", got)
		}
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("expected no CORS headers, got %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET,POST" {
			t.Fatalf("expected allowed methods, got %q", got)
		}
	})
}

func TestRedactHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret")
	headers.Set("Accept", "application/json")

	redactHeaders(headers, []string{"authorization"})

	if got := headers.Get("Authorization"); got != "[REDACTED - 13 bytes]" {
		t.Fatalf("expected redacted header, got %q", got)
	}
	if got := headers.Get("Accept"); got != "application/json" {
		t.Fatalf("expected untouched header, got %q", got)
	}
}

func TestMiddlewareChainComposition(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		a := New()
		// timeout + request logging
		if got := len(a.middlewareChain()); got != 2 {
			t.Fatalf("expected 2 middlewares, got %d", got)
		}
	})

	t.Run("cors enabled by config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CORS.Origins = []string{"*"}
		a := New(WithConfig(cfg))
		if got := len(a.middlewareChain()); got != 3 {
			t.Fatalf("expected 3 middlewares, got %d", got)
		}
	})

	t.Run("timeout disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Timeout = 0
		a := New(WithConfig(cfg))
		if got := len(a.middlewareChain()); got != 1 {
			t.Fatalf("expected 1 middleware, got %d", got)
		}
	})
}
