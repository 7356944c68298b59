// Package probe converts database, HTTP, and custom ping functions into
// status checks for the apify status endpoint.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Func is a status check. It returns an error when the checked resource is
// unavailable.
type Func func(ctx context.Context) error

// DBPinger captures the subset of *sql.DB used by Database.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// MongoPinger captures the subset of the MongoDB client used by Mongo.
type MongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// HTTPDoer represents the subset of *http.Client required by HTTP.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Ping wraps an arbitrary check function with standardised error wrapping.
func Ping(name string, fn func(ctx context.Context) error) Func {
	return func(ctx context.Context) error {
		if fn == nil {
			return fmt.Errorf("%s probe: ping function is nil", name)
		}
		if err := fn(contextOrBackground(ctx)); err != nil {
			return fmt.Errorf("%s probe failed: %w", name, err)
		}
		return nil
	}
}

// Database returns a Func that pings an SQL database.
func Database(name string, db DBPinger) Func {
	return func(ctx context.Context) error {
		if db == nil {
			return fmt.Errorf("%s probe: db client is nil", name)
		}
		if err := db.PingContext(contextOrBackground(ctx)); err != nil {
			return fmt.Errorf("%s probe failed: %w", name, err)
		}
		return nil
	}
}

// Mongo returns a Func that pings MongoDB with the provided client. A nil
// read preference defaults to readpref.Primary.
func Mongo(client MongoPinger, readPref *readpref.ReadPref) Func {
	return func(ctx context.Context) error {
		if client == nil {
			return errors.New("mongo probe: client is nil")
		}

		rp := readPref
		if rp == nil {
			rp = readpref.Primary()
		}

		if err := client.Ping(contextOrBackground(ctx), rp); err != nil {
			return fmt.Errorf("mongo probe failed: %w", err)
		}
		return nil
	}
}

// HTTP returns a Func performing a request against target. The check
// succeeds when the response status is within the 2xx range unless options
// say otherwise.
func HTTP(name, method, target string, client HTTPDoer, opts ...HTTPOption) Func {
	return func(ctx context.Context) error {
		trimmedTarget := strings.TrimSpace(target)
		if trimmedTarget == "" {
			return fmt.Errorf("%s probe: target URL is required", name)
		}

		verb := strings.ToUpper(strings.TrimSpace(method))
		if verb == "" {
			verb = http.MethodGet
		}

		req, err := http.NewRequestWithContext(contextOrBackground(ctx), verb, trimmedTarget, nil)
		if err != nil {
			return fmt.Errorf("%s probe: failed to build request: %w", name, err)
		}

		cfg := buildHTTPConfig(client, opts...)

		if err := cfg.applyMutators(req); err != nil {
			return fmt.Errorf("%s probe: request mutation failed: %w", name, err)
		}

		resp, err := cfg.client.Do(req)
		if err != nil {
			return fmt.Errorf("%s probe request failed: %w", name, err)
		}
		defer resp.Body.Close()

		if !cfg.expect(resp.StatusCode) {
			return fmt.Errorf("%s probe: unexpected status %d %s",
				name, resp.StatusCode, http.StatusText(resp.StatusCode))
		}

		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			return fmt.Errorf("%s probe: failed to drain response body: %w", name, err)
		}
		return nil
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
