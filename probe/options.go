package probe

import "net/http"

// HTTPOption configures the behaviour of HTTP.
type HTTPOption func(*httpConfig)

type httpConfig struct {
	client   HTTPDoer
	expect   func(status int) bool
	mutators []func(req *http.Request) error
}

func buildHTTPConfig(client HTTPDoer, opts ...HTTPOption) *httpConfig {
	cfg := &httpConfig{
		client: client,
		expect: defaultStatusExpectation,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.client == nil {
		cfg.client = http.DefaultClient
	}
	if cfg.expect == nil {
		cfg.expect = defaultStatusExpectation
	}
	return cfg
}

func (c *httpConfig) applyMutators(req *http.Request) error {
	for _, mutate := range c.mutators {
		if mutate == nil {
			continue
		}
		if err := mutate(req); err != nil {
			return err
		}
	}
	return nil
}

func defaultStatusExpectation(status int) bool {
	return status >= 200 && status < 300
}

// WithClient overrides the HTTP client used for the check.
func WithClient(client HTTPDoer) HTTPOption {
	return func(cfg *httpConfig) {
		cfg.client = client
	}
}

// WithAllowedStatuses restricts the check to succeed only for the provided
// status codes.
func WithAllowedStatuses(statuses ...int) HTTPOption {
	allowed := make(map[int]struct{}, len(statuses))
	for _, status := range statuses {
		allowed[status] = struct{}{}
	}
	return func(cfg *httpConfig) {
		cfg.expect = func(status int) bool {
			if len(allowed) == 0 {
				return defaultStatusExpectation(status)
			}
			_, ok := allowed[status]
			return ok
		}
	}
}

// WithRequestMutator registers a mutator that runs before the request is
// dispatched, e.g. to attach credentials.
func WithRequestMutator(mutator func(req *http.Request) error) HTTPOption {
	return func(cfg *httpConfig) {
		cfg.mutators = append(cfg.mutators, mutator)
	}
}
