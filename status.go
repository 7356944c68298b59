package apify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vitalk/apify/apierr"
	"github.com/vitalk/apify/probe"
)

// StatusCheck is a readiness check run by the built-in status endpoint.
type StatusCheck = probe.Func

const defaultProbeTimeout = 2 * time.Second

// statusView backs GET /status when status checks are configured. It runs
// through the regular pipeline, so the health payload is serialized per the
// client's accept preferences like any other view.
func (a *Apify) statusView(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), a.probeTimeout)
	defer cancel()

	for i, check := range a.statusChecks {
		if check == nil {
			continue
		}
		if err := check(ctx); err != nil {
			return nil, apierr.New(http.StatusServiceUnavailable,
				fmt.Sprintf("status check %d failed: %v", i+1, err))
		}
	}
	return map[string]string{"status": "ok"}, nil
}
