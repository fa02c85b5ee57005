package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/sourcegraph/conc"
)

const healthCheckTimeout = 3 * time.Second

// Healthz pings every stored resource concurrently and answers 503 when any fails.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	results := make([]error, len(h.healthChecks))
	var wg conc.WaitGroup
	for i, check := range h.healthChecks {
		wg.Go(func() {
			results[i] = check.Ping(ctx)
		})
	}
	wg.Wait()

	body := healthDTO{Status: "ok", Storage: make(map[string]string, len(h.healthChecks))}
	status := http.StatusOK
	for i, check := range h.healthChecks {
		if err := results[i]; err != nil {
			h.logger.WarnContext(ctx, "health check failed", "resource", check.Name, "error", err)
			body.Storage[check.Name] = "error"
			body.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		body.Storage[check.Name] = "ok"
	}

	writeSuccess(r.Context(), w, status, body)
}
