package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/petanque-league/internal/usecase"
)

// RunSyncJob starts a reconciliation cycle in the background. It is the
// callback target of queued jobs and can be called directly by operators.
func (h *Handler) RunSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RunSyncJob")
	defer span.End()

	if h.sync == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	dryRun, err := readDryRun(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.sync.Trigger(ctx, usecase.ReconcileOptions{DryRun: dryRun}); err != nil {
		h.logger.WarnContext(ctx, "sync job not started", "dry_run", dryRun, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "sync job accepted", "dry_run", dryRun)
	writeSuccess(ctx, w, http.StatusAccepted, syncJobAcceptedDTO{Accepted: true, DryRun: dryRun})
}

func (h *Handler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetSyncStatus")
	defer span.End()

	if h.sync == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync runner is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncStatusToDTO(h.sync.Status()))
}

// readDryRun accepts ?dry_run=true or a {"dryRun": true} body; either one enables it.
func readDryRun(r *http.Request) (bool, error) {
	dryRun := false
	if raw := strings.TrimSpace(r.URL.Query().Get("dry_run")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return false, fmt.Errorf("%w: dry_run must be a boolean", usecase.ErrInvalidInput)
		}
		dryRun = parsed
	}

	if r.ContentLength != 0 && r.Body != nil && r.Body != http.NoBody {
		var req syncJobRequest
		if err := decodeJSON(r, &req); err != nil {
			return false, err
		}
		dryRun = dryRun || req.DryRun
	}

	return dryRun, nil
}
