package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

type refreshMatchesRequest struct {
	MatchIDs []int64 `json:"match_ids" validate:"omitempty,max=1000,dive,gt=0"`
	Limit    int     `json:"limit" validate:"omitempty,min=1,max=1000"`
	Workers  int     `json:"workers" validate:"omitempty,min=1,max=8"`
}

func (h *Handler) RefreshMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshMatch")
	defer span.End()

	if h.syncManager == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync manager is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	externalID, err := pathInt64(r, "externalID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncManager.RefreshMatch(ctx, externalID)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh match failed", "match_id", externalID, "error", err)
		h.reportFailure(ctx, r, err, map[string]any{"match_id": externalID})
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RefreshMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshMatches")
	defer span.End()

	if h.syncManager == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync manager is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req refreshMatchesRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncManager.RefreshMatches(ctx, usecase.RefreshMatchesInput{
		ExternalIDs: req.MatchIDs,
		Limit:       req.Limit,
		Workers:     req.Workers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "bulk match refresh failed", "limit", req.Limit, "workers", req.Workers, "error", err)
		h.reportFailure(ctx, r, err, map[string]any{"limit": req.Limit, "workers": req.Workers})
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
