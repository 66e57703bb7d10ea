package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/fixture-sync/internal/domain/errorlog"
	"github.com/riskibarqy/fixture-sync/internal/domain/syncstate"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

type syncRangeRequest struct {
	DateFrom string `json:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo   string `json:"date_to" validate:"required,datetime=2006-01-02"`
}

type deletedSyncResponse struct {
	Trashed int `json:"trashed"`
}

func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSync")
	defer span.End()

	if h.syncManager == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync manager is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	summary, err := h.syncManager.SyncTeamsFixtures(ctx, syncstate.TriggerManual)
	if err != nil {
		h.logger.WarnContext(ctx, "manual fixture sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) RunSyncRange(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncRange")
	defer span.End()

	if h.syncManager == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync manager is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req syncRangeRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.syncManager.SyncDateRange(ctx, req.DateFrom, req.DateTo)
	if err != nil {
		h.logger.WarnContext(ctx, "range fixture sync failed", "date_from", req.DateFrom, "date_to", req.DateTo, "error", err)
		h.reportFailure(ctx, r, err, map[string]any{"date_from": req.DateFrom, "date_to": req.DateTo})
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) RunSyncDeleted(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncDeleted")
	defer span.End()

	if h.syncManager == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync manager is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	trashed, err := h.syncManager.SyncDeletedFixtures(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "deleted fixture sync failed", "error", err)
		h.reportFailure(ctx, r, err, nil)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, deletedSyncResponse{Trashed: trashed})
}

func (h *Handler) GetSyncSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncSummary")
	defer span.End()

	if h.syncManager == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync manager is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	summary, err := h.syncManager.LastSummary(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

// reportFailure records unexpected operator-triggered failures; client errors
// and lock contention are not worth an entry.
func (h *Handler) reportFailure(ctx context.Context, r *http.Request, err error, fields map[string]any) {
	if h.errorLogs == nil {
		return
	}
	if mapError(ctx, err).HTTPStatus < http.StatusInternalServerError {
		return
	}
	h.errorLogs.Report(ctx, errorlog.Entry{
		Type:           errorlog.TypeSyncError,
		Message:        err.Error(),
		Code:           errorlog.CodeException,
		Context:        fields,
		RequestDetails: requestDetails(r),
	})
}
