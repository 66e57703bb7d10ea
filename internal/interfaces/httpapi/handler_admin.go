package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fixture-sync/internal/domain/errorlog"
	"github.com/riskibarqy/fixture-sync/internal/domain/satellite"
	"github.com/riskibarqy/fixture-sync/internal/domain/syncstate"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

type teamCategoryRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type featureRequest struct {
	Enabled *bool  `json:"enabled" validate:"required"`
	Reason  string `json:"reason" validate:"omitempty,max=500"`
}

type termDTO struct {
	ID   int64  `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type satelliteDTO struct {
	Kind      string    `json:"kind"`
	TeamID    int64     `json:"team_id"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Payload   any       `json:"payload"`
}

type deletedCountResponse struct {
	Deleted int64 `json:"deleted"`
}

type cacheClearResponse struct {
	Cleared int `json:"cleared"`
}

func (h *Handler) SetTeamCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetTeamCategory")
	defer span.End()

	if h.taxonomy == nil {
		writeError(ctx, w, fmt.Errorf("%w: taxonomy service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	teamID, err := pathInt64(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req teamCategoryRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	term, err := h.taxonomy.ConfigureTeam(ctx, teamID, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "configure team category failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, termDTO{
		ID:   term.ID,
		Kind: string(term.Kind),
		Name: term.Name,
		Slug: term.Slug,
	})
}

func (h *Handler) SetFeature(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetFeature")
	defer span.End()

	if h.satellites == nil {
		writeError(ctx, w, fmt.Errorf("%w: satellite service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	feature, ok := syncstate.ParseFeature(strings.TrimSpace(r.PathValue("feature")))
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown feature %q", usecase.ErrInvalidInput, r.PathValue("feature")))
		return
	}
	var req featureRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "set by operator"
	}
	override, err := h.satellites.SetFeature(ctx, feature, *req.Enabled, reason)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, override)
}

func (h *Handler) GetSatellite(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSatellite")
	defer span.End()

	if h.satellites == nil {
		writeError(ctx, w, fmt.Errorf("%w: satellite service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	kind, ok := satellite.ParseKind(strings.TrimSpace(r.PathValue("kind")))
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown satellite kind %q", usecase.ErrInvalidInput, r.PathValue("kind")))
		return
	}
	teamID, err := pathInt64(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.satellites.Get(ctx, kind, teamID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, satelliteDTO{
		Kind:      string(entry.Kind),
		TeamID:    entry.TeamID,
		FetchedAt: entry.FetchedAt,
		ExpiresAt: entry.ExpiresAt,
		Payload:   rawJSON(entry.Payload),
	})
}

func (h *Handler) ListErrorLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListErrorLogs")
	defer span.End()

	if h.errorLogs == nil {
		writeError(ctx, w, fmt.Errorf("%w: error log service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	filter, err := errorLogFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.errorLogs.List(ctx, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, page)
}

func (h *Handler) ExportErrorLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportErrorLogs")
	defer span.End()

	if h.errorLogs == nil {
		writeError(ctx, w, fmt.Errorf("%w: error log service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	filter, err := errorLogFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	raw, err := h.errorLogs.ExportCSV(ctx, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	filename := "error-logs-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	writeAttachment(w, "text/csv; charset=utf-8", filename, raw)
}

// DeleteErrorLogs purges entries older than older_than_days, or all entries when all=true.
func (h *Handler) DeleteErrorLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteErrorLogs")
	defer span.End()

	if h.errorLogs == nil {
		writeError(ctx, w, fmt.Errorf("%w: error log service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var (
		deleted int64
		err     error
	)
	if strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("all")), "true") {
		deleted, err = h.errorLogs.DeleteAll(ctx)
	} else {
		days, parseErr := queryInt(r, "older_than_days")
		if parseErr != nil {
			writeError(ctx, w, parseErr)
			return
		}
		deleted, err = h.errorLogs.PurgeOlderThan(ctx, days)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, deletedCountResponse{Deleted: deleted})
}

func (h *Handler) DeleteErrorLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteErrorLog")
	defer span.End()

	if h.errorLogs == nil {
		writeError(ctx, w, fmt.Errorf("%w: error log service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	logID, err := pathInt64(r, "logID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.errorLogs.Delete(ctx, logID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, deletedCountResponse{Deleted: 1})
}

func (h *Handler) ClearAPICache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearAPICache")
	defer span.End()

	if h.apiCache == nil {
		writeError(ctx, w, fmt.Errorf("%w: api cache is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	cleared := h.apiCache.ClearAllCache(ctx)
	h.logger.InfoContext(ctx, "api response cache cleared", "entries", cleared)
	writeSuccess(ctx, w, http.StatusOK, cacheClearResponse{Cleared: cleared})
}

func errorLogFilterFromQuery(r *http.Request) (errorlog.Filter, error) {
	query := r.URL.Query()
	filter := errorlog.Filter{Type: strings.TrimSpace(query.Get("error_type"))}

	page, err := queryInt(r, "page")
	if err != nil {
		return errorlog.Filter{}, err
	}
	perPage, err := queryInt(r, "per_page")
	if err != nil {
		return errorlog.Filter{}, err
	}
	filter.Page = page
	filter.PerPage = perPage

	if raw := strings.TrimSpace(query.Get("date_from")); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return errorlog.Filter{}, fmt.Errorf("%w: date_from must be YYYY-MM-DD", usecase.ErrInvalidInput)
		}
		filter.From = &from
	}
	if raw := strings.TrimSpace(query.Get("date_to")); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return errorlog.Filter{}, fmt.Errorf("%w: date_to must be YYYY-MM-DD", usecase.ErrInvalidInput)
		}
		endOfDay := to.Add(24*time.Hour - time.Second)
		filter.To = &endOfDay
	}
	return filter, nil
}

// rawJSON inlines a stored provider payload; undecodable bytes are returned as text.
func rawJSON(payload []byte) any {
	if len(payload) == 0 {
		return nil
	}
	var out any
	if err := sonic.Unmarshal(payload, &out); err != nil {
		return string(payload)
	}
	return out
}
