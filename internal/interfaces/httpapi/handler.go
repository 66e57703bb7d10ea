package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

// CacheClearer drops cached upstream responses.
type CacheClearer interface {
	ClearAllCache(ctx context.Context) int
}

type Handler struct {
	syncManager *usecase.SyncManager
	satellites  *usecase.SatelliteService
	taxonomy    *usecase.TaxonomyService
	errorLogs   *usecase.ErrorLogService
	apiCache    CacheClearer
	logger      *logging.Logger
	validator   *validator.Validate
}

func NewHandler(
	syncManager *usecase.SyncManager,
	satellites *usecase.SatelliteService,
	taxonomy *usecase.TaxonomyService,
	errorLogs *usecase.ErrorLogService,
	apiCache CacheClearer,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		syncManager: syncManager,
		satellites:  satellites,
		taxonomy:    taxonomy,
		errorLogs:   errorLogs,
		apiCache:    apiCache,
		logger:      logger,
		validator:   validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSONBody accepts an empty body as the zero value.
func decodeJSONBody(r *http.Request, out any) error {
	if r.Body == nil {
		return nil
	}
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
