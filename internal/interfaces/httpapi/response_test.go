package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) googleResponseEnvelope {
	t.Helper()
	var env googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if env.APIVersion != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %q", env.APIVersion)
	}
	return env
}

func TestWriteSuccess_WrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusAccepted, map[string]int{"deleted": 3})

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}
	env := decodeEnvelope(t, rec)
	if env.Error != nil {
		t.Fatalf("did not expect error in success response: %+v", env.Error)
	}
	data, ok := env.Data.(map[string]any)
	if !ok || data["deleted"] != float64(3) {
		t.Fatalf("unexpected data: %#v", env.Data)
	}
}

func TestWriteError_UsesMappedStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("run sync: %w", usecase.ErrSyncInProgress))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Status != "ABORTED" || env.Error.Code != http.StatusConflict {
		t.Fatalf("unexpected error body: %+v", env.Error)
	}
	if len(env.Error.Errors) != 1 || env.Error.Errors[0].Domain != "fixture-sync" || env.Error.Errors[0].Reason != "syncInProgress" {
		t.Fatalf("unexpected error items: %+v", env.Error.Errors)
	}
}

func TestWriteAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	writeAttachment(rec, "text/csv; charset=utf-8", "error-logs-2026-03-01.csv", []byte("id\n1\n"))

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="error-logs-2026-03-01.csv"` {
		t.Fatalf("unexpected Content-Disposition %q", got)
	}
	if rec.Body.String() != "id\n1\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestMapError_StatusCodes(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantReason string
	}{
		{err: fmt.Errorf("%w: bad", usecase.ErrInvalidInput), wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{err: fmt.Errorf("%w: match=1", usecase.ErrNotFound), wantStatus: http.StatusNotFound, wantReason: "notFound"},
		{err: usecase.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantReason: "unauthorized"},
		{err: usecase.ErrDependencyUnavailable, wantStatus: http.StatusServiceUnavailable, wantReason: "dependencyUnavailable"},
		{err: fmt.Errorf("run sync: %w", usecase.ErrSyncInProgress), wantStatus: http.StatusConflict, wantReason: "syncInProgress"},
		{err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantReason: "internalError"},
	}

	for _, tt := range tests {
		t.Run(tt.wantReason, func(t *testing.T) {
			got := mapError(context.Background(), tt.err)
			if got.HTTPStatus != tt.wantStatus || got.Reason != tt.wantReason {
				t.Fatalf("mapError()=%d/%s want=%d/%s", got.HTTPStatus, got.Reason, tt.wantStatus, tt.wantReason)
			}
		})
	}
}
