package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
)

func TestIsHealthProbeLog(t *testing.T) {
	t.Parallel()

	if !isHealthProbeLog("http request", []any{"method", "GET", "path", "/healthz"}) {
		t.Fatalf("expected healthz request log to be skipped")
	}
	if isHealthProbeLog("http request", []any{"path", "/v1/sync/run"}) {
		t.Fatalf("expected sync request log to be mirrored")
	}
	if isHealthProbeLog("team synced", []any{"path", "/healthz"}) {
		t.Fatalf("expected only request logs to be filtered")
	}
}

func TestOtelSeverity(t *testing.T) {
	t.Parallel()

	tests := map[logging.Level]otellog.Severity{
		logging.LevelDebug: otellog.SeverityDebug,
		logging.LevelInfo:  otellog.SeverityInfo,
		logging.LevelWarn:  otellog.SeverityWarn,
		logging.LevelError: otellog.SeverityError,
	}
	for level, want := range tests {
		if got := otelSeverity(level); got != want {
			t.Fatalf("otelSeverity(%s)=%v want=%v", level, got, want)
		}
	}
}

func TestOtelLogAttributes(t *testing.T) {
	t.Parallel()

	attrs := otelLogAttributes([]any{
		"team_id", int64(8),
		"error", errors.New("status 403"),
		"elapsed", 2 * time.Second,
		zap.String("mode", "snapshot"),
		"dangling",
	})
	if len(attrs) != 5 {
		t.Fatalf("expected 5 attributes, got %d", len(attrs))
	}

	want := map[string]string{
		"team_id": "8",
		"error":   "status 403",
		"elapsed": "2s",
		"mode":    "snapshot",
	}
	for _, attr := range attrs[:4] {
		if got := attr.Value.String(); got != want[attr.Key] {
			t.Fatalf("attribute %s=%q want=%q", attr.Key, got, want[attr.Key])
		}
	}
	if attrs[4].Key != "dangling" || attrs[4].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("expected empty dangling attribute, got %+v", attrs[4])
	}
}
