package observability

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/config"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

func TestStart_AllDisabled(t *testing.T) {
	cfg := config.Config{
		ServiceName:    "fixture-sync",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
		UptraceEnabled: true,
		UptraceDSN:     "  ",
	}

	telemetry, err := Start(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("start telemetry: %v", err)
	}
	if len(telemetry.shutdowns) != 0 {
		t.Fatalf("expected no hooks, got %d", len(telemetry.shutdowns))
	}
	if err := telemetry.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestStart_PprofPortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	_, err = Start(config.Config{PprofEnabled: true, PprofAddr: ln.Addr().String()}, logging.NewNop())
	if err == nil || !strings.Contains(err.Error(), "start pprof") {
		t.Fatalf("expected pprof bind error, got %v", err)
	}
}

func TestTelemetryShutdown_ReverseOrderAndJoin(t *testing.T) {
	var order []string
	hook := func(name string, err error) namedShutdown {
		return namedShutdown{name: name, fn: func(context.Context) error {
			order = append(order, name)
			return err
		}}
	}
	telemetry := &Telemetry{
		logger: logging.NewNop(),
		shutdowns: []namedShutdown{
			hook("uptrace", errors.New("exporter timeout")),
			hook("pyroscope", nil),
			hook("pprof", nil),
		},
	}

	err := telemetry.Shutdown(context.Background())
	if err == nil || !strings.Contains(err.Error(), "stop uptrace: exporter timeout") {
		t.Fatalf("expected joined uptrace error, got %v", err)
	}
	if strings.Join(order, ",") != "pprof,pyroscope,uptrace" {
		t.Fatalf("unexpected shutdown order: %v", order)
	}
	if err := telemetry.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown should be a no-op, got %v", err)
	}
}

func TestPprofMux_ServesIndex(t *testing.T) {
	srv := httptest.NewServer(pprofMux())
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(srv.URL + "/debug/pprof/")
	if err != nil {
		t.Fatalf("get pprof index: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestPyroscopeConfig_Tags(t *testing.T) {
	cfg := config.Config{
		AppEnv:                 config.EnvProd,
		ServiceName:            "fixture-sync",
		StorageDriver:          config.StoragePostgres,
		PyroscopeAppName:       "fixture-sync",
		PyroscopeServerAddress: "https://profiles.example.com",
		PyroscopeUploadRate:    15 * time.Second,
	}

	got := pyroscopeConfig(cfg)
	if got.Tags["storage"] != config.StoragePostgres || got.Tags["env"] != config.EnvProd {
		t.Fatalf("unexpected tags: %+v", got.Tags)
	}
	if got.ServerAddress != cfg.PyroscopeServerAddress || got.UploadRate != 15*time.Second {
		t.Fatalf("unexpected pyroscope config: %+v", got)
	}
}

func TestResourceAttributes(t *testing.T) {
	cfg := config.Config{
		StorageDriver:        config.StorageMemory,
		SyncFrequency:        "hourly",
		SyncTeams:            []config.SyncTeam{{ID: 8, Name: "Liverpool"}, {ID: 13}},
		SyncSchedulerEnabled: true,
	}

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range resourceAttributes(cfg) {
		attrs[kv.Key] = kv.Value
	}
	if attrs["sync.teams"].AsInt64() != 2 || attrs["sync.frequency"].AsString() != "hourly" {
		t.Fatalf("unexpected attributes: %+v", attrs)
	}
	if !attrs["sync.scheduler_enabled"].AsBool() {
		t.Fatalf("expected scheduler_enabled=true")
	}
}
