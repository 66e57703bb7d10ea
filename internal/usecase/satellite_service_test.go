package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/errorlog"
	"github.com/riskibarqy/fixture-sync/internal/domain/satellite"
	"github.com/riskibarqy/fixture-sync/internal/domain/syncstate"
	"github.com/riskibarqy/fixture-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fixture-sync/internal/platform/cache"
)

type stubSatelliteProvider struct {
	mu       sync.Mutex
	payloads map[satellite.Kind][]byte
	errs     map[satellite.Kind]error
	calls    map[satellite.Kind]int
}

func newStubSatelliteProvider() *stubSatelliteProvider {
	return &stubSatelliteProvider{
		payloads: make(map[satellite.Kind][]byte),
		errs:     make(map[satellite.Kind]error),
		calls:    make(map[satellite.Kind]int),
	}
}

func (s *stubSatelliteProvider) Satellite(_ context.Context, kind satellite.Kind, _ int64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls[kind]++
	if err := s.errs[kind]; err != nil {
		return nil, err
	}
	return s.payloads[kind], nil
}

func (s *stubSatelliteProvider) callCount(kind satellite.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[kind]
}

func newTestSatelliteService(provider SatelliteProvider, state syncstate.Repository, reporter ErrorReporter) *SatelliteService {
	svc := NewSatelliteService(provider, memory.NewSatelliteRepository(cache.NewStore(time.Hour)), state, reporter, SatelliteConfig{}, nil)
	svc.now = func() time.Time { return syncTestNow }
	return svc
}

func TestSatelliteService_RefreshTeam_StoresPayloads(t *testing.T) {
	t.Parallel()

	provider := newStubSatelliteProvider()
	provider.payloads[satellite.KindSquads] = []byte(`{"data":[{"player_id":1}]}`)
	provider.payloads[satellite.KindInjuries] = []byte(`{"data":{"sidelined":[]}}`)
	provider.payloads[satellite.KindTransfers] = []byte(`{"data":[]}`)
	svc := newTestSatelliteService(provider, memory.NewSyncStateRepository(), &recordingReporter{})

	counts := svc.RefreshTeam(context.Background(), 8)
	if counts.Squads != 1 || counts.Injuries != 1 || counts.Transfers != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	entry, err := svc.Get(context.Background(), satellite.KindInjuries, 8)
	if err != nil {
		t.Fatalf("get injuries: %v", err)
	}
	if !entry.ExpiresAt.Equal(syncTestNow.Add(30 * time.Minute)) {
		t.Fatalf("expected injuries ttl of 30m, got expires_at=%s", entry.ExpiresAt)
	}
	if string(entry.Payload) != `{"data":{"sidelined":[]}}` {
		t.Fatalf("unexpected payload: %s", entry.Payload)
	}
}

func TestSatelliteService_ForbiddenDisablesFeature(t *testing.T) {
	t.Parallel()

	provider := newStubSatelliteProvider()
	provider.errs[satellite.KindInjuries] = statusError(http.StatusForbidden)
	provider.errs[satellite.KindTransfers] = statusError(http.StatusInternalServerError)
	state := memory.NewSyncStateRepository()
	reporter := &recordingReporter{}
	svc := newTestSatelliteService(provider, state, reporter)

	first := svc.RefreshTeam(context.Background(), 8)
	second := svc.RefreshTeam(context.Background(), 13)
	if first.Injuries != 0 || second.Injuries != 0 || first.Squads != 1 || second.Squads != 1 {
		t.Fatalf("unexpected counts: first=%+v second=%+v", first, second)
	}
	if got := provider.callCount(satellite.KindInjuries); got != 1 {
		t.Fatalf("expected injuries to be fetched once before disabling, got %d", got)
	}
	if got := provider.callCount(satellite.KindTransfers); got != 2 {
		t.Fatalf("expected a 500 to leave transfers enabled, got %d calls", got)
	}

	override, ok, err := state.GetFeatureOverride(context.Background(), syncstate.FeatureInjuries)
	if err != nil || !ok {
		t.Fatalf("expected injuries override, ok=%t err=%v", ok, err)
	}
	if override.Enabled || override.Reason != "injuries sync disabled due to 403 access error" {
		t.Fatalf("unexpected override: %+v", override)
	}
	if !reporter.hasCode(errorlog.CodeSyncDisabled) {
		t.Fatalf("expected %s report, got %v", errorlog.CodeSyncDisabled, reporter.codes())
	}
}

func TestSatelliteService_FailedRefreshKeepsPreviousEntry(t *testing.T) {
	t.Parallel()

	provider := newStubSatelliteProvider()
	provider.payloads[satellite.KindSquads] = []byte(`{"data":["v1"]}`)
	svc := newTestSatelliteService(provider, memory.NewSyncStateRepository(), nil)

	if !svc.Refresh(context.Background(), satellite.KindSquads, 8) {
		t.Fatalf("expected first refresh to succeed")
	}
	provider.errs[satellite.KindSquads] = errors.New("timeout")
	if svc.Refresh(context.Background(), satellite.KindSquads, 8) {
		t.Fatalf("expected second refresh to fail")
	}

	entry, err := svc.Get(context.Background(), satellite.KindSquads, 8)
	if err != nil {
		t.Fatalf("get squads: %v", err)
	}
	if string(entry.Payload) != `{"data":["v1"]}` {
		t.Fatalf("expected previous payload, got %s", entry.Payload)
	}
}

func TestSatelliteService_FeatureOverrides(t *testing.T) {
	t.Parallel()

	svc := newTestSatelliteService(newStubSatelliteProvider(), memory.NewSyncStateRepository(), nil)
	ctx := context.Background()

	enabled, err := svc.FeatureEnabled(ctx, syncstate.FeatureTransfers)
	if err != nil || !enabled {
		t.Fatalf("expected transfers enabled by default, got %t err=%v", enabled, err)
	}
	if _, err := svc.SetFeature(ctx, syncstate.FeatureTransfers, false, "plan downgrade"); err != nil {
		t.Fatalf("set feature: %v", err)
	}
	enabled, _ = svc.FeatureEnabled(ctx, syncstate.FeatureTransfers)
	if enabled {
		t.Fatalf("expected override to disable transfers")
	}
	if _, err := svc.SetFeature(ctx, syncstate.Feature("lineups"), true, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown feature, got %v", err)
	}
	if _, err := svc.Get(ctx, satellite.KindSquads, 8); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty cache, got %v", err)
	}
}
