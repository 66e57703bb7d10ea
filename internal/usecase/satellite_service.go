package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/errorlog"
	"github.com/riskibarqy/fixture-sync/internal/domain/satellite"
	"github.com/riskibarqy/fixture-sync/internal/domain/syncstate"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// SatelliteProvider fetches raw per-team payloads.
type SatelliteProvider interface {
	Satellite(ctx context.Context, kind satellite.Kind, teamID int64) ([]byte, error)
}

// httpStatusError is implemented by provider errors that carry the upstream status.
type httpStatusError interface {
	HTTPStatusCode() int
}

type SatelliteConfig struct {
	Enabled map[syncstate.Feature]bool
	TTL     map[satellite.Kind]time.Duration
}

func DefaultSatelliteConfig() SatelliteConfig {
	return SatelliteConfig{
		Enabled: map[syncstate.Feature]bool{
			syncstate.FeatureSquads:    true,
			syncstate.FeatureInjuries:  true,
			syncstate.FeatureTransfers: true,
		},
		TTL: map[satellite.Kind]time.Duration{
			satellite.KindSquads:    6 * time.Hour,
			satellite.KindInjuries:  30 * time.Minute,
			satellite.KindTransfers: 6 * time.Hour,
		},
	}
}

type SatelliteRefreshCounts struct {
	Squads    int
	Injuries  int
	Transfers int
}

type SatelliteService struct {
	provider SatelliteProvider
	repo     satellite.Repository
	state    syncstate.Repository
	reporter ErrorReporter
	cfg      SatelliteConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewSatelliteService(
	provider SatelliteProvider,
	repo satellite.Repository,
	state syncstate.Repository,
	reporter ErrorReporter,
	cfg SatelliteConfig,
	logger *logging.Logger,
) *SatelliteService {
	if logger == nil {
		logger = logging.Default()
	}
	defaults := DefaultSatelliteConfig()
	if cfg.Enabled == nil {
		cfg.Enabled = defaults.Enabled
	}
	if cfg.TTL == nil {
		cfg.TTL = defaults.TTL
	}
	for kind, ttl := range defaults.TTL {
		if cfg.TTL[kind] <= 0 {
			cfg.TTL[kind] = ttl
		}
	}

	return &SatelliteService{
		provider: provider,
		repo:     repo,
		state:    state,
		reporter: reporter,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// FeatureEnabled resolves a feature flag: a stored override wins over config.
func (s *SatelliteService) FeatureEnabled(ctx context.Context, feature syncstate.Feature) (bool, error) {
	override, ok, err := s.state.GetFeatureOverride(ctx, feature)
	if err != nil {
		return false, fmt.Errorf("get feature override: %w", err)
	}
	if ok {
		return override.Enabled, nil
	}
	return s.cfg.Enabled[feature], nil
}

// SetFeature stores an operator override for one feature.
func (s *SatelliteService) SetFeature(ctx context.Context, feature syncstate.Feature, enabled bool, reason string) (syncstate.FeatureOverride, error) {
	if _, ok := syncstate.ParseFeature(string(feature)); !ok {
		return syncstate.FeatureOverride{}, fmt.Errorf("%w: unknown feature %q", ErrInvalidInput, feature)
	}

	override := syncstate.FeatureOverride{
		Feature:   feature,
		Enabled:   enabled,
		Reason:    reason,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.state.SaveFeatureOverride(ctx, override); err != nil {
		return syncstate.FeatureOverride{}, fmt.Errorf("save feature override: %w", err)
	}
	s.logger.InfoContext(ctx, "feature override saved", "feature", string(feature), "enabled", enabled, "reason", reason)
	return override, nil
}

// RefreshTeam refreshes every enabled satellite kind for one team.
func (s *SatelliteService) RefreshTeam(ctx context.Context, teamID int64) SatelliteRefreshCounts {
	var counts SatelliteRefreshCounts
	for _, kind := range satellite.Kinds() {
		enabled, err := s.FeatureEnabled(ctx, syncstate.Feature(kind))
		if err != nil {
			s.logger.WarnContext(ctx, "resolve satellite feature failed", "kind", string(kind), "error", err)
			continue
		}
		if !enabled || !s.Refresh(ctx, kind, teamID) {
			continue
		}
		switch kind {
		case satellite.KindSquads:
			counts.Squads++
		case satellite.KindInjuries:
			counts.Injuries++
		case satellite.KindTransfers:
			counts.Transfers++
		}
	}
	return counts
}

// Refresh fetches one satellite payload and stores it with the kind TTL.
// A failed fetch leaves the previous entry in place. A 403 disables the
// feature durably.
func (s *SatelliteService) Refresh(ctx context.Context, kind satellite.Kind, teamID int64) bool {
	ctx, span := startUsecaseSpan(ctx, "usecase.SatelliteService.Refresh",
		attribute.String("satellite.kind", string(kind)),
		attribute.Int64("team.id", teamID),
	)
	defer span.End()

	payload, err := s.provider.Satellite(ctx, kind, teamID)
	if err != nil {
		var statusErr httpStatusError
		if errors.As(err, &statusErr) && statusErr.HTTPStatusCode() == http.StatusForbidden {
			s.disableOnForbidden(ctx, kind, teamID)
		}
		return false
	}

	now := s.now().UTC()
	ttl := s.cfg.TTL[kind]
	entry := satellite.Entry{
		Kind:      kind,
		TeamID:    teamID,
		Payload:   payload,
		FetchedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.repo.Put(ctx, entry, ttl); err != nil {
		s.logger.WarnContext(ctx, "store satellite payload failed", "kind", string(kind), "team_id", teamID, "error", err)
		return false
	}
	return true
}

func (s *SatelliteService) disableOnForbidden(ctx context.Context, kind satellite.Kind, teamID int64) {
	message := fmt.Sprintf("%s sync disabled due to 403 access error", kind)
	if _, err := s.SetFeature(ctx, syncstate.Feature(kind), false, message); err != nil {
		s.logger.WarnContext(ctx, "disable satellite feature failed", "kind", string(kind), "error", err)
	}
	if s.reporter == nil {
		s.logger.WarnContext(ctx, message, "team_id", teamID)
		return
	}
	s.reporter.Report(ctx, errorlog.Entry{
		Timestamp: s.now().UTC(),
		Type:      errorlog.TypeSyncError,
		Message:   message,
		Code:      errorlog.CodeSyncDisabled,
		Context:   map[string]any{"team_id": teamID, "kind": string(kind)},
	})
}

// Get returns the live cached payload for a team.
func (s *SatelliteService) Get(ctx context.Context, kind satellite.Kind, teamID int64) (satellite.Entry, error) {
	if teamID <= 0 {
		return satellite.Entry{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	entry, ok, err := s.repo.Get(ctx, kind, teamID)
	if err != nil {
		return satellite.Entry{}, fmt.Errorf("get satellite entry: %w", err)
	}
	if !ok || entry.Expired(s.now()) {
		return satellite.Entry{}, fmt.Errorf("%w: %s for team=%d", ErrNotFound, kind, teamID)
	}
	return entry, nil
}
