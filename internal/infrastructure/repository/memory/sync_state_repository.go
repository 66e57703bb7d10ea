package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/syncstate"
)

type SyncStateRepository struct {
	mu           sync.RWMutex
	watermarks   map[int64]syncstate.Watermark
	overrides    map[syncstate.Feature]syncstate.FeatureOverride
	runStartedAt map[string]time.Time
	lastRunID    string
	summaries    []syncstate.Summary
}

func NewSyncStateRepository() *SyncStateRepository {
	return &SyncStateRepository{
		watermarks:   make(map[int64]syncstate.Watermark),
		overrides:    make(map[syncstate.Feature]syncstate.FeatureOverride),
		runStartedAt: make(map[string]time.Time),
	}
}

func (r *SyncStateRepository) GetWatermark(_ context.Context, teamID int64) (syncstate.Watermark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.watermarks[teamID]
	if !ok {
		return syncstate.Watermark{TeamID: teamID}, nil
	}
	if item.LastSnapshotAt != nil {
		at := *item.LastSnapshotAt
		item.LastSnapshotAt = &at
	}
	return item, nil
}

func (r *SyncStateRepository) SaveWatermark(_ context.Context, watermark syncstate.Watermark) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if watermark.LastSnapshotAt != nil {
		at := *watermark.LastSnapshotAt
		watermark.LastSnapshotAt = &at
	}
	r.watermarks[watermark.TeamID] = watermark
	return nil
}

func (r *SyncStateRepository) GetFeatureOverride(_ context.Context, feature syncstate.Feature) (syncstate.FeatureOverride, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.overrides[feature]
	return item, ok, nil
}

func (r *SyncStateRepository) SaveFeatureOverride(_ context.Context, override syncstate.FeatureOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.overrides[override.Feature] = override
	return nil
}

func (r *SyncStateRepository) MarkRunStarted(_ context.Context, runID string, startedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runStartedAt[runID] = startedAt.UTC()
	r.lastRunID = runID
	return nil
}

// LastRunStartedAt reports when the most recent run began.
func (r *SyncStateRepository) LastRunStartedAt() (string, time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.lastRunID == "" {
		return "", time.Time{}, false
	}
	return r.lastRunID, r.runStartedAt[r.lastRunID], true
}

func (r *SyncStateRepository) SaveSummary(_ context.Context, summary syncstate.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	modes := make(map[string]syncstate.Mode, len(summary.Metrics.FixtureModes))
	for key, value := range summary.Metrics.FixtureModes {
		modes[key] = value
	}
	summary.Metrics.FixtureModes = modes
	r.summaries = append(r.summaries, summary)
	return nil
}

func (r *SyncStateRepository) LastSummary(_ context.Context) (syncstate.Summary, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.summaries) == 0 {
		return syncstate.Summary{}, false, nil
	}
	return r.summaries[len(r.summaries)-1], true, nil
}
