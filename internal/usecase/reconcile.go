package usecase

import (
	"context"
	"fmt"
	"time"
)

// DeletedWindowDays clamps the configured look-back window to 1..365 days,
// defaulting to 90.
func DeletedWindowDays(days int) int {
	if days <= 0 {
		return defaultDeletedWindowDays
	}
	if days > maxDeletedWindowDays {
		return maxDeletedWindowDays
	}
	return days
}

// SyncDeletedFixtures soft-deletes local records the provider reports as
// deleted within the look-back window and returns how many were trashed.
// Every day of the window is visited even if ctx is cancelled meanwhile.
func (m *SyncManager) SyncDeletedFixtures(ctx context.Context) (int, error) {
	ctx = context.WithoutCancel(ctx)
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncManager.SyncDeletedFixtures")
	defer span.End()

	if !m.runMu.TryLock() {
		return 0, ErrSyncInProgress
	}
	defer m.runMu.Unlock()

	return m.syncDeleted(ctx)
}

func (m *SyncManager) syncDeleted(ctx context.Context) (int, error) {
	days := DeletedWindowDays(m.cfg.DeletedDays)
	now := m.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -days)

	trashed := 0
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		ids, err := m.provider.DeletedFixtureIDs(ctx, day)
		if err != nil {
			m.logger.DebugContext(ctx, "skip deleted fixtures day", "day", day.Format(syncDateLayout), "error", err)
			continue
		}

		for _, externalID := range ids {
			ok, err := m.trashRecord(ctx, externalID, now)
			if err != nil {
				m.logger.WarnContext(ctx, "trash deleted fixture failed", "match_id", externalID, "error", err)
				continue
			}
			if ok {
				trashed++
			}
		}
	}

	if trashed > 0 {
		m.logger.InfoContext(ctx, "trashed fixtures deleted upstream", "count", trashed, "window_days", days)
	}
	return trashed, nil
}

func (m *SyncManager) trashRecord(ctx context.Context, externalID int64, at time.Time) (bool, error) {
	if externalID <= 0 {
		return false, nil
	}
	record, exists, err := m.fixtures.GetByExternalID(ctx, externalID)
	if err != nil {
		return false, fmt.Errorf("find fixture record: %w", err)
	}
	if !exists || record.IsTrashed() {
		return false, nil
	}
	if err := m.fixtures.SoftDelete(ctx, externalID, at); err != nil {
		return false, fmt.Errorf("soft delete fixture record: %w", err)
	}
	return true, nil
}
