package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/internal/domain/syncstate"
	qb "github.com/riskibarqy/fixture-sync/internal/platform/querybuilder"
)

type SyncStateRepository struct {
	db *sqlx.DB
}

func NewSyncStateRepository(db *sqlx.DB) *SyncStateRepository {
	return &SyncStateRepository{db: db}
}

func (r *SyncStateRepository) GetWatermark(ctx context.Context, teamID int64) (syncstate.Watermark, error) {
	query, args, err := qb.Select("*").From("sync_watermarks").
		Where(qb.Eq("team_id", teamID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return syncstate.Watermark{}, fmt.Errorf("build select watermark query: %w", err)
	}

	var row syncWatermarkTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncstate.Watermark{TeamID: teamID}, nil
		}
		return syncstate.Watermark{}, fmt.Errorf("get watermark team_id=%d: %w", teamID, err)
	}

	out := syncstate.Watermark{TeamID: row.TeamID, LastSeenMaxID: row.LastSeenMaxID}
	if row.LastSnapshotAt != nil {
		at := row.LastSnapshotAt.UTC()
		out.LastSnapshotAt = &at
	}
	return out, nil
}

func (r *SyncStateRepository) SaveWatermark(ctx context.Context, watermark syncstate.Watermark) error {
	insertModel := syncWatermarkInsertModel{
		TeamID:        watermark.TeamID,
		LastSeenMaxID: watermark.LastSeenMaxID,
	}
	if watermark.LastSnapshotAt != nil {
		insertModel.LastSnapshotAt = nullableTime(*watermark.LastSnapshotAt)
	}

	query, args, err := qb.InsertModel("sync_watermarks", insertModel, `ON CONFLICT (team_id)
DO UPDATE SET
    last_seen_max_id = GREATEST(sync_watermarks.last_seen_max_id, EXCLUDED.last_seen_max_id),
    last_snapshot_at = COALESCE(EXCLUDED.last_snapshot_at, sync_watermarks.last_snapshot_at),
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert watermark query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert watermark team_id=%d: %w", watermark.TeamID, err)
	}
	return nil
}

func (r *SyncStateRepository) GetFeatureOverride(ctx context.Context, feature syncstate.Feature) (syncstate.FeatureOverride, bool, error) {
	query, args, err := qb.Select("*").From("sync_feature_overrides").
		Where(qb.Eq("feature", string(feature))).
		Limit(1).
		ToSQL()
	if err != nil {
		return syncstate.FeatureOverride{}, false, fmt.Errorf("build select feature override query: %w", err)
	}

	var row syncFeatureOverrideTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncstate.FeatureOverride{}, false, nil
		}
		return syncstate.FeatureOverride{}, false, fmt.Errorf("get feature override feature=%s: %w", feature, err)
	}

	return syncstate.FeatureOverride{
		Feature:   syncstate.Feature(row.Feature),
		Enabled:   row.Enabled,
		Reason:    row.Reason.String,
		UpdatedAt: row.UpdatedAt.UTC(),
	}, true, nil
}

func (r *SyncStateRepository) SaveFeatureOverride(ctx context.Context, override syncstate.FeatureOverride) error {
	updatedAt := override.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	insertModel := syncFeatureOverrideInsertModel{
		Feature:   string(override.Feature),
		Enabled:   override.Enabled,
		Reason:    nullableString(override.Reason),
		UpdatedAt: updatedAt.UTC(),
	}

	query, args, err := qb.UpsertModel("sync_feature_overrides", insertModel, []string{"feature"}, "")
	if err != nil {
		return fmt.Errorf("build upsert feature override query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert feature override feature=%s: %w", override.Feature, err)
	}
	return nil
}

func (r *SyncStateRepository) MarkRunStarted(ctx context.Context, runID string, startedAt time.Time) error {
	query, args, err := qb.InsertInto("sync_runs").
		Columns("run_id", "started_at").
		Values(runID, startedAt.UTC()).
		Suffix("ON CONFLICT (run_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert sync run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sync run run_id=%s: %w", runID, err)
	}
	return nil
}

func (r *SyncStateRepository) SaveSummary(ctx context.Context, summary syncstate.Summary) error {
	encoded, err := sonic.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode sync summary: %w", err)
	}

	query, args, err := qb.InsertInto("sync_runs").
		Columns("run_id", "run_trigger", "started_at", "finished_at", "summary").
		Values(summary.RunID, string(summary.Trigger), summary.StartedAt.UTC(), summary.FinishedAt.UTC(), string(encoded)).
		Suffix(`ON CONFLICT (run_id)
DO UPDATE SET
    run_trigger = EXCLUDED.run_trigger,
    finished_at = EXCLUDED.finished_at,
    summary = EXCLUDED.summary`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert sync summary query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert sync summary run_id=%s: %w", summary.RunID, err)
	}
	return nil
}

func (r *SyncStateRepository) LastSummary(ctx context.Context) (syncstate.Summary, bool, error) {
	query, args, err := qb.Select("*").From("sync_runs").
		Where(qb.Expr("summary IS NOT NULL")).
		OrderBy("finished_at DESC", "started_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return syncstate.Summary{}, false, fmt.Errorf("build select last sync summary query: %w", err)
	}

	var row syncRunTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncstate.Summary{}, false, nil
		}
		return syncstate.Summary{}, false, fmt.Errorf("get last sync summary: %w", err)
	}

	var out syncstate.Summary
	if err := sonic.Unmarshal([]byte(row.Summary.String), &out); err != nil {
		return syncstate.Summary{}, false, fmt.Errorf("decode sync summary run_id=%s: %w", row.RunID, err)
	}
	return out, true, nil
}
