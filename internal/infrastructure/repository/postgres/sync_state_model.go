package postgres

import (
	"database/sql"
	"time"
)

type syncWatermarkTableModel struct {
	TeamID         int64      `db:"team_id"`
	LastSeenMaxID  int64      `db:"last_seen_max_id"`
	LastSnapshotAt *time.Time `db:"last_snapshot_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

type syncWatermarkInsertModel struct {
	TeamID         int64      `db:"team_id"`
	LastSeenMaxID  int64      `db:"last_seen_max_id"`
	LastSnapshotAt *time.Time `db:"last_snapshot_at"`
}

type syncFeatureOverrideTableModel struct {
	Feature   string         `db:"feature"`
	Enabled   bool           `db:"enabled"`
	Reason    sql.NullString `db:"reason"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type syncFeatureOverrideInsertModel struct {
	Feature   string    `db:"feature"`
	Enabled   bool      `db:"enabled"`
	Reason    *string   `db:"reason"`
	UpdatedAt time.Time `db:"updated_at"`
}

type syncRunTableModel struct {
	RunID      string         `db:"run_id"`
	Trigger    sql.NullString `db:"run_trigger"`
	StartedAt  time.Time      `db:"started_at"`
	FinishedAt *time.Time     `db:"finished_at"`
	Summary    sql.NullString `db:"summary"`
}
