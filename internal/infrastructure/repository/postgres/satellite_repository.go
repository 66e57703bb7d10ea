package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/internal/domain/satellite"
	qb "github.com/riskibarqy/fixture-sync/internal/platform/querybuilder"
)

type satellitePayloadTableModel struct {
	Kind      string    `db:"kind"`
	TeamID    int64     `db:"team_id"`
	Payload   string    `db:"payload"`
	FetchedAt time.Time `db:"fetched_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// SatelliteRepository keeps one payload row per (kind, team). Expired rows
// are filtered on read and overwritten on the next refresh.
type SatelliteRepository struct {
	db *sqlx.DB
}

func NewSatelliteRepository(db *sqlx.DB) *SatelliteRepository {
	return &SatelliteRepository{db: db}
}

func (r *SatelliteRepository) Get(ctx context.Context, kind satellite.Kind, teamID int64) (satellite.Entry, bool, error) {
	query, args, err := qb.Select("kind", "team_id", "payload", "fetched_at", "expires_at").
		From("satellite_payloads").
		Where(
			qb.Eq("kind", string(kind)),
			qb.Eq("team_id", teamID),
			qb.Expr("expires_at > NOW()"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return satellite.Entry{}, false, fmt.Errorf("build select satellite payload query: %w", err)
	}

	var row satellitePayloadTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return satellite.Entry{}, false, nil
		}
		return satellite.Entry{}, false, fmt.Errorf("get satellite payload kind=%s team_id=%d: %w", kind, teamID, err)
	}

	return satellite.Entry{
		Kind:      satellite.Kind(row.Kind),
		TeamID:    row.TeamID,
		Payload:   []byte(row.Payload),
		FetchedAt: row.FetchedAt.UTC(),
		ExpiresAt: row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *SatelliteRepository) Put(ctx context.Context, entry satellite.Entry, ttl time.Duration) error {
	fetchedAt := entry.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	expiresAt := entry.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = fetchedAt.Add(ttl)
	}

	query, args, err := qb.UpsertModel("satellite_payloads", satellitePayloadTableModel{
		Kind:      string(entry.Kind),
		TeamID:    entry.TeamID,
		Payload:   string(entry.Payload),
		FetchedAt: fetchedAt.UTC(),
		ExpiresAt: expiresAt.UTC(),
	}, []string{"kind", "team_id"}, "")
	if err != nil {
		return fmt.Errorf("build upsert satellite payload query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert satellite payload kind=%s team_id=%d: %w", entry.Kind, entry.TeamID, err)
	}
	return nil
}
