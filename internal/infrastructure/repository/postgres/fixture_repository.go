package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	qb "github.com/riskibarqy/fixture-sync/internal/platform/querybuilder"
)

const fixtureRecordsTable = "fixture_records"

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

// GetByExternalID does not filter deleted_at; callers decide what a trashed record means.
func (r *FixtureRepository) GetByExternalID(ctx context.Context, externalID int64) (fixture.Record, bool, error) {
	query, args, err := qb.Select("*").From(fixtureRecordsTable).
		Where(qb.Eq("external_id", externalID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Record{}, false, fmt.Errorf("build select fixture record query: %w", err)
	}

	var row fixtureRecordTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Record{}, false, nil
		}
		return fixture.Record{}, false, fmt.Errorf("get fixture record external_id=%d: %w", externalID, err)
	}

	return fixtureRecordFromRow(row), true, nil
}

func (r *FixtureRepository) Create(ctx context.Context, record fixture.Record) (fixture.Record, error) {
	query, args, err := qb.InsertModel(fixtureRecordsTable, fixtureRecordInsertFromDomain(record), `RETURNING id, created_at, updated_at`)
	if err != nil {
		return fixture.Record{}, fmt.Errorf("build insert fixture record query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return fixture.Record{}, fmt.Errorf("insert fixture record external_id=%d: %w", record.ExternalID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return fixture.Record{}, fmt.Errorf("insert fixture record external_id=%d: no row returned", record.ExternalID)
	}
	if err := rows.Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return fixture.Record{}, fmt.Errorf("scan inserted fixture record: %w", err)
	}
	return record, nil
}

func (r *FixtureRepository) Update(ctx context.Context, record fixture.Record) error {
	builder, err := qb.UpdateModel(fixtureRecordsTable, fixtureRecordInsertFromDomain(record), "external_id")
	if err != nil {
		return fmt.Errorf("build update fixture record query: %w", err)
	}
	query, args, err := builder.
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("external_id", record.ExternalID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fixture record query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update fixture record external_id=%d: %w", record.ExternalID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update fixture record: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update fixture record external_id=%d: not found", record.ExternalID)
	}
	return nil
}

func (r *FixtureRepository) SoftDelete(ctx context.Context, externalID int64, deletedAt time.Time) error {
	query, args, err := qb.Update(fixtureRecordsTable).
		Set("deleted_at", deletedAt.UTC()).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("external_id", externalID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build soft delete fixture record query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete fixture record external_id=%d: %w", externalID, err)
	}
	return nil
}

func (r *FixtureRepository) ListActive(ctx context.Context, limit int) ([]fixture.Record, error) {
	builder := qb.Select("*").From(fixtureRecordsTable).
		Where(qb.IsNull("deleted_at")).
		OrderBy("scheduled_at DESC NULLS LAST", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active fixture records query: %w", err)
	}

	var rows []fixtureRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list active fixture records: %w", err)
	}

	out := make([]fixture.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixtureRecordFromRow(row))
	}
	return out, nil
}

func fixtureRecordFromRow(row fixtureRecordTableModel) fixture.Record {
	record := fixture.Record{
		ID: row.ID,
		Fixture: fixture.Fixture{
			ExternalID: row.ExternalID,
			HomeTeam: fixture.Team{
				ID:      row.HomeTeamID,
				Name:    row.HomeTeamName,
				LogoURL: row.HomeTeamLogo.String,
			},
			AwayTeam: fixture.Team{
				ID:      row.AwayTeamID,
				Name:    row.AwayTeamName,
				LogoURL: row.AwayTeamLogo.String,
			},
			LeagueID:   nullInt64ToInt64(row.LeagueID),
			LeagueName: row.LeagueName.String,
			VenueID:    nullInt64ToInt64(row.VenueID),
			VenueName:  row.VenueName.String,
			Status:     row.Status,
			ScoreHome:  row.ScoreHome,
			ScoreAway:  row.ScoreAway,
		},
		Title:     row.Title,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		DeletedAt: row.DeletedAt,
	}
	if row.ScheduledAt != nil {
		record.ScheduledAt = row.ScheduledAt.UTC()
	}
	if row.LastSyncedAt != nil {
		record.LastSyncedAt = row.LastSyncedAt.UTC()
	}
	return record
}

func fixtureRecordInsertFromDomain(record fixture.Record) fixtureRecordInsertModel {
	return fixtureRecordInsertModel{
		ExternalID:   record.ExternalID,
		Title:        record.Title,
		HomeTeamID:   record.HomeTeam.ID,
		HomeTeamName: record.HomeTeam.Name,
		HomeTeamLogo: nullableString(record.HomeTeam.LogoURL),
		AwayTeamID:   record.AwayTeam.ID,
		AwayTeamName: record.AwayTeam.Name,
		AwayTeamLogo: nullableString(record.AwayTeam.LogoURL),
		LeagueID:     nullableInt64(record.LeagueID),
		LeagueName:   nullableString(record.LeagueName),
		VenueID:      nullableInt64(record.VenueID),
		VenueName:    nullableString(record.VenueName),
		ScheduledAt:  nullableTime(record.ScheduledAt),
		Status:       fixture.NormalizeStatus(record.Status),
		ScoreHome:    record.ScoreHome,
		ScoreAway:    record.ScoreAway,
		LastSyncedAt: nullableTime(record.LastSyncedAt),
	}
}
