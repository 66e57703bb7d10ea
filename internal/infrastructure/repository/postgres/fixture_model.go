package postgres

import (
	"database/sql"
	"time"
)

type fixtureRecordTableModel struct {
	ID           int64          `db:"id"`
	ExternalID   int64          `db:"external_id"`
	Title        string         `db:"title"`
	HomeTeamID   int64          `db:"home_team_id"`
	HomeTeamName string         `db:"home_team_name"`
	HomeTeamLogo sql.NullString `db:"home_team_logo"`
	AwayTeamID   int64          `db:"away_team_id"`
	AwayTeamName string         `db:"away_team_name"`
	AwayTeamLogo sql.NullString `db:"away_team_logo"`
	LeagueID     sql.NullInt64  `db:"league_id"`
	LeagueName   sql.NullString `db:"league_name"`
	VenueID      sql.NullInt64  `db:"venue_id"`
	VenueName    sql.NullString `db:"venue_name"`
	ScheduledAt  *time.Time     `db:"scheduled_at"`
	Status       string         `db:"status"`
	ScoreHome    string         `db:"score_home"`
	ScoreAway    string         `db:"score_away"`
	LastSyncedAt *time.Time     `db:"last_synced_at"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

type fixtureRecordInsertModel struct {
	ExternalID   int64      `db:"external_id"`
	Title        string     `db:"title"`
	HomeTeamID   int64      `db:"home_team_id"`
	HomeTeamName string     `db:"home_team_name"`
	HomeTeamLogo *string    `db:"home_team_logo"`
	AwayTeamID   int64      `db:"away_team_id"`
	AwayTeamName string     `db:"away_team_name"`
	AwayTeamLogo *string    `db:"away_team_logo"`
	LeagueID     *int64     `db:"league_id"`
	LeagueName   *string    `db:"league_name"`
	VenueID      *int64     `db:"venue_id"`
	VenueName    *string    `db:"venue_name"`
	ScheduledAt  *time.Time `db:"scheduled_at"`
	Status       string     `db:"status"`
	ScoreHome    string     `db:"score_home"`
	ScoreAway    string     `db:"score_away"`
	LastSyncedAt *time.Time `db:"last_synced_at"`
}
