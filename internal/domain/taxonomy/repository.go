package taxonomy

import "context"

// Repository owns terms, the team/league mappings and per-record term sets.
type Repository interface {
	TeamCategory(ctx context.Context, teamID int64) (int64, bool, error)
	SetTeamCategory(ctx context.Context, teamID, termID int64) error
	LeagueCompetition(ctx context.Context, leagueID int64) (int64, bool, error)
	SetLeagueCompetition(ctx context.Context, leagueID, termID int64) error
	// EnsureTerm returns the existing term with the same kind and slug, or creates it.
	EnsureTerm(ctx context.Context, kind Kind, name string) (Term, error)
	// SetRecordTerms replaces the record's terms of one kind.
	SetRecordTerms(ctx context.Context, recordID int64, kind Kind, termIDs []int64) error
	RecordTerms(ctx context.Context, recordID int64, kind Kind) ([]int64, error)
}
