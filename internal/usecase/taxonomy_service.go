package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
	"github.com/riskibarqy/fixture-sync/internal/domain/taxonomy"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type TaxonomyService struct {
	repo   taxonomy.Repository
	logger *logging.Logger
}

func NewTaxonomyService(repo taxonomy.Repository, logger *logging.Logger) *TaxonomyService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TaxonomyService{
		repo:   repo,
		logger: logger,
	}
}

// ConfigureTeam creates or reuses the category term named name and maps teamID to it.
func (s *TaxonomyService) ConfigureTeam(ctx context.Context, teamID int64, name string) (taxonomy.Term, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TaxonomyService.ConfigureTeam", attribute.Int64("team.id", teamID))
	defer span.End()

	name = strings.TrimSpace(name)
	if teamID <= 0 {
		return taxonomy.Term{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if name == "" || taxonomy.Slugify(name) == "" {
		return taxonomy.Term{}, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	term, err := s.repo.EnsureTerm(ctx, taxonomy.KindCategory, name)
	if err != nil {
		return taxonomy.Term{}, fmt.Errorf("ensure category term: %w", err)
	}
	if err := s.repo.SetTeamCategory(ctx, teamID, term.ID); err != nil {
		return taxonomy.Term{}, fmt.Errorf("set team category: %w", err)
	}
	return term, nil
}

// TeamCategory returns the category term id mapped to teamID.
func (s *TaxonomyService) TeamCategory(ctx context.Context, teamID int64) (int64, bool, error) {
	return s.repo.TeamCategory(ctx, teamID)
}

func (s *TaxonomyService) LeagueCompetition(ctx context.Context, leagueID int64) (int64, bool, error) {
	return s.repo.LeagueCompetition(ctx, leagueID)
}

// AssociateRecord attaches the scoped team's category (only when mapped) and
// the league competition, creating the competition term on first sight.
// Each kind is replaced independently; a kind with nothing to set is left as
// is, and a failure in one does not stop the other.
func (s *TaxonomyService) AssociateRecord(ctx context.Context, record fixture.Record, teamID int64) error {
	if record.ID <= 0 {
		return fmt.Errorf("%w: record id is required", ErrInvalidInput)
	}
	return errors.Join(
		s.associateCategory(ctx, record.ID, teamID),
		s.associateCompetition(ctx, record),
	)
}

func (s *TaxonomyService) associateCategory(ctx context.Context, recordID, teamID int64) error {
	if teamID <= 0 {
		return nil
	}
	termID, ok, err := s.repo.TeamCategory(ctx, teamID)
	if err != nil {
		return fmt.Errorf("get team category: %w", err)
	}
	if !ok {
		return nil
	}
	if err := s.repo.SetRecordTerms(ctx, recordID, taxonomy.KindCategory, []int64{termID}); err != nil {
		return fmt.Errorf("set category terms: %w", err)
	}
	return nil
}

func (s *TaxonomyService) associateCompetition(ctx context.Context, record fixture.Record) error {
	if record.LeagueID <= 0 {
		return nil
	}
	termID, err := s.competitionTerm(ctx, record.LeagueID, record.LeagueName)
	if err != nil {
		return err
	}
	if termID <= 0 {
		return nil
	}
	if err := s.repo.SetRecordTerms(ctx, record.ID, taxonomy.KindCompetition, []int64{termID}); err != nil {
		return fmt.Errorf("set competition terms: %w", err)
	}
	return nil
}

func (s *TaxonomyService) competitionTerm(ctx context.Context, leagueID int64, leagueName string) (int64, error) {
	termID, ok, err := s.repo.LeagueCompetition(ctx, leagueID)
	if err != nil {
		return 0, fmt.Errorf("get league competition: %w", err)
	}
	if ok {
		return termID, nil
	}

	leagueName = strings.TrimSpace(leagueName)
	if leagueName == "" || taxonomy.Slugify(leagueName) == "" {
		return 0, nil
	}
	term, err := s.repo.EnsureTerm(ctx, taxonomy.KindCompetition, leagueName)
	if err != nil {
		return 0, fmt.Errorf("ensure competition term: %w", err)
	}
	if err := s.repo.SetLeagueCompetition(ctx, leagueID, term.ID); err != nil {
		return 0, fmt.Errorf("set league competition: %w", err)
	}
	s.logger.InfoContext(ctx, "competition term created for league", "league_id", leagueID, "term_id", term.ID, "name", term.Name)
	return term.ID, nil
}
