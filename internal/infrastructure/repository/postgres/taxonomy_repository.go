package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fixture-sync/internal/domain/taxonomy"
	qb "github.com/riskibarqy/fixture-sync/internal/platform/querybuilder"
)

type TaxonomyRepository struct {
	db *sqlx.DB
}

func NewTaxonomyRepository(db *sqlx.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

func (r *TaxonomyRepository) TeamCategory(ctx context.Context, teamID int64) (int64, bool, error) {
	return r.mappedTerm(ctx, "taxonomy_team_categories", "team_id", teamID)
}

func (r *TaxonomyRepository) SetTeamCategory(ctx context.Context, teamID, termID int64) error {
	return r.setMappedTerm(ctx, "taxonomy_team_categories", "team_id", teamID, termID)
}

func (r *TaxonomyRepository) LeagueCompetition(ctx context.Context, leagueID int64) (int64, bool, error) {
	return r.mappedTerm(ctx, "taxonomy_league_competitions", "league_id", leagueID)
}

func (r *TaxonomyRepository) SetLeagueCompetition(ctx context.Context, leagueID, termID int64) error {
	return r.setMappedTerm(ctx, "taxonomy_league_competitions", "league_id", leagueID, termID)
}

func (r *TaxonomyRepository) EnsureTerm(ctx context.Context, kind taxonomy.Kind, name string) (taxonomy.Term, error) {
	name = strings.TrimSpace(name)
	slug := taxonomy.Slugify(name)
	if slug == "" {
		return taxonomy.Term{}, fmt.Errorf("term name %q has no usable slug", name)
	}

	// The no-op update makes RETURNING yield the existing row on conflict.
	query, args, err := qb.InsertModel("taxonomy_terms", taxonomyTermInsertModel{
		Kind: string(kind),
		Name: name,
		Slug: slug,
	}, `ON CONFLICT (kind, slug)
DO UPDATE SET slug = EXCLUDED.slug
RETURNING id, kind, name, slug`)
	if err != nil {
		return taxonomy.Term{}, fmt.Errorf("build ensure term query: %w", err)
	}

	var row taxonomyTermTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return taxonomy.Term{}, fmt.Errorf("ensure term kind=%s slug=%s: %w", kind, slug, err)
	}
	return taxonomy.Term{
		ID:   row.ID,
		Kind: taxonomy.Kind(row.Kind),
		Name: row.Name,
		Slug: row.Slug,
	}, nil
}

func (r *TaxonomyRepository) SetRecordTerms(ctx context.Context, recordID int64, kind taxonomy.Kind, termIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx set record terms: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("taxonomy_record_terms").
		Where(
			qb.Eq("record_id", recordID),
			qb.Eq("kind", string(kind)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete record terms query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete record terms record_id=%d kind=%s: %w", recordID, kind, err)
	}

	if len(termIDs) > 0 {
		insert := qb.InsertInto("taxonomy_record_terms").Columns("record_id", "kind", "term_id")
		for _, termID := range termIDs {
			insert = insert.Values(recordID, string(kind), termID)
		}
		insertQuery, insertArgs, err := insert.Suffix("ON CONFLICT (record_id, kind, term_id) DO NOTHING").ToSQL()
		if err != nil {
			return fmt.Errorf("build insert record terms query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert record terms record_id=%d kind=%s: %w", recordID, kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set record terms tx: %w", err)
	}
	return nil
}

func (r *TaxonomyRepository) RecordTerms(ctx context.Context, recordID int64, kind taxonomy.Kind) ([]int64, error) {
	query, args, err := qb.Select("term_id").From("taxonomy_record_terms").
		Where(
			qb.Eq("record_id", recordID),
			qb.Eq("kind", string(kind)),
		).
		OrderBy("term_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select record terms query: %w", err)
	}

	var out []int64
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("select record terms record_id=%d kind=%s: %w", recordID, kind, err)
	}
	return out, nil
}

func (r *TaxonomyRepository) mappedTerm(ctx context.Context, table, keyColumn string, key int64) (int64, bool, error) {
	query, args, err := qb.Select("term_id").From(table).
		Where(qb.Eq(keyColumn, key)).
		Limit(1).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build select %s query: %w", table, err)
	}

	var termID int64
	if err := r.db.GetContext(ctx, &termID, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("select %s %s=%d: %w", table, keyColumn, key, err)
	}
	return termID, true, nil
}

func (r *TaxonomyRepository) setMappedTerm(ctx context.Context, table, keyColumn string, key, termID int64) error {
	query, args, err := qb.InsertInto(table).
		Columns(keyColumn, "term_id").
		Values(key, termID).
		Suffix(fmt.Sprintf(`ON CONFLICT (%s)
DO UPDATE SET
    term_id = EXCLUDED.term_id,
    updated_at = NOW()`, keyColumn)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert %s query: %w", table, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s %s=%d: %w", table, keyColumn, key, err)
	}
	return nil
}
