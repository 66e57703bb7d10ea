package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/syncstate"
	"github.com/riskibarqy/fixture-sync/internal/domain/taxonomy"
	basecache "github.com/riskibarqy/fixture-sync/internal/platform/cache"
)

// lookup remembers misses as well as hits so an unmapped id costs one query.
type lookup[T any] struct {
	value  T
	exists bool
}

func loadLookup[T any](ctx context.Context, store *basecache.Store, key string, load func(context.Context) (T, bool, error)) (T, bool, error) {
	v, err := store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		value, exists, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return lookup[T]{value: value, exists: exists}, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	cached, _ := v.(lookup[T])
	return cached.value, cached.exists, nil
}

// TaxonomyRepository caches the team and league mapping lookups hit once per
// synced fixture. Writes invalidate the affected key.
type TaxonomyRepository struct {
	next  taxonomy.Repository
	cache *basecache.Store
}

func NewTaxonomyRepository(next taxonomy.Repository, cache *basecache.Store) *TaxonomyRepository {
	return &TaxonomyRepository{next: next, cache: cache}
}

func (r *TaxonomyRepository) TeamCategory(ctx context.Context, teamID int64) (int64, bool, error) {
	return loadLookup(ctx, r.cache, teamCategoryKey(teamID), func(ctx context.Context) (int64, bool, error) {
		return r.next.TeamCategory(ctx, teamID)
	})
}

func (r *TaxonomyRepository) SetTeamCategory(ctx context.Context, teamID, termID int64) error {
	if err := r.next.SetTeamCategory(ctx, teamID, termID); err != nil {
		return err
	}
	r.cache.Delete(ctx, teamCategoryKey(teamID))
	return nil
}

func (r *TaxonomyRepository) LeagueCompetition(ctx context.Context, leagueID int64) (int64, bool, error) {
	return loadLookup(ctx, r.cache, leagueCompetitionKey(leagueID), func(ctx context.Context) (int64, bool, error) {
		return r.next.LeagueCompetition(ctx, leagueID)
	})
}

func (r *TaxonomyRepository) SetLeagueCompetition(ctx context.Context, leagueID, termID int64) error {
	if err := r.next.SetLeagueCompetition(ctx, leagueID, termID); err != nil {
		return err
	}
	r.cache.Delete(ctx, leagueCompetitionKey(leagueID))
	return nil
}

func (r *TaxonomyRepository) EnsureTerm(ctx context.Context, kind taxonomy.Kind, name string) (taxonomy.Term, error) {
	return r.next.EnsureTerm(ctx, kind, name)
}

func (r *TaxonomyRepository) SetRecordTerms(ctx context.Context, recordID int64, kind taxonomy.Kind, termIDs []int64) error {
	return r.next.SetRecordTerms(ctx, recordID, kind, termIDs)
}

func (r *TaxonomyRepository) RecordTerms(ctx context.Context, recordID int64, kind taxonomy.Kind) ([]int64, error) {
	return r.next.RecordTerms(ctx, recordID, kind)
}

func teamCategoryKey(teamID int64) string {
	return "taxonomy:team:" + strconv.FormatInt(teamID, 10)
}

func leagueCompetitionKey(leagueID int64) string {
	return "taxonomy:league:" + strconv.FormatInt(leagueID, 10)
}

// SyncStateRepository caches feature overrides, which are read for every
// team and satellite kind of a run. Everything else passes through.
type SyncStateRepository struct {
	next  syncstate.Repository
	cache *basecache.Store
}

func NewSyncStateRepository(next syncstate.Repository, cache *basecache.Store) *SyncStateRepository {
	return &SyncStateRepository{next: next, cache: cache}
}

func (r *SyncStateRepository) GetWatermark(ctx context.Context, teamID int64) (syncstate.Watermark, error) {
	return r.next.GetWatermark(ctx, teamID)
}

func (r *SyncStateRepository) SaveWatermark(ctx context.Context, watermark syncstate.Watermark) error {
	return r.next.SaveWatermark(ctx, watermark)
}

func (r *SyncStateRepository) GetFeatureOverride(ctx context.Context, feature syncstate.Feature) (syncstate.FeatureOverride, bool, error) {
	return loadLookup(ctx, r.cache, featureOverrideKey(feature), func(ctx context.Context) (syncstate.FeatureOverride, bool, error) {
		return r.next.GetFeatureOverride(ctx, feature)
	})
}

func (r *SyncStateRepository) SaveFeatureOverride(ctx context.Context, override syncstate.FeatureOverride) error {
	if err := r.next.SaveFeatureOverride(ctx, override); err != nil {
		return err
	}
	r.cache.Delete(ctx, featureOverrideKey(override.Feature))
	return nil
}

func (r *SyncStateRepository) MarkRunStarted(ctx context.Context, runID string, startedAt time.Time) error {
	return r.next.MarkRunStarted(ctx, runID, startedAt)
}

func (r *SyncStateRepository) SaveSummary(ctx context.Context, summary syncstate.Summary) error {
	return r.next.SaveSummary(ctx, summary)
}

func (r *SyncStateRepository) LastSummary(ctx context.Context) (syncstate.Summary, bool, error) {
	return r.next.LastSummary(ctx)
}

func featureOverrideKey(feature syncstate.Feature) string {
	return "sync-state:feature:" + string(feature)
}
