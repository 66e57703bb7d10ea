package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/syncstate"
	syncstatemock "github.com/riskibarqy/fixture-sync/internal/mocks/domain/syncstate"
	taxonomymock "github.com/riskibarqy/fixture-sync/internal/mocks/domain/taxonomy"
	basecache "github.com/riskibarqy/fixture-sync/internal/platform/cache"
	"github.com/stretchr/testify/mock"
)

func TestTaxonomyRepository_CachesMissesAndInvalidatesOnWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := taxonomymock.NewRepository(t)
	repo := NewTaxonomyRepository(next, basecache.NewStore(time.Minute))

	next.On("TeamCategory", mock.Anything, int64(8)).Return(int64(0), false, nil).Once()
	for i := 0; i < 3; i++ {
		if _, ok, err := repo.TeamCategory(ctx, 8); err != nil || ok {
			t.Fatalf("expected cached miss, ok=%t err=%v", ok, err)
		}
	}

	next.On("SetTeamCategory", mock.Anything, int64(8), int64(3)).Return(nil).Once()
	if err := repo.SetTeamCategory(ctx, 8, 3); err != nil {
		t.Fatalf("set team category: %v", err)
	}

	next.On("TeamCategory", mock.Anything, int64(8)).Return(int64(3), true, nil).Once()
	termID, ok, err := repo.TeamCategory(ctx, 8)
	if err != nil || !ok || termID != 3 {
		t.Fatalf("expected reload after write, got term=%d ok=%t err=%v", termID, ok, err)
	}
}

func TestTaxonomyRepository_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := taxonomymock.NewRepository(t)
	repo := NewTaxonomyRepository(next, basecache.NewStore(time.Minute))
	errDB := errors.New("connection reset")

	next.On("LeagueCompetition", mock.Anything, int64(8)).Return(int64(0), false, errDB).Once()
	if _, _, err := repo.LeagueCompetition(ctx, 8); !errors.Is(err, errDB) {
		t.Fatalf("expected db error, got %v", err)
	}

	next.On("LeagueCompetition", mock.Anything, int64(8)).Return(int64(21), true, nil).Once()
	termID, ok, err := repo.LeagueCompetition(ctx, 8)
	if err != nil || !ok || termID != 21 {
		t.Fatalf("expected retry to reach next, got term=%d ok=%t err=%v", termID, ok, err)
	}
}

func TestSyncStateRepository_FeatureOverrideCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := syncstatemock.NewRepository(t)
	repo := NewSyncStateRepository(next, basecache.NewStore(time.Minute))

	stored := syncstate.FeatureOverride{Feature: syncstate.FeatureInjuries, Enabled: false, Reason: "injuries sync disabled due to 403 access error"}
	next.On("GetFeatureOverride", mock.Anything, syncstate.FeatureInjuries).Return(stored, true, nil).Once()
	for i := 0; i < 2; i++ {
		got, ok, err := repo.GetFeatureOverride(ctx, syncstate.FeatureInjuries)
		if err != nil || !ok || got.Enabled {
			t.Fatalf("expected cached disabled override, got=%+v ok=%t err=%v", got, ok, err)
		}
	}

	enabled := syncstate.FeatureOverride{Feature: syncstate.FeatureInjuries, Enabled: true}
	next.On("SaveFeatureOverride", mock.Anything, enabled).Return(nil).Once()
	if err := repo.SaveFeatureOverride(ctx, enabled); err != nil {
		t.Fatalf("save override: %v", err)
	}

	next.On("GetFeatureOverride", mock.Anything, syncstate.FeatureInjuries).Return(enabled, true, nil).Once()
	got, ok, err := repo.GetFeatureOverride(ctx, syncstate.FeatureInjuries)
	if err != nil || !ok || !got.Enabled {
		t.Fatalf("expected reload after save, got=%+v ok=%t err=%v", got, ok, err)
	}
}
