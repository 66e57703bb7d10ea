package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fixture-sync/internal/domain/errorlog"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultRefreshLimit   = 100
	maxRefreshLimit       = 1000
	defaultRefreshWorkers = 1
	maxRefreshWorkers     = 8
)

type RefreshResult struct {
	ExternalID int64  `json:"external_id"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
}

type RefreshMatchesInput struct {
	// ExternalIDs selects records explicitly; when empty the most recent
	// active records are refreshed, up to Limit.
	ExternalIDs []int64
	Limit       int
	Workers     int
}

type RefreshMatchesResult struct {
	Requested int             `json:"requested"`
	Updated   int             `json:"updated"`
	Errors    int             `json:"errors"`
	Workers   int             `json:"workers"`
	Results   []RefreshResult `json:"results"`
}

// RefreshMatch re-fetches one stored fixture from the provider without the
// HTTP cache and applies it with no team scope.
func (m *SyncManager) RefreshMatch(ctx context.Context, externalID int64) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncManager.RefreshMatch", attribute.Int64("match.id", externalID))
	defer span.End()

	if externalID <= 0 {
		return RefreshResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	record, exists, err := m.fixtures.GetByExternalID(ctx, externalID)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("find fixture record: %w", err)
	}
	if !exists {
		return RefreshResult{}, fmt.Errorf("%w: match=%d", ErrNotFound, externalID)
	}

	result := RefreshResult{ExternalID: externalID}
	item, ok, err := m.provider.Fixture(ctx, externalID)
	if err != nil {
		result.Message = err.Error()
		return result, nil
	}
	if !ok {
		result.Message = "invalid API response"
		return result, nil
	}
	if item.ExternalID <= 0 {
		item.ExternalID = externalID
	}

	now := m.now().UTC()
	record.Apply(item, now)
	record.UpdatedAt = now
	if err := m.fixtures.Update(ctx, record); err != nil {
		return RefreshResult{}, fmt.Errorf("update fixture record: %w", err)
	}
	if !item.HasTeamNames() {
		m.report(ctx, errorlog.CodeMissingTeamNames, "Cannot update match title without team names", map[string]any{"match_id": externalID, "record_id": record.ID}, "")
	}
	m.associateTerms(ctx, record, nil)

	result.Success = true
	result.Message = "match refreshed from API"
	return result, nil
}

// RefreshMatches refreshes many records through a bounded worker pool.
// One worker keeps provider calls sequential.
func (m *SyncManager) RefreshMatches(ctx context.Context, input RefreshMatchesInput) (RefreshMatchesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncManager.RefreshMatches", attribute.Int("refresh.explicit_ids", len(input.ExternalIDs)))
	defer span.End()

	ids, err := m.refreshTargets(ctx, input)
	if err != nil {
		return RefreshMatchesResult{}, err
	}

	workerCount := input.Workers
	if workerCount <= 0 {
		workerCount = defaultRefreshWorkers
	}
	if workerCount > maxRefreshWorkers {
		workerCount = maxRefreshWorkers
	}

	result := RefreshMatchesResult{
		Requested: len(ids),
		Workers:   workerCount,
		Results:   make([]RefreshResult, 0, len(ids)),
	}
	if len(ids) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshMatchesResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var updated atomic.Int32
	var failed atomic.Int32
	rows := make(chan RefreshResult, len(ids))

	var workers sync.WaitGroup
	for _, externalID := range ids {
		externalID := externalID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row, refreshErr := m.RefreshMatch(ctx, externalID)
			if refreshErr != nil {
				row = RefreshResult{ExternalID: externalID, Message: refreshErr.Error()}
			}
			if row.Success {
				updated.Add(1)
			} else {
				failed.Add(1)
			}
			rows <- row
		}); err != nil {
			workers.Done()
			workers.Wait()
			return RefreshMatchesResult{}, fmt.Errorf("submit refresh task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Results = append(result.Results, row)
	}
	sort.SliceStable(result.Results, func(i, j int) bool {
		return result.Results[i].ExternalID < result.Results[j].ExternalID
	})

	result.Updated = int(updated.Load())
	result.Errors = int(failed.Load())
	m.logger.InfoContext(ctx, "bulk match refresh finished",
		"requested", result.Requested,
		"updated", result.Updated,
		"errors", result.Errors,
		"workers", workerCount,
	)
	return result, nil
}

func (m *SyncManager) refreshTargets(ctx context.Context, input RefreshMatchesInput) ([]int64, error) {
	if len(input.ExternalIDs) > 0 {
		seen := make(map[int64]struct{}, len(input.ExternalIDs))
		out := make([]int64, 0, len(input.ExternalIDs))
		for _, externalID := range input.ExternalIDs {
			if externalID <= 0 {
				return nil, fmt.Errorf("%w: match ids must be positive", ErrInvalidInput)
			}
			if _, ok := seen[externalID]; ok {
				continue
			}
			seen[externalID] = struct{}{}
			out = append(out, externalID)
		}
		return out, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultRefreshLimit
	}
	if limit > maxRefreshLimit {
		return nil, fmt.Errorf("%w: limit must be <= %d", ErrInvalidInput, maxRefreshLimit)
	}

	records, err := m.fixtures.ListActive(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list active fixture records: %w", err)
	}
	out := make([]int64, 0, len(records))
	for _, record := range records {
		out = append(out, record.ExternalID)
	}
	return out, nil
}
