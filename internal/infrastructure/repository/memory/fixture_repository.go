package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/fixture"
)

type FixtureRepository struct {
	mu           sync.RWMutex
	nextID       int64
	byExternalID map[int64]fixture.Record
}

func NewFixtureRepository(records []fixture.Record) *FixtureRepository {
	repo := &FixtureRepository{byExternalID: make(map[int64]fixture.Record, len(records))}
	for _, item := range records {
		if item.ID > repo.nextID {
			repo.nextID = item.ID
		}
		repo.byExternalID[item.ExternalID] = item
	}
	return repo
}

func (r *FixtureRepository) GetByExternalID(_ context.Context, externalID int64) (fixture.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byExternalID[externalID]
	return cloneRecord(item), ok, nil
}

func (r *FixtureRepository) Create(_ context.Context, record fixture.Record) (fixture.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byExternalID[record.ExternalID]; exists {
		return fixture.Record{}, fmt.Errorf("fixture record external_id=%d already exists", record.ExternalID)
	}
	r.nextID++
	record.ID = r.nextID
	r.byExternalID[record.ExternalID] = cloneRecord(record)
	return record, nil
}

func (r *FixtureRepository) Update(_ context.Context, record fixture.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byExternalID[record.ExternalID]
	if !ok {
		return fmt.Errorf("fixture record external_id=%d not found", record.ExternalID)
	}
	record.ID = current.ID
	record.CreatedAt = current.CreatedAt
	record.DeletedAt = current.DeletedAt
	r.byExternalID[record.ExternalID] = cloneRecord(record)
	return nil
}

func (r *FixtureRepository) SoftDelete(_ context.Context, externalID int64, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byExternalID[externalID]
	if !ok {
		return fmt.Errorf("fixture record external_id=%d not found", externalID)
	}
	if current.DeletedAt != nil {
		return nil
	}
	at := deletedAt.UTC()
	current.DeletedAt = &at
	r.byExternalID[externalID] = current
	return nil
}

func (r *FixtureRepository) ListActive(_ context.Context, limit int) ([]fixture.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Record, 0, len(r.byExternalID))
	for _, item := range r.byExternalID {
		if item.IsTrashed() {
			continue
		}
		out = append(out, cloneRecord(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.After(out[j].ScheduledAt)
		}
		return out[i].ExternalID > out[j].ExternalID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneRecord(item fixture.Record) fixture.Record {
	if item.DeletedAt != nil {
		at := *item.DeletedAt
		item.DeletedAt = &at
	}
	return item
}
