package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/errorlog"
)

type ErrorLogRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries []errorlog.Entry
}

func NewErrorLogRepository() *ErrorLogRepository {
	return &ErrorLogRepository{}
}

func (r *ErrorLogRepository) Insert(_ context.Context, entry errorlog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	r.entries = append(r.entries, entry)
	return nil
}

func (r *ErrorLogRepository) List(_ context.Context, filter errorlog.Filter) ([]errorlog.Entry, error) {
	filter = filter.Normalize()
	matched := r.match(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].ID > matched[j].ID
	})

	offset := filter.Offset()
	if offset >= len(matched) {
		return []errorlog.Entry{}, nil
	}
	end := offset + filter.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *ErrorLogRepository) Count(_ context.Context, filter errorlog.Filter) (int, error) {
	return len(r.match(filter)), nil
}

func (r *ErrorLogRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, entry := range r.entries {
		if entry.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *ErrorLogRepository) DeleteBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	var removed int64
	for _, entry := range r.entries {
		if entry.Timestamp.Before(before) {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	r.entries = kept
	return removed, nil
}

func (r *ErrorLogRepository) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := int64(len(r.entries))
	r.entries = nil
	return removed, nil
}

func (r *ErrorLogRepository) match(filter errorlog.Filter) []errorlog.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]errorlog.Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		if filter.Type != "" && entry.Type != filter.Type {
			continue
		}
		if filter.From != nil && entry.Timestamp.Before(*filter.From) {
			continue
		}
		if filter.To != nil && entry.Timestamp.After(*filter.To) {
			continue
		}
		out = append(out, entry)
	}
	return out
}
