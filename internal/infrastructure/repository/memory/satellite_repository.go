package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/domain/satellite"
	"github.com/riskibarqy/fixture-sync/internal/platform/cache"
)

// SatelliteRepository keeps satellite payloads in the process cache so they
// expire with their kind TTL.
type SatelliteRepository struct {
	store *cache.Store
}

func NewSatelliteRepository(store *cache.Store) *SatelliteRepository {
	if store == nil {
		store = cache.NewStore(0)
	}
	return &SatelliteRepository{store: store}
}

func (r *SatelliteRepository) Get(ctx context.Context, kind satellite.Kind, teamID int64) (satellite.Entry, bool, error) {
	value, ok := r.store.Get(ctx, satelliteKey(kind, teamID))
	if !ok {
		return satellite.Entry{}, false, nil
	}
	entry, ok := value.(satellite.Entry)
	if !ok {
		return satellite.Entry{}, false, fmt.Errorf("unexpected satellite cache value %T", value)
	}
	return entry, true, nil
}

func (r *SatelliteRepository) Put(ctx context.Context, entry satellite.Entry, ttl time.Duration) error {
	payload := make([]byte, len(entry.Payload))
	copy(payload, entry.Payload)
	entry.Payload = payload
	r.store.SetWithTTL(ctx, satelliteKey(entry.Kind, entry.TeamID), entry, ttl)
	return nil
}

func satelliteKey(kind satellite.Kind, teamID int64) string {
	return fmt.Sprintf("satellite:%s:%d", kind, teamID)
}
