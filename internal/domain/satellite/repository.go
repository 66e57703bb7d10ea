package satellite

import (
	"context"
	"time"
)

// Repository keeps the latest satellite payload per (kind, team).
type Repository interface {
	Get(ctx context.Context, kind Kind, teamID int64) (Entry, bool, error)
	Put(ctx context.Context, entry Entry, ttl time.Duration) error
}
