package fixture

import (
	"context"
	"time"
)

// Repository persists fixture records keyed by provider id.
type Repository interface {
	// GetByExternalID also returns trashed records so a fixture is never stored twice.
	GetByExternalID(ctx context.Context, externalID int64) (Record, bool, error)
	Create(ctx context.Context, record Record) (Record, error)
	Update(ctx context.Context, record Record) error
	SoftDelete(ctx context.Context, externalID int64, deletedAt time.Time) error
	ListActive(ctx context.Context, limit int) ([]Record, error)
}
