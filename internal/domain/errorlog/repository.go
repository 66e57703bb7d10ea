package errorlog

import (
	"context"
	"time"
)

type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	// List returns entries matching filter, newest first.
	List(ctx context.Context, filter Filter) ([]Entry, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}
