package syncstate

import (
	"context"
	"time"
)

// Repository stores sync bookkeeping: watermarks, feature overrides and run summaries.
type Repository interface {
	GetWatermark(ctx context.Context, teamID int64) (Watermark, error)
	SaveWatermark(ctx context.Context, watermark Watermark) error
	GetFeatureOverride(ctx context.Context, feature Feature) (FeatureOverride, bool, error)
	SaveFeatureOverride(ctx context.Context, override FeatureOverride) error
	MarkRunStarted(ctx context.Context, runID string, startedAt time.Time) error
	SaveSummary(ctx context.Context, summary Summary) error
	LastSummary(ctx context.Context) (Summary, bool, error)
}
