package ports

import (
	"context"
	"time"

	"RatingActionTracker/internal/domain"
)

// RecordSource pulls fresh press releases from every configured agency.
type RecordSource interface {
	Fetch(ctx context.Context) ([]domain.RawRecord, error)
}

// ActionRepository persists classified records for history and deduplication.
type ActionRepository interface {
	AlreadyStored(ctx context.Context, links []string) (map[string]bool, error)
	Save(ctx context.Context, record domain.ClassifiedRecord, runID string) error
	List(ctx context.Context, filter domain.Filter, limit int) ([]domain.ClassifiedRecord, error)
}

// Notifier streams digests of new rating moves to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when refreshes execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
