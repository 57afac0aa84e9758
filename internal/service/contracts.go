package service

import (
	"context"
	"time"

	"github.com/aliskhannn/review-center/internal/domain/entities"
	"github.com/aliskhannn/review-center/internal/repository"
)

// QuestionCatalog exposes the static, ordered question catalog.
type QuestionCatalog interface {
	GetByModule(moduleID int) []entities.Question
	GetAll() []entities.Question
}

// SnapshotStore persists in-progress session snapshots. Load must
// return repository.ErrSnapshotNotFound when no snapshot exists.
type SnapshotStore interface {
	Save(ctx context.Context, sessionID int64, data []byte) error
	Load(ctx context.Context, sessionID int64) ([]byte, error)
	Clear(ctx context.Context, sessionID int64) error
}

// StaleSnapshotStore is the subset of the snapshot store used by the janitor.
type StaleSnapshotStore interface {
	DeleteStale(ctx context.Context, maxAge time.Duration) (int64, error)
}

// ReviewStore provides CRUD over scheduled review records.
type ReviewStore interface {
	Create(ctx context.Context, review *entities.Review) (*entities.Review, error)
	GetByID(ctx context.Context, id int64) (*entities.Review, error)
	List(ctx context.Context) ([]*entities.Review, error)
	Update(ctx context.Context, id int64, params repository.UpdateParams) (*entities.Review, error)
	Complete(ctx context.Context, id int64, result entities.FinalizeResult) (*entities.Review, error)
	MarkActive(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// ResultNotifier announces a finalized evaluation, e.g. to a reviewer
// chat. Implementations must not block finalize semantics; delivery
// failures are logged and dropped.
type ResultNotifier interface {
	NotifyResult(review *entities.Review, report string) error
}
