package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aliskhannn/review-center/internal/domain/entities"
	"github.com/aliskhannn/review-center/internal/repository"
)

var ErrStudentNameRequired = errors.New("student name is required")

// ReviewService handles scheduling and bookkeeping of review records.
// The session engine is the only caller that writes scores.
type ReviewService struct {
	reviews ReviewStore
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews ReviewStore) *ReviewService {
	return &ReviewService{reviews: reviews}
}

// ScheduleParams are the caller-supplied fields of a new review.
type ScheduleParams struct {
	StudentName string
	Batch       string
	Module      string
	Status      entities.ReviewStatus
	ScheduledAt time.Time
}

// Schedule creates a new review record. Status defaults to pending and
// the scheduled time to now.
func (s *ReviewService) Schedule(ctx context.Context, params ScheduleParams) (*entities.Review, error) {
	name := strings.TrimSpace(params.StudentName)
	if name == "" {
		return nil, ErrStudentNameRequired
	}

	status := params.Status
	if status == "" {
		status = entities.ReviewPending
	}
	scheduledAt := params.ScheduledAt
	if scheduledAt.IsZero() {
		scheduledAt = time.Now()
	}

	return s.reviews.Create(ctx, &entities.Review{
		StudentName: name,
		Batch:       params.Batch,
		Module:      params.Module,
		Status:      status,
		ScheduledAt: scheduledAt,
	})
}

// List returns all reviews, most recently scheduled first.
func (s *ReviewService) List(ctx context.Context) ([]*entities.Review, error) {
	return s.reviews.List(ctx)
}

// Get returns a single review record.
func (s *ReviewService) Get(ctx context.Context, id int64) (*entities.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// Update applies a partial update to a review record.
func (s *ReviewService) Update(ctx context.Context, id int64, params repository.UpdateParams) (*entities.Review, error) {
	return s.reviews.Update(ctx, id, params)
}

// Delete removes a review record.
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	return s.reviews.Delete(ctx, id)
}
