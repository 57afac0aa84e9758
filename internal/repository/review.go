package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aliskhannn/review-center/internal/domain/entities"
)

var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository provides access to scheduled review records in the database.
type ReviewRepository struct {
	db *pgxpool.Pool
}

// NewReviewRepository creates a new ReviewRepository with the provided database pool.
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, student_name, COALESCE(batch, ''), COALESCE(module, ''),
       status, scheduled_at, scores, COALESCE(notes, ''), session_data, created_at, updated_at`

func scanReview(row pgx.Row) (*entities.Review, error) {
	var r entities.Review
	err := row.Scan(
		&r.ID,
		&r.StudentName,
		&r.Batch,
		&r.Module,
		&r.Status,
		&r.ScheduledAt,
		&r.Scores,
		&r.Notes,
		&r.SessionData,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a new scheduled review and returns it with
// database-assigned fields populated.
func (r *ReviewRepository) Create(ctx context.Context, review *entities.Review) (*entities.Review, error) {
	query := `
		INSERT INTO reviews (student_name, batch, module, status, scheduled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reviewColumns

	created, err := scanReview(r.db.QueryRow(
		ctx,
		query,
		review.StudentName,
		review.Batch,
		review.Module,
		review.Status,
		review.ScheduledAt,
	))
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	return created, nil
}

// GetByID retrieves a single review record.
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*entities.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	return review, nil
}

// List returns all review records, most recently scheduled first.
func (r *ReviewRepository) List(ctx context.Context) ([]*entities.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY scheduled_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*entities.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, nil
}

// UpdateParams carries the optional fields of a partial review update.
// Nil fields are left untouched.
type UpdateParams struct {
	Status      *entities.ReviewStatus
	Scores      json.RawMessage
	Notes       *string
	SessionData json.RawMessage
}

// Update applies a partial update, building the SET clause from the
// fields actually present.
func (r *ReviewRepository) Update(ctx context.Context, id int64, params UpdateParams) (*entities.Review, error) {
	updates := make([]string, 0, 5)
	values := make([]any, 0, 5)

	if params.Status != nil {
		values = append(values, *params.Status)
		updates = append(updates, fmt.Sprintf("status = $%d", len(values)))
	}
	if params.Scores != nil {
		values = append(values, params.Scores)
		updates = append(updates, fmt.Sprintf("scores = $%d", len(values)))
	}
	if params.Notes != nil {
		values = append(values, *params.Notes)
		updates = append(updates, fmt.Sprintf("notes = $%d", len(values)))
	}
	if params.SessionData != nil {
		values = append(values, params.SessionData)
		updates = append(updates, fmt.Sprintf("session_data = $%d", len(values)))
	}

	updates = append(updates, "updated_at = NOW()")
	values = append(values, id)

	query := fmt.Sprintf(
		"UPDATE reviews SET %s WHERE id = $%d RETURNING %s",
		strings.Join(updates, ", "), len(values), reviewColumns,
	)

	review, err := scanReview(r.db.QueryRow(ctx, query, values...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	return review, nil
}

// Complete writes the finalize payload of a finished session.
func (r *ReviewRepository) Complete(ctx context.Context, id int64, result entities.FinalizeResult) (*entities.Review, error) {
	scores, err := json.Marshal(result.Scores)
	if err != nil {
		return nil, fmt.Errorf("marshal scores: %w", err)
	}
	sessionData, err := json.Marshal(result.SessionData)
	if err != nil {
		return nil, fmt.Errorf("marshal session data: %w", err)
	}

	status := result.Status
	notes := result.Notes

	return r.Update(ctx, id, UpdateParams{
		Status:      &status,
		Scores:      scores,
		Notes:       &notes,
		SessionData: sessionData,
	})
}

// MarkActive flips a pending review to active when its session starts.
func (r *ReviewRepository) MarkActive(ctx context.Context, id int64) error {
	query := `UPDATE reviews SET status = 'active', updated_at = NOW() WHERE id = $1 AND status = 'pending'`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("mark review active: %w", err)
	}

	return nil
}

// Delete removes a review record.
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrReviewNotFound
	}

	return nil
}
