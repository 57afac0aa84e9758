package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSnapshotNotFound = errors.New("session snapshot not found")

// SnapshotRepository persists in-progress session snapshots as textual
// key-value rows, keyed by a deterministic function of the session ID.
type SnapshotRepository struct {
	db *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database pool.
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func snapshotKey(sessionID int64) string {
	return fmt.Sprintf("review_session_%d", sessionID)
}

// Save upserts the snapshot for a session.
func (r *SnapshotRepository) Save(ctx context.Context, sessionID int64, data []byte) error {
	query := `
		INSERT INTO session_snapshots (key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, snapshotKey(sessionID), string(data)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

// Load returns the stored snapshot bytes, or ErrSnapshotNotFound.
func (r *SnapshotRepository) Load(ctx context.Context, sessionID int64) ([]byte, error) {
	query := `SELECT data FROM session_snapshots WHERE key = $1`

	var data string
	err := r.db.QueryRow(ctx, query, snapshotKey(sessionID)).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	return []byte(data), nil
}

// Clear removes the snapshot for a session. Clearing a missing
// snapshot is not an error.
func (r *SnapshotRepository) Clear(ctx context.Context, sessionID int64) error {
	query := `DELETE FROM session_snapshots WHERE key = $1`

	if _, err := r.db.Exec(ctx, query, snapshotKey(sessionID)); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	return nil
}

// DeleteStale removes snapshots untouched for longer than maxAge and
// returns how many rows were purged.
func (r *SnapshotRepository) DeleteStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	query := `DELETE FROM session_snapshots WHERE updated_at < $1`

	result, err := r.db.Exec(ctx, query, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("delete stale snapshots: %w", err)
	}

	return result.RowsAffected(), nil
}
