package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Bootstrap creates the application tables if they do not exist yet.
// Idempotent, safe to run on every startup.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reviews (
			id SERIAL PRIMARY KEY,
			student_name VARCHAR(255) NOT NULL,
			batch VARCHAR(100),
			module VARCHAR(100),
			status VARCHAR(50) DEFAULT 'pending',
			scheduled_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			scores JSONB DEFAULT '{}',
			notes TEXT,
			session_data JSONB DEFAULT '{}',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS session_snapshots (
			key VARCHAR(255) PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}

	return nil
}
