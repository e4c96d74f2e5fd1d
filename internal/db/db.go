// Package db provides PostgreSQL storage for application tracking.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// migrations are applied on startup; every statement must be idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS applications (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		platform TEXT NOT NULL,
		company TEXT NOT NULL,
		role TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		experience_required TEXT NOT NULL DEFAULT '',
		job_url TEXT NOT NULL UNIQUE,
		job_description TEXT NOT NULL DEFAULT '',
		fit_score INT NOT NULL DEFAULT 0,
		scoring_details JSONB,
		interview_prep TEXT NOT NULL DEFAULT '',
		skills_to_learn TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'discovered',
		discovered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		applied_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_platform ON applications (platform)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_status ON applications (status)`,
	`CREATE TABLE IF NOT EXISTS status_events (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		application_id UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
		from_status TEXT NOT NULL,
		to_status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_status_events_application ON status_events (application_id)`,
	`CREATE TABLE IF NOT EXISTS user_settings (
		id INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		user_name TEXT NOT NULL DEFAULT '',
		user_email TEXT NOT NULL DEFAULT '',
		user_phone TEXT NOT NULL DEFAULT '',
		locations TEXT[] NOT NULL DEFAULT '{}',
		target_roles TEXT[] NOT NULL DEFAULT '{}',
		experience_years INT NOT NULL DEFAULT 0,
		min_fit_score INT NOT NULL DEFAULT 70,
		platforms TEXT[] NOT NULL DEFAULT '{}',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS seen_urls (
		url TEXT PRIMARY KEY,
		platform TEXT NOT NULL,
		first_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the schema if it does not exist yet
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
