package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema holds the result-store DDL. Kept idempotent so the CLI can run it
// on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS screening_results (
		id BIGSERIAL PRIMARY KEY,
		run_id TEXT NOT NULL,
		position INT NOT NULL,
		outcome TEXT NOT NULL,
		method TEXT NOT NULL,
		p_value DOUBLE PRECISION NOT NULL,
		adjusted_p DOUBLE PRECISION NOT NULL,
		odds_ratio DOUBLE PRECISION,
		tier INT NOT NULL,
		direction TEXT NOT NULL,
		sample_size INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_screening_results_run ON screening_results (run_id, position)`,
	`CREATE TABLE IF NOT EXISTS model_results (
		id BIGSERIAL PRIMARY KEY,
		run_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		family TEXT NOT NULL,
		terms JSONB NOT NULL,
		dropped_columns JSONB NOT NULL,
		sample_size INT NOT NULL,
		iterations INT NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_model_results_run ON model_results (run_id)`,
	`CREATE TABLE IF NOT EXISTS model_failures (
		id BIGSERIAL PRIMARY KEY,
		run_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		reason TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the result-store tables if they do not exist
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply result store schema: %w", err)
		}
	}
	return nil
}
