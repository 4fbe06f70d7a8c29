package migration

import (
	"context"
	"fmt"

	"datadash/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations. The same schema is
// applied to PostgreSQL and SQLite; only column types differ.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createQuestionLogTable(ctx, db); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to create question_log table"))
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to create indexes"))
	}

	return nil
}

func (r *MigrationRunner) createQuestionLogTable(ctx context.Context, db *sqlx.DB) error {
	idType, timeType := "UUID", "TIMESTAMP WITH TIME ZONE"
	if db.DriverName() == "sqlite3" {
		idType, timeType = "TEXT", "TIMESTAMP"
	}

	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS question_log (
			id %s PRIMARY KEY,
			session_id VARCHAR(64) NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			model VARCHAR(100) NOT NULL DEFAULT '',
			prompt_chars INTEGER NOT NULL DEFAULT 0,
			created_at %s NOT NULL
		)
	`, idType, timeType))
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_question_log_session_created
		ON question_log (session_id, created_at)
	`)
	return err
}
