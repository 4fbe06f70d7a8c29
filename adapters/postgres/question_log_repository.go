package postgres

import (
	"context"
	"time"

	"datadash/domain/core"
	"datadash/models"
	"datadash/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// QuestionLogRepositoryImpl implements QuestionLogRepository over sqlx.
// Queries use ? placeholders rebound per driver, so the same code serves
// PostgreSQL and SQLite.
type QuestionLogRepositoryImpl struct {
	db *sqlx.DB
}

// NewQuestionLogRepository creates a new question log repository
func NewQuestionLogRepository(db *sqlx.DB) ports.QuestionLogRepository {
	return &QuestionLogRepositoryImpl{db: db}
}

// Record stores one answered question, filling in ID and CreatedAt when unset
func (r *QuestionLogRepositoryImpl) Record(ctx context.Context, entry *models.QuestionLog) error {
	if entry.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		entry.ID = id
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO question_log (
			id, session_id, source, question, answer, model, prompt_chars, created_at
		) VALUES (
			:id, :session_id, :source, :question, :answer, :model, :prompt_chars, :created_at
		)
	`, entry)
	return err
}

// ListBySession returns the session's most recent questions, newest first
func (r *QuestionLogRepositoryImpl) ListBySession(ctx context.Context, sessionID core.SessionID, limit int) ([]*models.QuestionLog, error) {
	if limit <= 0 {
		limit = 50
	}

	entries := []*models.QuestionLog{}
	err := r.db.SelectContext(ctx, &entries, r.db.Rebind(`
		SELECT id, session_id, source, question, answer, model, prompt_chars, created_at
		FROM question_log
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`), sessionID.String(), limit)
	return entries, err
}
