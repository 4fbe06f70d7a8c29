package ports

import (
	"context"

	"datadash/domain/core"
	"datadash/models"
)

// QuestionLogRepository records questions asked about a session's data.
type QuestionLogRepository interface {
	Record(ctx context.Context, entry *models.QuestionLog) error
	ListBySession(ctx context.Context, sessionID core.SessionID, limit int) ([]*models.QuestionLog, error)
}
