package models

import (
	"time"

	"github.com/google/uuid"
)

// QuestionLog is one answered natural-language question
type QuestionLog struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SessionID   string    `json:"session_id" db:"session_id"`
	Source      string    `json:"source" db:"source"` // file name of the table asked about
	Question    string    `json:"question" db:"question"`
	Answer      string    `json:"answer" db:"answer"`
	Model       string    `json:"model" db:"model"`
	PromptChars int       `json:"prompt_chars" db:"prompt_chars"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
