package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type DiscussionQuestion struct {
	ID                      uuid.UUID
	SessionID               uuid.UUID
	QuestionOrder           int32
	PromptText              string
	IsActive                bool
	TimerDurationMinutes    sql.NullInt32
	TimerStartedAt          sql.NullTime
	TimerExpiresAt          sql.NullTime
	TimerExtendedMinutes    int32
	OriginalQuestionID      uuid.NullUUID
	DuplicatedFromSessionID uuid.NullUUID
	CreatedBy               sql.NullString
	Notes                   sql.NullString
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
