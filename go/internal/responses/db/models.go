package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type DiscussionResponse struct {
	ID            uuid.UUID
	QuestionID    uuid.UUID
	ParticipantID sql.NullString
	BodyText      string
	IsHidden      bool
	IsFlagged     bool
	IsPinned      bool
	ModeratedAt   sql.NullTime
	ModeratedBy   sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
