package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxResponseBodyLength bounds the length of a participant response body.
const MaxResponseBodyLength = 2000

// Response is a participant's free-text answer to a question. Responses are
// never edited by the submitting participant; only moderation actions
// mutate them after creation.
type Response struct {
	ID            uuid.UUID `json:"id"`
	QuestionID    uuid.UUID `json:"question_id"`
	ParticipantID *string   `json:"participant_id,omitempty"`
	BodyText      string    `json:"body_text"`

	IsHidden  bool `json:"is_hidden"`
	IsFlagged bool `json:"is_flagged"`
	IsPinned  bool `json:"is_pinned"`

	ModeratedAt *time.Time `json:"moderated_at,omitempty"`
	ModeratedBy *string    `json:"moderated_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ModerationUpdate is a partial update of a response's moderation flags.
// Nil fields are left untouched.
type ModerationUpdate struct {
	IsHidden  *bool `json:"is_hidden,omitempty"`
	IsFlagged *bool `json:"is_flagged,omitempty"`
	IsPinned  *bool `json:"is_pinned,omitempty"`
}

// Empty reports whether the update carries no recognized fields.
func (m ModerationUpdate) Empty() bool {
	return m.IsHidden == nil && m.IsFlagged == nil && m.IsPinned == nil
}
