package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is a prompt published to a session's participants. At most one
// question per session is active at any observable instant; the activation
// coordinator enforces that.
type Question struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	Order      int       `json:"order"`
	PromptText string    `json:"prompt_text"`
	IsActive   bool      `json:"is_active"`

	// Timer fields are only meaningful while the question is active.
	// StartedAt/ExpiresAt are set exactly once per countdown and left in
	// place on deactivation for audit.
	TimerDurationMinutes *int       `json:"timer_duration_minutes,omitempty"`
	TimerStartedAt       *time.Time `json:"timer_started_at,omitempty"`
	TimerExpiresAt       *time.Time `json:"timer_expires_at,omitempty"`
	TimerExtendedMinutes int        `json:"timer_extended_minutes"`

	// Provenance for duplicated questions.
	OriginalQuestionID      *uuid.UUID `json:"original_question_id,omitempty"`
	DuplicatedFromSessionID *uuid.UUID `json:"duplicated_from_session_id,omitempty"`

	CreatedBy *string   `json:"created_by,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTimer reports whether the question carries a configured countdown.
func (q *Question) HasTimer() bool {
	return q.TimerDurationMinutes != nil && *q.TimerDurationMinutes > 0
}

// TimerRunning reports whether a countdown has been started for this
// question. A started timer survives deactivate/reactivate cycles.
func (q *Question) TimerRunning() bool {
	return q.TimerStartedAt != nil && q.TimerExpiresAt != nil
}
