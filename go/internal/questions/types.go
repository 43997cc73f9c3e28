package questions

import "github.com/google/uuid"

// CreateQuestionRequest represents the data needed to create a question.
type CreateQuestionRequest struct {
	SessionID            uuid.UUID `json:"session_id"`
	Order                int       `json:"order"`
	PromptText           string    `json:"prompt_text"`
	TimerDurationMinutes *int      `json:"timer_duration_minutes,omitempty"`
	Notes                *string   `json:"notes,omitempty"`
	CreatedBy            *string   `json:"created_by,omitempty"`

	// Provenance, set only by the duplication path.
	OriginalQuestionID      *uuid.UUID `json:"original_question_id,omitempty"`
	DuplicatedFromSessionID *uuid.UUID `json:"duplicated_from_session_id,omitempty"`
}

// UpdateQuestionRequest represents the fields a facilitator may edit.
// Nil fields are left untouched.
type UpdateQuestionRequest struct {
	PromptText           *string `json:"prompt_text,omitempty"`
	Order                *int    `json:"order,omitempty"`
	TimerDurationMinutes *int    `json:"timer_duration_minutes,omitempty"`
	Notes                *string `json:"notes,omitempty"`
}
