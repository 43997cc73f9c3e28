// Package events holds the payload types shared between the coordinators
// and the gateway, so neither imports the other.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/agorahq/agora/go/internal/models"
)

// QuestionActivatedPayload carries the full question after an activation
// or deactivation; subscribers use IsActive to update or clear their UI.
type QuestionActivatedPayload struct {
	Question models.Question `json:"question"`
}

// QuestionTimerStartedPayload is emitted once per countdown, when an
// activation freshly starts a timer.
type QuestionTimerStartedPayload struct {
	QuestionID      uuid.UUID `json:"question_id"`
	ExpiresAt       time.Time `json:"expires_at"`
	DurationMinutes int       `json:"duration_minutes"`
}

// QuestionTimerExtendedPayload is emitted when a running countdown is
// pushed out.
type QuestionTimerExtendedPayload struct {
	QuestionID   uuid.UUID `json:"question_id"`
	NewExpiresAt time.Time `json:"new_expires_at"`
}

// NewResponsePayload carries a freshly submitted response.
type NewResponsePayload struct {
	Response models.Response `json:"response"`
}

// ResponseUpdatedPayload is emitted after moderation. Single-response
// moderation sets Response; bulk moderation sets ResponseIDs and Updates
// so one event summarizes the whole batch.
type ResponseUpdatedPayload struct {
	Response    *models.Response         `json:"response,omitempty"`
	ResponseIDs []uuid.UUID              `json:"response_ids,omitempty"`
	Updates     *models.ModerationUpdate `json:"updates,omitempty"`
}

// ResponseDeletedPayload summarizes a single or bulk deletion.
type ResponseDeletedPayload struct {
	ResponseIDs []uuid.UUID `json:"response_ids"`
}
