package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agorahq/agora/go/internal/events"
)

// SessionEvent is the envelope for every event delivered to a session's
// subscribers. Type names are part of the wire compatibility surface.
type SessionEvent struct {
	ID        string          `json:"id"`         // Event UUID
	SessionID string          `json:"session_id"` // Session UUID
	Type      EventType       `json:"type"`       // Event type
	Timestamp time.Time       `json:"timestamp"`  // Event creation time
	Data      json.RawMessage `json:"data"`       // Event-specific payload
}

// EventType represents the type of session event.
type EventType string

const (
	EventTypeQuestionActivated     EventType = "question-activated"
	EventTypeQuestionTimerStarted  EventType = "question-timer-started"
	EventTypeQuestionTimerExtended EventType = "question-timer-extended"
	EventTypeNewResponse           EventType = "new-response"
	EventTypeResponseUpdated       EventType = "response-updated"
	EventTypeResponseDeleted       EventType = "response-deleted"
)

// NewSessionEvent wraps a typed payload in the broadcast envelope.
func NewSessionEvent(sessionID uuid.UUID, eventType EventType, payload any) (*SessionEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &SessionEvent{
		ID:        uuid.New().String(),
		SessionID: sessionID.String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}

// ParseEventPayload decodes an event's data into its payload struct, so
// consumers can switch on concrete types instead of inspecting raw JSON.
func ParseEventPayload(event *SessionEvent) (interface{}, error) {
	switch event.Type {
	case EventTypeQuestionActivated:
		var payload events.QuestionActivatedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeQuestionTimerStarted:
		var payload events.QuestionTimerStartedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeQuestionTimerExtended:
		var payload events.QuestionTimerExtendedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeNewResponse:
		var payload events.NewResponsePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeResponseUpdated:
		var payload events.ResponseUpdatedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeResponseDeleted:
		var payload events.ResponseDeletedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
}
