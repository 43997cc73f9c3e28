package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/agorahq/agora/go/internal/events"
	"github.com/agorahq/agora/go/internal/models"
)

func TestSessionEventRoundTrip(t *testing.T) {
	sessionID := uuid.New()
	questionID := uuid.New()
	duration := 10
	payload := events.QuestionActivatedPayload{
		Question: models.Question{
			ID:                   questionID,
			SessionID:            sessionID,
			Order:                1,
			PromptText:           "what went well?",
			IsActive:             true,
			TimerDurationMinutes: &duration,
		},
	}

	event, err := NewSessionEvent(sessionID, EventTypeQuestionActivated, payload)
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	if event.SessionID != sessionID.String() {
		t.Fatalf("session id = %s", event.SessionID)
	}
	if event.ID == "" || event.Timestamp.IsZero() {
		t.Fatal("envelope should carry an id and timestamp")
	}

	wire, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded SessionEvent
	if err := json.Unmarshal(wire, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != EventTypeQuestionActivated {
		t.Fatalf("type = %s", decoded.Type)
	}

	parsed, err := ParseEventPayload(&decoded)
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	activated, ok := parsed.(events.QuestionActivatedPayload)
	if !ok {
		t.Fatalf("payload type %T", parsed)
	}
	if activated.Question.ID != questionID || !activated.Question.IsActive {
		t.Fatalf("payload question %+v", activated.Question)
	}
}

func TestParseEventPayloadTypes(t *testing.T) {
	sessionID := uuid.New()
	questionID := uuid.New()
	expires := time.Date(2025, 3, 10, 15, 10, 0, 0, time.UTC)

	cases := []struct {
		eventType EventType
		payload   any
		check     func(t *testing.T, parsed any)
	}{
		{
			EventTypeQuestionTimerStarted,
			events.QuestionTimerStartedPayload{QuestionID: questionID, ExpiresAt: expires, DurationMinutes: 10},
			func(t *testing.T, parsed any) {
				p, ok := parsed.(events.QuestionTimerStartedPayload)
				if !ok || p.QuestionID != questionID || !p.ExpiresAt.Equal(expires) {
					t.Fatalf("parsed %+v", parsed)
				}
			},
		},
		{
			EventTypeQuestionTimerExtended,
			events.QuestionTimerExtendedPayload{QuestionID: questionID, NewExpiresAt: expires},
			func(t *testing.T, parsed any) {
				p, ok := parsed.(events.QuestionTimerExtendedPayload)
				if !ok || !p.NewExpiresAt.Equal(expires) {
					t.Fatalf("parsed %+v", parsed)
				}
			},
		},
		{
			EventTypeNewResponse,
			events.NewResponsePayload{Response: models.Response{ID: uuid.New(), QuestionID: questionID, BodyText: "hi"}},
			func(t *testing.T, parsed any) {
				p, ok := parsed.(events.NewResponsePayload)
				if !ok || p.Response.BodyText != "hi" {
					t.Fatalf("parsed %+v", parsed)
				}
			},
		},
		{
			EventTypeResponseDeleted,
			events.ResponseDeletedPayload{ResponseIDs: []uuid.UUID{questionID}},
			func(t *testing.T, parsed any) {
				p, ok := parsed.(events.ResponseDeletedPayload)
				if !ok || len(p.ResponseIDs) != 1 {
					t.Fatalf("parsed %+v", parsed)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(string(tc.eventType), func(t *testing.T) {
			event, err := NewSessionEvent(sessionID, tc.eventType, tc.payload)
			if err != nil {
				t.Fatalf("new event: %v", err)
			}
			parsed, err := ParseEventPayload(event)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			tc.check(t, parsed)
		})
	}
}

func TestParseEventPayloadUnknownType(t *testing.T) {
	event := &SessionEvent{Type: EventType("mystery"), Data: json.RawMessage(`{}`)}
	if _, err := ParseEventPayload(event); err == nil {
		t.Fatal("unknown event type should error")
	}
}
