package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agorahq/agora/go/internal/apperrors"
	"github.com/agorahq/agora/go/internal/models"
)

// StateProvider returns the current state of a session, for clients that
// (re)connect and need to catch up. The gateway keeps no event history;
// this endpoint is the replacement for replay.
type StateProvider interface {
	GetSessionState(ctx context.Context, sessionID uuid.UUID) (*SessionStateResponse, error)
}

// SessionStateResponse is the catch-up snapshot for one session.
type SessionStateResponse struct {
	SessionID      string           `json:"session_id"`
	ActiveQuestion *models.Question `json:"active_question,omitempty"`
	Timer          *TimerState      `json:"timer,omitempty"`
}

// TimerState reports a question's countdown. Expired and RemainingSeconds
// are derived from the clock at read time, never stored: a timer reaching
// zero is advisory and flips no persisted state.
type TimerState struct {
	QuestionID       string     `json:"question_id"`
	DurationMinutes  int        `json:"duration_minutes"`
	ExtendedMinutes  int        `json:"extended_minutes"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	RemainingSeconds int        `json:"remaining_seconds"`
	Expired          bool       `json:"expired"`
}

// StateHandler serves session state snapshots over HTTP.
type StateHandler struct {
	stateProvider StateProvider
}

// NewStateHandler creates a new state handler.
func NewStateHandler(provider StateProvider) *StateHandler {
	return &StateHandler{stateProvider: provider}
}

// HandleGetSessionState handles GET /api/sessions/{id}/state.
func (h *StateHandler) HandleGetSessionState(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	state, err := h.stateProvider.GetSessionState(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID.String()).Msg("failed to get session state")
		http.Error(w, "failed to get session state", apperrors.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, state)
}

// RegisterStateRoutes registers state-related HTTP routes.
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/sessions/{id}/state", h.HandleGetSessionState)
}

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
