package activation

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agorahq/agora/go/internal/auth"
	"github.com/agorahq/agora/go/internal/httpapi"
)

// Service exposes the activation coordinator over HTTP. Every mutation
// here is facilitator-only.
type Service struct {
	coordinator *Coordinator
}

func NewService(coordinator *Coordinator) *Service {
	return &Service{coordinator: coordinator}
}

// Coordinator returns the underlying coordinator, for wiring it as the
// gateway's state provider.
func (s *Service) Coordinator() *Coordinator { return s.coordinator }

type setActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type extendTimerRequest struct {
	AdditionalMinutes int `json:"additional_minutes"`
}

type duplicateRequest struct {
	TargetSessionID uuid.UUID `json:"target_session_id"`
	Order           *int      `json:"order,omitempty"`
}

// HandleSetActive handles PATCH /api/sessions/{session_id}/questions/{id}/activate.
func (s *Service) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	sessionID, err := httpapi.PathUUID(r, "session_id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	questionID, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	var req setActiveRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, err)
		return
	}

	q, err := s.coordinator.SetActive(r.Context(), sessionID, questionID, req.IsActive)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	log.Info().
		Str("session_id", sessionID.String()).
		Str("question_id", questionID.String()).
		Bool("is_active", req.IsActive).
		Msg("question activation changed")
	httpapi.WriteJSON(w, http.StatusOK, q)
}

// HandleExtendTimer handles POST /api/questions/{id}/extend-timer.
func (s *Service) HandleExtendTimer(w http.ResponseWriter, r *http.Request) {
	questionID, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	var req extendTimerRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, err)
		return
	}

	q, err := s.coordinator.ExtendTimer(r.Context(), questionID, req.AdditionalMinutes)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, q)
}

// HandleDuplicate handles POST /api/questions/{id}/duplicate.
func (s *Service) HandleDuplicate(w http.ResponseWriter, r *http.Request) {
	questionID, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	var req duplicateRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, err)
		return
	}

	var createdBy *string
	if claims, ok := auth.ClaimsFrom(r.Context()); ok {
		createdBy = &claims.Subject
	}

	q, err := s.coordinator.Duplicate(r.Context(), questionID, req.TargetSessionID, req.Order, createdBy)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, q)
}

// HandleTimerStatus handles GET /api/questions/{id}/timer.
func (s *Service) HandleTimerStatus(w http.ResponseWriter, r *http.Request) {
	questionID, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	state, err := s.coordinator.TimerStatus(r.Context(), questionID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, state)
}

// RegisterRoutes registers the activation routes.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("PATCH /api/sessions/{session_id}/questions/{id}/activate", auth.RequireFacilitator(s.HandleSetActive))
	mux.HandleFunc("POST /api/questions/{id}/extend-timer", auth.RequireFacilitator(s.HandleExtendTimer))
	mux.HandleFunc("POST /api/questions/{id}/duplicate", auth.RequireFacilitator(s.HandleDuplicate))
	mux.HandleFunc("GET /api/questions/{id}/timer", s.HandleTimerStatus)
}
