package questions

import (
	"net/http"

	"github.com/agorahq/agora/go/internal/auth"
	"github.com/agorahq/agora/go/internal/httpapi"
	"github.com/agorahq/agora/go/internal/models"
)

// Service exposes the question store over HTTP.
type Service struct {
	app *App
}

func NewService(app *App) *Service {
	return &Service{app: app}
}

type createQuestionRequest struct {
	PromptText           string  `json:"prompt_text"`
	Order                int     `json:"order"`
	TimerDurationMinutes *int    `json:"timer_duration_minutes,omitempty"`
	Notes                *string `json:"notes,omitempty"`
}

type listQuestionsResponse struct {
	Questions []models.Question `json:"questions"`
}

// HandleCreate handles POST /api/sessions/{session_id}/questions.
func (s *Service) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sessionID, err := httpapi.PathUUID(r, "session_id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	var req createQuestionRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, err)
		return
	}

	var createdBy *string
	if claims, ok := auth.ClaimsFrom(r.Context()); ok {
		createdBy = &claims.Subject
	}

	question, err := s.app.CreateQuestion(r.Context(), CreateQuestionRequest{
		SessionID:            sessionID,
		Order:                req.Order,
		PromptText:           req.PromptText,
		TimerDurationMinutes: req.TimerDurationMinutes,
		Notes:                req.Notes,
		CreatedBy:            createdBy,
	})
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, question)
}

// HandleList handles GET /api/sessions/{session_id}/questions.
func (s *Service) HandleList(w http.ResponseWriter, r *http.Request) {
	sessionID, err := httpapi.PathUUID(r, "session_id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	questions, err := s.app.ListBySession(r.Context(), sessionID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, listQuestionsResponse{Questions: questions})
}

// HandleGet handles GET /api/questions/{id}.
func (s *Service) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	question, err := s.app.GetQuestion(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, question)
}

// HandleUpdate handles PATCH /api/questions/{id}.
func (s *Service) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	var req UpdateQuestionRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, err)
		return
	}

	question, err := s.app.UpdateQuestion(r.Context(), id, req)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, question)
}

// HandleDelete handles DELETE /api/questions/{id}. Deleting a question
// also removes its responses, via the schema's cascade.
func (s *Service) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	if err := s.app.DeleteQuestion(r.Context(), id); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers the question CRUD routes. Activation and timer
// routes live with the activation service.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sessions/{session_id}/questions", auth.RequireFacilitator(s.HandleCreate))
	mux.HandleFunc("GET /api/sessions/{session_id}/questions", s.HandleList)
	mux.HandleFunc("GET /api/questions/{id}", s.HandleGet)
	mux.HandleFunc("PATCH /api/questions/{id}", auth.RequireFacilitator(s.HandleUpdate))
	mux.HandleFunc("DELETE /api/questions/{id}", auth.RequireFacilitator(s.HandleDelete))
}
