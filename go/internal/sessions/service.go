package sessions

import (
	"net/http"

	"github.com/agorahq/agora/go/internal/apperrors"
	"github.com/agorahq/agora/go/internal/auth"
	"github.com/agorahq/agora/go/internal/httpapi"
	"github.com/agorahq/agora/go/internal/models"
)

// Service exposes session lifecycle over HTTP. All routes are
// facilitator-only and scoped to the caller's organization.
type Service struct {
	app *App
}

func NewService(app *App) *Service {
	return &Service{app: app}
}

type createSessionRequest struct {
	Title string `json:"title"`
}

type updateSessionRequest struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

type listSessionsResponse struct {
	Sessions []models.Session `json:"sessions"`
}

// HandleCreate handles POST /api/sessions.
func (s *Service) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		httpapi.WriteError(w, apperrors.New(apperrors.Unauthenticated, "not authenticated"))
		return
	}

	var req createSessionRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, err)
		return
	}

	session, err := s.app.CreateSession(r.Context(), CreateSessionRequest{
		OrgID:         claims.OrgID,
		FacilitatorID: claims.Subject,
		Title:         req.Title,
	})
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, session)
}

// HandleGet handles GET /api/sessions/{id}.
func (s *Service) HandleGet(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		httpapi.WriteError(w, apperrors.New(apperrors.Unauthenticated, "not authenticated"))
		return
	}
	id, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	session, err := s.app.GetSession(r.Context(), claims.OrgID, id)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, session)
}

// HandleList handles GET /api/sessions.
func (s *Service) HandleList(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		httpapi.WriteError(w, apperrors.New(apperrors.Unauthenticated, "not authenticated"))
		return
	}

	sessions, err := s.app.ListByOrg(r.Context(), claims.OrgID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
}

// HandleUpdate handles PATCH /api/sessions/{id}. Title and status can be
// changed independently; a status change goes through transition
// validation.
func (s *Service) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		httpapi.WriteError(w, apperrors.New(apperrors.Unauthenticated, "not authenticated"))
		return
	}
	id, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	var req updateSessionRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if req.Title == nil && req.Status == nil {
		httpapi.WriteError(w, apperrors.New(apperrors.Validation, "nothing to update"))
		return
	}

	var session *models.Session
	if req.Title != nil {
		session, err = s.app.Rename(r.Context(), claims.OrgID, id, *req.Title)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
	}
	if req.Status != nil {
		session, err = s.app.UpdateStatus(r.Context(), claims.OrgID, id, models.SessionStatus(*req.Status))
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
	}
	httpapi.WriteJSON(w, http.StatusOK, session)
}

// HandleDelete handles DELETE /api/sessions/{id}.
func (s *Service) HandleDelete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		httpapi.WriteError(w, apperrors.New(apperrors.Unauthenticated, "not authenticated"))
		return
	}
	id, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	if err := s.app.DeleteSession(r.Context(), claims.OrgID, id); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers the session routes.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sessions", auth.RequireFacilitator(s.HandleCreate))
	mux.HandleFunc("GET /api/sessions", auth.RequireFacilitator(s.HandleList))
	mux.HandleFunc("GET /api/sessions/{id}", s.HandleGet)
	mux.HandleFunc("PATCH /api/sessions/{id}", auth.RequireFacilitator(s.HandleUpdate))
	mux.HandleFunc("DELETE /api/sessions/{id}", auth.RequireFacilitator(s.HandleDelete))
}
