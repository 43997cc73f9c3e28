package responses

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/agorahq/agora/go/internal/apperrors"
	"github.com/agorahq/agora/go/internal/auth"
	"github.com/agorahq/agora/go/internal/httpapi"
	"github.com/agorahq/agora/go/internal/models"
)

// Service exposes submissions and moderation over HTTP.
type Service struct {
	app *App
}

func NewService(app *App) *Service {
	return &Service{app: app}
}

type submitRequest struct {
	BodyText string `json:"body_text"`
}

type moderateRequest struct {
	Updates models.ModerationUpdate `json:"updates"`
}

type bulkModerateRequest struct {
	ResponseIDs []uuid.UUID             `json:"response_ids"`
	Updates     models.ModerationUpdate `json:"updates"`
}

type bulkDeleteRequest struct {
	ResponseIDs []uuid.UUID `json:"response_ids"`
}

type bulkResult struct {
	Affected int64 `json:"affected"`
}

// HandleSubmit handles POST /api/questions/{id}/responses.
func (s *Service) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	questionID, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	var req submitRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, err)
		return
	}

	var participantID *string
	if claims, ok := auth.ClaimsFrom(r.Context()); ok {
		participantID = &claims.Subject
	}

	response, err := s.app.Submit(r.Context(), CreateResponseRequest{
		QuestionID:    questionID,
		ParticipantID: participantID,
		BodyText:      req.BodyText,
	})
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, response)
}

// HandleList handles GET /api/questions/{id}/responses. Facilitators may
// pick any filter; everyone else only sees the visible slice.
func (s *Service) HandleList(w http.ResponseWriter, r *http.Request) {
	questionID, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	filter, ok := ParseFilter(r.URL.Query().Get("filter"))
	if !ok {
		httpapi.WriteError(w, apperrors.New(apperrors.Validation, "unknown filter %q", r.URL.Query().Get("filter")))
		return
	}
	sortOrder, ok := ParseSort(r.URL.Query().Get("sort"))
	if !ok {
		httpapi.WriteError(w, apperrors.New(apperrors.Validation, "unknown sort %q", r.URL.Query().Get("sort")))
		return
	}

	if claims, ok := auth.ClaimsFrom(r.Context()); !ok || !claims.IsFacilitator() {
		filter = FilterVisible
	}

	result, err := s.app.List(r.Context(), questionID, filter, sortOrder)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, result)
}

// HandleModerate handles PATCH /api/responses/{id}/moderate.
func (s *Service) HandleModerate(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	var req moderateRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, err)
		return
	}

	response, err := s.app.Moderate(r.Context(), id, req.Updates, moderatorID(r))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, response)
}

// HandleBulkModerate handles POST /api/responses/bulk-moderate.
func (s *Service) HandleBulkModerate(w http.ResponseWriter, r *http.Request) {
	var req bulkModerateRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, err)
		return
	}

	affected, err := s.app.BulkModerate(r.Context(), req.ResponseIDs, req.Updates, moderatorID(r))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, bulkResult{Affected: affected})
}

// HandleDelete handles DELETE /api/responses/{id}.
func (s *Service) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathUUID(r, "id")
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	if err := s.app.Delete(r.Context(), id); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBulkDelete handles POST /api/responses/bulk-delete.
func (s *Service) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, err)
		return
	}

	affected, err := s.app.BulkDelete(r.Context(), req.ResponseIDs)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, bulkResult{Affected: affected})
}

// RegisterRoutes registers the response routes.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/questions/{id}/responses", s.HandleSubmit)
	mux.HandleFunc("GET /api/questions/{id}/responses", s.HandleList)
	mux.HandleFunc("PATCH /api/responses/{id}/moderate", auth.RequireFacilitator(s.HandleModerate))
	mux.HandleFunc("POST /api/responses/bulk-moderate", auth.RequireFacilitator(s.HandleBulkModerate))
	mux.HandleFunc("DELETE /api/responses/{id}", auth.RequireFacilitator(s.HandleDelete))
	mux.HandleFunc("POST /api/responses/bulk-delete", auth.RequireFacilitator(s.HandleBulkDelete))
}

func moderatorID(r *http.Request) *string {
	if claims, ok := auth.ClaimsFrom(r.Context()); ok {
		return &claims.Subject
	}
	return nil
}
