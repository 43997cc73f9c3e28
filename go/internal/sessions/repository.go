package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/agorahq/agora/go/internal/apperrors"
	"github.com/agorahq/agora/go/internal/models"
	"github.com/agorahq/agora/go/internal/sessions/db"
)

// Querier defines what the repository needs from the database layer.
type Querier interface {
	CreateSession(ctx context.Context, arg db.CreateSessionParams) (db.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (db.Session, error)
	ListSessionsByOrg(ctx context.Context, orgID uuid.UUID) ([]db.Session, error)
	UpdateSessionStatus(ctx context.Context, arg db.UpdateSessionStatusParams) (db.Session, error)
	UpdateSessionTitle(ctx context.Context, arg db.UpdateSessionTitleParams) (db.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

// Repository implements session data access operations.
type Repository struct {
	queries Querier
}

// NewRepository creates a new sessions repository.
func NewRepository(querier Querier) *Repository {
	return &Repository{queries: querier}
}

// CreateSession inserts a new draft session.
func (r *Repository) CreateSession(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	session, err := r.queries.CreateSession(ctx, db.CreateSessionParams{
		ID:            uuid.New(),
		OrgID:         req.OrgID,
		FacilitatorID: req.FacilitatorID,
		Title:         req.Title,
		Status:        string(models.SessionStatusDraft),
	})
	if err != nil {
		return nil, mapStoreErr(err, "failed to create session")
	}
	return dbSessionToModel(session), nil
}

// GetSession retrieves a session by ID.
func (r *Repository) GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	session, err := r.queries.GetSession(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "failed to get session")
	}
	return dbSessionToModel(session), nil
}

// ListByOrg retrieves an organization's sessions, newest first.
func (r *Repository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]models.Session, error) {
	rows, err := r.queries.ListSessionsByOrg(ctx, orgID)
	if err != nil {
		return nil, mapStoreErr(err, "failed to list sessions")
	}
	sessions := make([]models.Session, len(rows))
	for i, row := range rows {
		sessions[i] = *dbSessionToModel(row)
	}
	return sessions, nil
}

// UpdateStatus persists a status transition.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SessionStatus) (*models.Session, error) {
	session, err := r.queries.UpdateSessionStatus(ctx, db.UpdateSessionStatusParams{
		ID:     id,
		Status: string(status),
	})
	if err != nil {
		return nil, mapStoreErr(err, "failed to update session status")
	}
	return dbSessionToModel(session), nil
}

// UpdateTitle renames a session.
func (r *Repository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) (*models.Session, error) {
	session, err := r.queries.UpdateSessionTitle(ctx, db.UpdateSessionTitleParams{
		ID:    id,
		Title: title,
	})
	if err != nil {
		return nil, mapStoreErr(err, "failed to update session title")
	}
	return dbSessionToModel(session), nil
}

// DeleteSession removes a session and, via the schema, its questions and
// responses.
func (r *Repository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := r.queries.DeleteSession(ctx, id); err != nil {
		return mapStoreErr(err, "failed to delete session")
	}
	return nil
}

func mapStoreErr(err error, msg string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperrors.Wrap(apperrors.NotFound, err, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.Unavailable, err, msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func dbSessionToModel(s db.Session) *models.Session {
	return &models.Session{
		ID:            s.ID,
		OrgID:         s.OrgID,
		FacilitatorID: s.FacilitatorID,
		Title:         s.Title,
		Status:        models.SessionStatus(s.Status),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
