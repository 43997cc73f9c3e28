package sessions

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agorahq/agora/go/internal/apperrors"
	"github.com/agorahq/agora/go/internal/models"
)

// SessionsRepository defines what the app layer needs from the repository.
type SessionsRepository interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*models.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]models.Session, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SessionStatus) (*models.Session, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) (*models.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

// App handles session lifecycle logic. Status transitions are
// facilitator-driven and never touch question or timer state.
type App struct {
	repo SessionsRepository
}

// NewApp creates a new sessions App.
func NewApp(repo SessionsRepository) *App {
	return &App{repo: repo}
}

// CreateSession creates a draft session owned by the calling facilitator.
func (a *App) CreateSession(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, apperrors.New(apperrors.Validation, "title must not be empty")
	}

	session, err := a.repo.CreateSession(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("session_id", session.ID.String()).
		Str("org_id", session.OrgID.String()).
		Msg("session created")
	return session, nil
}

// GetSession retrieves a session scoped to the caller's organization.
func (a *App) GetSession(ctx context.Context, orgID, id uuid.UUID) (*models.Session, error) {
	session, err := a.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.OrgID != orgID {
		return nil, apperrors.New(apperrors.NotFound, "session not found")
	}
	return session, nil
}

// ListByOrg lists the organization's sessions.
func (a *App) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]models.Session, error) {
	return a.repo.ListByOrg(ctx, orgID)
}

// UpdateStatus applies a validated lifecycle transition.
func (a *App) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status models.SessionStatus) (*models.Session, error) {
	switch status {
	case models.SessionStatusDraft, models.SessionStatusLive, models.SessionStatusClosed:
	default:
		return nil, apperrors.New(apperrors.Validation, "unknown session status %q", status)
	}

	session, err := a.GetSession(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if session.Status == status {
		return session, nil
	}
	if !models.ValidStatusTransition(session.Status, status) {
		return nil, apperrors.New(apperrors.PreconditionFailed,
			"cannot transition session from %s to %s", session.Status, status)
	}

	updated, err := a.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("session_id", id.String()).
		Str("status", string(status)).
		Msg("session status updated")
	return updated, nil
}

// Rename updates the session title.
func (a *App) Rename(ctx context.Context, orgID, id uuid.UUID, title string) (*models.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.New(apperrors.Validation, "title must not be empty")
	}
	if _, err := a.GetSession(ctx, orgID, id); err != nil {
		return nil, err
	}
	return a.repo.UpdateTitle(ctx, id, title)
}

// DeleteSession removes a session owned by the caller's organization.
func (a *App) DeleteSession(ctx context.Context, orgID, id uuid.UUID) error {
	if _, err := a.GetSession(ctx, orgID, id); err != nil {
		return err
	}
	if err := a.repo.DeleteSession(ctx, id); err != nil {
		return err
	}
	log.Info().Str("session_id", id.String()).Msg("session deleted")
	return nil
}
