package responses

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/agorahq/agora/go/internal/apperrors"
	"github.com/agorahq/agora/go/internal/events"
	"github.com/agorahq/agora/go/internal/gateway"
	"github.com/agorahq/agora/go/internal/models"
)

// ResponsesRepository defines what the app layer needs from the
// repository.
type ResponsesRepository interface {
	CreateResponse(ctx context.Context, req CreateResponseRequest) (*models.Response, error)
	GetResponse(ctx context.Context, id uuid.UUID) (*models.Response, error)
	SessionForResponse(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	ListByQuestion(ctx context.Context, questionID uuid.UUID, filter Filter) ([]models.Response, error)
	Moderate(ctx context.Context, id uuid.UUID, updates models.ModerationUpdate, moderatedAt time.Time, moderatedBy *string) (*models.Response, error)
	BulkModerate(ctx context.Context, ids []uuid.UUID, updates models.ModerationUpdate, moderatedAt time.Time, moderatedBy *string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error)
	CountByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error)
}

// QuestionGetter looks up the question a submission targets.
type QuestionGetter interface {
	GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error)
}

// Broadcaster fans a session event out to connected endpoints.
type Broadcaster interface {
	BroadcastToSession(sessionID uuid.UUID, event *gateway.SessionEvent)
}

// App handles submissions and moderation. Moderation writes persist
// first and then broadcast; a failed broadcast never rolls anything
// back.
type App struct {
	repo        ResponsesRepository
	questions   QuestionGetter
	broadcaster Broadcaster
	clock       clockwork.Clock
}

// NewApp creates a new responses App.
func NewApp(repo ResponsesRepository, questions QuestionGetter, broadcaster Broadcaster, clock clockwork.Clock) *App {
	return &App{
		repo:        repo,
		questions:   questions,
		broadcaster: broadcaster,
		clock:       clock,
	}
}

// Submit records a participant's answer to the live question. The target
// question must be live; an expired countdown does not block submission,
// since expiry is advisory and the facilitator decides when the question
// actually closes.
func (a *App) Submit(ctx context.Context, req CreateResponseRequest) (*models.Response, error) {
	req.BodyText = strings.TrimSpace(req.BodyText)
	if req.BodyText == "" {
		return nil, apperrors.New(apperrors.Validation, "response body must not be empty")
	}
	if len(req.BodyText) > models.MaxResponseBodyLength {
		return nil, apperrors.New(apperrors.Validation, "response body must be at most %d characters", models.MaxResponseBodyLength)
	}

	question, err := a.questions.GetQuestion(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if !question.IsActive {
		return nil, apperrors.New(apperrors.PreconditionFailed, "question %s is not live", req.QuestionID)
	}

	response, err := a.repo.CreateResponse(ctx, req)
	if err != nil {
		return nil, err
	}

	a.broadcast(question.SessionID, gateway.EventTypeNewResponse, events.NewResponsePayload{Response: *response})
	return response, nil
}

// Moderate applies a partial flag update to one response and stamps who
// moderated it and when.
func (a *App) Moderate(ctx context.Context, id uuid.UUID, updates models.ModerationUpdate, moderatedBy *string) (*models.Response, error) {
	if updates.Empty() {
		return nil, apperrors.New(apperrors.Validation, "at least one moderation field is required")
	}

	response, err := a.repo.Moderate(ctx, id, updates, a.clock.Now().UTC(), moderatedBy)
	if err != nil {
		return nil, err
	}

	sessionID, err := a.repo.SessionForResponse(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("response_id", id.String()).Msg("failed to resolve session for moderation broadcast")
		return response, nil
	}
	a.broadcast(sessionID, gateway.EventTypeResponseUpdated, events.ResponseUpdatedPayload{Response: response})
	return response, nil
}

// BulkModerate applies one partial flag update across many responses.
// The batch produces a single summarizing event, not one per response.
// All responses must belong to the same session; the session is resolved
// from the first id.
func (a *App) BulkModerate(ctx context.Context, ids []uuid.UUID, updates models.ModerationUpdate, moderatedBy *string) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.New(apperrors.Validation, "at least one response id is required")
	}
	if updates.Empty() {
		return 0, apperrors.New(apperrors.Validation, "at least one moderation field is required")
	}

	sessionID, err := a.repo.SessionForResponse(ctx, ids[0])
	if err != nil {
		return 0, err
	}

	affected, err := a.repo.BulkModerate(ctx, ids, updates, a.clock.Now().UTC(), moderatedBy)
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("session_id", sessionID.String()).
		Int("requested", len(ids)).
		Int64("affected", affected).
		Msg("bulk moderated responses")
	a.broadcast(sessionID, gateway.EventTypeResponseUpdated, events.ResponseUpdatedPayload{
		ResponseIDs: ids,
		Updates:     &updates,
	})
	return affected, nil
}

// Delete removes one response.
func (a *App) Delete(ctx context.Context, id uuid.UUID) error {
	sessionID, err := a.repo.SessionForResponse(ctx, id)
	if err != nil {
		return err
	}
	if err := a.repo.Delete(ctx, id); err != nil {
		return err
	}
	a.broadcast(sessionID, gateway.EventTypeResponseDeleted, events.ResponseDeletedPayload{ResponseIDs: []uuid.UUID{id}})
	return nil
}

// BulkDelete removes many responses with a single summarizing event.
func (a *App) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.New(apperrors.Validation, "at least one response id is required")
	}

	sessionID, err := a.repo.SessionForResponse(ctx, ids[0])
	if err != nil {
		return 0, err
	}

	affected, err := a.repo.BulkDelete(ctx, ids)
	if err != nil {
		return 0, err
	}
	a.broadcast(sessionID, gateway.EventTypeResponseDeleted, events.ResponseDeletedPayload{ResponseIDs: ids})
	return affected, nil
}

// List returns one filtered, sorted view of a question's responses,
// along with the unfiltered total.
func (a *App) List(ctx context.Context, questionID uuid.UUID, filter Filter, sortOrder Sort) (*ListResult, error) {
	rs, err := a.repo.ListByQuestion(ctx, questionID, filter)
	if err != nil {
		return nil, err
	}
	SortResponses(rs, sortOrder)

	total, err := a.repo.CountByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return &ListResult{Responses: rs, Total: total}, nil
}

func (a *App) broadcast(sessionID uuid.UUID, eventType gateway.EventType, payload any) {
	if a.broadcaster == nil {
		return
	}
	event, err := gateway.NewSessionEvent(sessionID, eventType, payload)
	if err != nil {
		log.Error().Err(err).
			Str("session_id", sessionID.String()).
			Str("event_type", string(eventType)).
			Msg("failed to build session event")
		return
	}
	a.broadcaster.BroadcastToSession(sessionID, event)
}
