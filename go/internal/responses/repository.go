package responses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agorahq/agora/go/internal/apperrors"
	"github.com/agorahq/agora/go/internal/models"
	"github.com/agorahq/agora/go/internal/responses/db"
	"github.com/agorahq/agora/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer.
type Querier interface {
	CreateResponse(ctx context.Context, arg db.CreateResponseParams) (db.DiscussionResponse, error)
	GetResponse(ctx context.Context, id uuid.UUID) (db.DiscussionResponse, error)
	GetResponseSession(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	ListResponsesByQuestion(ctx context.Context, questionID uuid.UUID) ([]db.DiscussionResponse, error)
	ListVisibleResponsesByQuestion(ctx context.Context, questionID uuid.UUID) ([]db.DiscussionResponse, error)
	ListHiddenResponsesByQuestion(ctx context.Context, questionID uuid.UUID) ([]db.DiscussionResponse, error)
	ListFlaggedResponsesByQuestion(ctx context.Context, questionID uuid.UUID) ([]db.DiscussionResponse, error)
	ListPinnedResponsesByQuestion(ctx context.Context, questionID uuid.UUID) ([]db.DiscussionResponse, error)
	ModerateResponse(ctx context.Context, arg db.ModerateResponseParams) (db.DiscussionResponse, error)
	BulkModerateResponses(ctx context.Context, arg db.BulkModerateResponsesParams) (int64, error)
	DeleteResponse(ctx context.Context, id uuid.UUID) (int64, error)
	BulkDeleteResponses(ctx context.Context, ids []uuid.UUID) (int64, error)
	CountResponsesByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error)
}

// Repository implements response data access.
type Repository struct {
	queries Querier
}

// NewRepository creates a new responses repository.
func NewRepository(querier Querier) *Repository {
	return &Repository{queries: querier}
}

// CreateResponse inserts a new response row.
func (r *Repository) CreateResponse(ctx context.Context, req CreateResponseRequest) (*models.Response, error) {
	response, err := r.queries.CreateResponse(ctx, db.CreateResponseParams{
		ID:            uuid.New(),
		QuestionID:    req.QuestionID,
		ParticipantID: sqlutil.ToSqlString(req.ParticipantID),
		BodyText:      req.BodyText,
	})
	if err != nil {
		return nil, mapStoreErr(err, "failed to create response")
	}
	return dbResponseToModel(response), nil
}

// GetResponse retrieves a response by ID.
func (r *Repository) GetResponse(ctx context.Context, id uuid.UUID) (*models.Response, error) {
	response, err := r.queries.GetResponse(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "failed to get response")
	}
	return dbResponseToModel(response), nil
}

// SessionForResponse resolves the session a response belongs to, through
// its question. Moderation events broadcast per session, not per
// question.
func (r *Repository) SessionForResponse(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	sessionID, err := r.queries.GetResponseSession(ctx, id)
	if err != nil {
		return uuid.Nil, mapStoreErr(err, "failed to resolve response session")
	}
	return sessionID, nil
}

// ListByQuestion returns the filter's slice of a question's responses,
// newest first.
func (r *Repository) ListByQuestion(ctx context.Context, questionID uuid.UUID, filter Filter) ([]models.Response, error) {
	var (
		rows []db.DiscussionResponse
		err  error
	)
	switch filter {
	case FilterAll:
		rows, err = r.queries.ListResponsesByQuestion(ctx, questionID)
	case FilterHidden:
		rows, err = r.queries.ListHiddenResponsesByQuestion(ctx, questionID)
	case FilterFlagged:
		rows, err = r.queries.ListFlaggedResponsesByQuestion(ctx, questionID)
	case FilterPinned:
		rows, err = r.queries.ListPinnedResponsesByQuestion(ctx, questionID)
	default:
		rows, err = r.queries.ListVisibleResponsesByQuestion(ctx, questionID)
	}
	if err != nil {
		return nil, mapStoreErr(err, "failed to list responses")
	}
	return dbResponsesToModels(rows), nil
}

// Moderate applies a partial flag update and stamps the moderation
// audit fields.
func (r *Repository) Moderate(ctx context.Context, id uuid.UUID, updates models.ModerationUpdate, moderatedAt time.Time, moderatedBy *string) (*models.Response, error) {
	response, err := r.queries.ModerateResponse(ctx, db.ModerateResponseParams{
		ID:          id,
		IsHidden:    sqlutil.ToSqlBool(updates.IsHidden),
		IsFlagged:   sqlutil.ToSqlBool(updates.IsFlagged),
		IsPinned:    sqlutil.ToSqlBool(updates.IsPinned),
		ModeratedAt: moderatedAt,
		ModeratedBy: sqlutil.ToSqlString(moderatedBy),
	})
	if err != nil {
		return nil, mapStoreErr(err, "failed to moderate response")
	}
	return dbResponseToModel(response), nil
}

// BulkModerate applies the same partial flag update to every listed
// response and reports how many rows it touched.
func (r *Repository) BulkModerate(ctx context.Context, ids []uuid.UUID, updates models.ModerationUpdate, moderatedAt time.Time, moderatedBy *string) (int64, error) {
	affected, err := r.queries.BulkModerateResponses(ctx, db.BulkModerateResponsesParams{
		IDs:         ids,
		IsHidden:    sqlutil.ToSqlBool(updates.IsHidden),
		IsFlagged:   sqlutil.ToSqlBool(updates.IsFlagged),
		IsPinned:    sqlutil.ToSqlBool(updates.IsPinned),
		ModeratedAt: moderatedAt,
		ModeratedBy: sqlutil.ToSqlString(moderatedBy),
	})
	if err != nil {
		return 0, mapStoreErr(err, "failed to bulk moderate responses")
	}
	return affected, nil
}

// Delete removes a response. Deleting an already deleted response is a
// not-found.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.queries.DeleteResponse(ctx, id)
	if err != nil {
		return mapStoreErr(err, "failed to delete response")
	}
	if affected == 0 {
		return apperrors.New(apperrors.NotFound, "response %s not found", id)
	}
	return nil
}

// BulkDelete removes every listed response, ignoring ids that no longer
// exist.
func (r *Repository) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	affected, err := r.queries.BulkDeleteResponses(ctx, ids)
	if err != nil {
		return 0, mapStoreErr(err, "failed to bulk delete responses")
	}
	return affected, nil
}

// CountByQuestion returns a question's total response count, before any
// filter.
func (r *Repository) CountByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error) {
	count, err := r.queries.CountResponsesByQuestion(ctx, questionID)
	if err != nil {
		return 0, mapStoreErr(err, "failed to count responses")
	}
	return count, nil
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

func dbResponseToModel(r db.DiscussionResponse) *models.Response {
	return &models.Response{
		ID:            r.ID,
		QuestionID:    r.QuestionID,
		ParticipantID: sqlutil.FromSqlString(r.ParticipantID),
		BodyText:      r.BodyText,
		IsHidden:      r.IsHidden,
		IsFlagged:     r.IsFlagged,
		IsPinned:      r.IsPinned,
		ModeratedAt:   sqlutil.FromSqlTime(r.ModeratedAt),
		ModeratedBy:   sqlutil.FromSqlString(r.ModeratedBy),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func dbResponsesToModels(rows []db.DiscussionResponse) []models.Response {
	responses := make([]models.Response, len(rows))
	for i, row := range rows {
		responses[i] = *dbResponseToModel(row)
	}
	return responses
}
