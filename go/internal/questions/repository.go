package questions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/agorahq/agora/go/internal/apperrors"
	"github.com/agorahq/agora/go/internal/models"
	"github.com/agorahq/agora/go/internal/questions/db"
	"github.com/agorahq/agora/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer.
type Querier interface {
	CreateQuestion(ctx context.Context, arg db.CreateQuestionParams) (db.DiscussionQuestion, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (db.DiscussionQuestion, error)
	ListQuestionsBySession(ctx context.Context, sessionID uuid.UUID) ([]db.DiscussionQuestion, error)
	GetActiveQuestion(ctx context.Context, sessionID uuid.UUID) (db.DiscussionQuestion, error)
	MaxOrderForSession(ctx context.Context, sessionID uuid.UUID) (int32, error)
	UpdateQuestion(ctx context.Context, arg db.UpdateQuestionParams) (db.DiscussionQuestion, error)
	DeactivateQuestion(ctx context.Context, id uuid.UUID) (db.DiscussionQuestion, error)
	ExtendQuestionTimer(ctx context.Context, arg db.ExtendQuestionTimerParams) (db.DiscussionQuestion, error)
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
}

// Repository implements question data access. The activation swap runs in
// a transaction over the raw *sql.DB; everything else goes through the
// Querier.
type Repository struct {
	queries Querier
	sqlDB   *sql.DB
}

// NewRepository creates a new questions repository. sqlDB may be nil in
// tests that never touch the transactional paths.
func NewRepository(querier Querier, sqlDB *sql.DB) *Repository {
	return &Repository{
		queries: querier,
		sqlDB:   sqlDB,
	}
}

// CreateQuestion inserts a new question row.
func (r *Repository) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*models.Question, error) {
	question, err := r.queries.CreateQuestion(ctx, db.CreateQuestionParams{
		ID:                      uuid.New(),
		SessionID:               req.SessionID,
		QuestionOrder:           int32(req.Order),
		PromptText:              req.PromptText,
		TimerDurationMinutes:    sqlutil.ToSqlInt32(req.TimerDurationMinutes),
		OriginalQuestionID:      sqlutil.ToNullUUID(req.OriginalQuestionID),
		DuplicatedFromSessionID: sqlutil.ToNullUUID(req.DuplicatedFromSessionID),
		CreatedBy:               sqlutil.ToSqlString(req.CreatedBy),
		Notes:                   sqlutil.ToSqlString(req.Notes),
	})
	if err != nil {
		return nil, mapStoreErr(err, "failed to create question")
	}
	return dbQuestionToModel(question), nil
}

// GetQuestion retrieves a question by ID.
func (r *Repository) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	question, err := r.queries.GetQuestion(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "failed to get question")
	}
	return dbQuestionToModel(question), nil
}

// ListBySession retrieves a session's questions ordered by display order.
func (r *Repository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Question, error) {
	rows, err := r.queries.ListQuestionsBySession(ctx, sessionID)
	if err != nil {
		return nil, mapStoreErr(err, "failed to list questions")
	}
	return dbQuestionsToModels(rows), nil
}

// GetActiveQuestion returns the session's live question, or nil when no
// question is currently active.
func (r *Repository) GetActiveQuestion(ctx context.Context, sessionID uuid.UUID) (*models.Question, error) {
	question, err := r.queries.GetActiveQuestion(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapStoreErr(err, "failed to get active question")
	}
	return dbQuestionToModel(question), nil
}

// NextOrder returns max(existing orders)+1 for the session.
func (r *Repository) NextOrder(ctx context.Context, sessionID uuid.UUID) (int, error) {
	max, err := r.queries.MaxOrderForSession(ctx, sessionID)
	if err != nil {
		return 0, mapStoreErr(err, "failed to compute next order")
	}
	return int(max) + 1, nil
}

// UpdateQuestion applies a partial update to a question row.
func (r *Repository) UpdateQuestion(ctx context.Context, id uuid.UUID, req UpdateQuestionRequest) (*models.Question, error) {
	var order sql.NullInt32
	if req.Order != nil {
		order = sql.NullInt32{Int32: int32(*req.Order), Valid: true}
	}
	question, err := r.queries.UpdateQuestion(ctx, db.UpdateQuestionParams{
		ID:                   id,
		PromptText:           sqlutil.ToSqlString(req.PromptText),
		QuestionOrder:        order,
		TimerDurationMinutes: sqlutil.ToSqlInt32(req.TimerDurationMinutes),
		Notes:                sqlutil.ToSqlString(req.Notes),
	})
	if err != nil {
		return nil, mapStoreErr(err, "failed to update question")
	}
	return dbQuestionToModel(question), nil
}

// ActivateExclusive deactivates every other question in the session and
// activates the target, in one transaction. Timer timestamps are applied
// only when the row has none yet, so a countdown survives re-toggles.
func (r *Repository) ActivateExclusive(ctx context.Context, sessionID, questionID uuid.UUID, startedAt, expiresAt *time.Time) (*models.Question, error) {
	var activated db.DiscussionQuestion
	newQueries := func(tx *sql.Tx) *db.Queries { return db.New(tx) }
	err := sqlutil.Run(ctx, r.sqlDB, newQueries, func(q *db.Queries) error {
		if err := q.DeactivateOtherQuestions(ctx, db.DeactivateOtherQuestionsParams{
			SessionID: sessionID,
			ID:        questionID,
		}); err != nil {
			return err
		}
		var err error
		activated, err = q.ActivateQuestion(ctx, db.ActivateQuestionParams{
			ID:             questionID,
			TimerStartedAt: sqlutil.ToSqlTime(startedAt),
			TimerExpiresAt: sqlutil.ToSqlTime(expiresAt),
		})
		return err
	})
	if err != nil {
		return nil, mapStoreErr(err, "failed to activate question")
	}
	return dbQuestionToModel(activated), nil
}

// Deactivate clears the active flag, leaving timer timestamps in place.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	question, err := r.queries.DeactivateQuestion(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "failed to deactivate question")
	}
	return dbQuestionToModel(question), nil
}

// ExtendTimer pushes a running countdown out by additionalMinutes. The
// update only matches a live question with a started timer; zero rows
// therefore means a concurrent deactivation won the race.
func (r *Repository) ExtendTimer(ctx context.Context, id uuid.UUID, additionalMinutes int) (*models.Question, error) {
	question, err := r.queries.ExtendQuestionTimer(ctx, db.ExtendQuestionTimerParams{
		ID:                id,
		AdditionalMinutes: int32(additionalMinutes),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Wrap(apperrors.Conflict, err, "timer no longer running")
	}
	if err != nil {
		return nil, mapStoreErr(err, "failed to extend timer")
	}
	return dbQuestionToModel(question), nil
}

// DeleteQuestion removes a question; responses cascade at the DB layer.
func (r *Repository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	if err := r.queries.DeleteQuestion(ctx, id); err != nil {
		return mapStoreErr(err, "failed to delete question")
	}
	return nil
}

// uniqueViolation is Postgres error class 23505; the schema raises it for
// a duplicate order number within a session and for a second active
// question racing past the coordinator's lock.
const uniqueViolation = pq.ErrorCode("23505")

func mapStoreErr(err error, msg string) error {
	var pqErr *pq.Error
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperrors.Wrap(apperrors.NotFound, err, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.Unavailable, err, msg)
	case errors.As(err, &pqErr) && pqErr.Code == uniqueViolation:
		return apperrors.Wrap(apperrors.Conflict, err, msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func dbQuestionToModel(q db.DiscussionQuestion) *models.Question {
	return &models.Question{
		ID:                      q.ID,
		SessionID:               q.SessionID,
		Order:                   int(q.QuestionOrder),
		PromptText:              q.PromptText,
		IsActive:                q.IsActive,
		TimerDurationMinutes:    sqlutil.FromSqlInt32(q.TimerDurationMinutes),
		TimerStartedAt:          sqlutil.FromSqlTime(q.TimerStartedAt),
		TimerExpiresAt:          sqlutil.FromSqlTime(q.TimerExpiresAt),
		TimerExtendedMinutes:    int(q.TimerExtendedMinutes),
		OriginalQuestionID:      sqlutil.FromNullUUID(q.OriginalQuestionID),
		DuplicatedFromSessionID: sqlutil.FromNullUUID(q.DuplicatedFromSessionID),
		CreatedBy:               sqlutil.FromSqlString(q.CreatedBy),
		Notes:                   sqlutil.FromSqlString(q.Notes),
		CreatedAt:               q.CreatedAt,
		UpdatedAt:               q.UpdatedAt,
	}
}

func dbQuestionsToModels(rows []db.DiscussionQuestion) []models.Question {
	questions := make([]models.Question, len(rows))
	for i, row := range rows {
		questions[i] = *dbQuestionToModel(row)
	}
	return questions
}
