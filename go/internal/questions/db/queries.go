package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const questionColumns = `id, session_id, question_order, prompt_text, is_active,
timer_duration_minutes, timer_started_at, timer_expires_at, timer_extended_minutes,
original_question_id, duplicated_from_session_id, created_by, notes, created_at, updated_at`

func scanQuestion(row interface{ Scan(...interface{}) error }) (DiscussionQuestion, error) {
	var i DiscussionQuestion
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.QuestionOrder,
		&i.PromptText,
		&i.IsActive,
		&i.TimerDurationMinutes,
		&i.TimerStartedAt,
		&i.TimerExpiresAt,
		&i.TimerExtendedMinutes,
		&i.OriginalQuestionID,
		&i.DuplicatedFromSessionID,
		&i.CreatedBy,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createQuestion = `
INSERT INTO discussion_questions (
	id, session_id, question_order, prompt_text,
	timer_duration_minutes, original_question_id, duplicated_from_session_id,
	created_by, notes
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + questionColumns

type CreateQuestionParams struct {
	ID                      uuid.UUID
	SessionID               uuid.UUID
	QuestionOrder           int32
	PromptText              string
	TimerDurationMinutes    sql.NullInt32
	OriginalQuestionID      uuid.NullUUID
	DuplicatedFromSessionID uuid.NullUUID
	CreatedBy               sql.NullString
	Notes                   sql.NullString
}

func (q *Queries) CreateQuestion(ctx context.Context, arg CreateQuestionParams) (DiscussionQuestion, error) {
	row := q.db.QueryRowContext(ctx, createQuestion,
		arg.ID,
		arg.SessionID,
		arg.QuestionOrder,
		arg.PromptText,
		arg.TimerDurationMinutes,
		arg.OriginalQuestionID,
		arg.DuplicatedFromSessionID,
		arg.CreatedBy,
		arg.Notes,
	)
	return scanQuestion(row)
}

const getQuestion = `
SELECT ` + questionColumns + `
FROM discussion_questions
WHERE id = $1
`

func (q *Queries) GetQuestion(ctx context.Context, id uuid.UUID) (DiscussionQuestion, error) {
	return scanQuestion(q.db.QueryRowContext(ctx, getQuestion, id))
}

const listQuestionsBySession = `
SELECT ` + questionColumns + `
FROM discussion_questions
WHERE session_id = $1
ORDER BY question_order ASC
`

func (q *Queries) ListQuestionsBySession(ctx context.Context, sessionID uuid.UUID) ([]DiscussionQuestion, error) {
	rows, err := q.db.QueryContext(ctx, listQuestionsBySession, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DiscussionQuestion
	for rows.Next() {
		i, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getActiveQuestion = `
SELECT ` + questionColumns + `
FROM discussion_questions
WHERE session_id = $1 AND is_active
LIMIT 1
`

func (q *Queries) GetActiveQuestion(ctx context.Context, sessionID uuid.UUID) (DiscussionQuestion, error) {
	return scanQuestion(q.db.QueryRowContext(ctx, getActiveQuestion, sessionID))
}

const maxOrderForSession = `
SELECT COALESCE(MAX(question_order), 0)
FROM discussion_questions
WHERE session_id = $1
`

func (q *Queries) MaxOrderForSession(ctx context.Context, sessionID uuid.UUID) (int32, error) {
	var max int32
	err := q.db.QueryRowContext(ctx, maxOrderForSession, sessionID).Scan(&max)
	return max, err
}

const updateQuestion = `
UPDATE discussion_questions
SET prompt_text = COALESCE($2, prompt_text),
    question_order = COALESCE($3, question_order),
    timer_duration_minutes = COALESCE($4, timer_duration_minutes),
    notes = COALESCE($5, notes),
    updated_at = now()
WHERE id = $1
RETURNING ` + questionColumns

type UpdateQuestionParams struct {
	ID                   uuid.UUID
	PromptText           sql.NullString
	QuestionOrder        sql.NullInt32
	TimerDurationMinutes sql.NullInt32
	Notes                sql.NullString
}

func (q *Queries) UpdateQuestion(ctx context.Context, arg UpdateQuestionParams) (DiscussionQuestion, error) {
	row := q.db.QueryRowContext(ctx, updateQuestion,
		arg.ID,
		arg.PromptText,
		arg.QuestionOrder,
		arg.TimerDurationMinutes,
		arg.Notes,
	)
	return scanQuestion(row)
}

const deactivateOtherQuestions = `
UPDATE discussion_questions
SET is_active = false, updated_at = now()
WHERE session_id = $1 AND id <> $2 AND is_active
`

type DeactivateOtherQuestionsParams struct {
	SessionID uuid.UUID
	ID        uuid.UUID
}

func (q *Queries) DeactivateOtherQuestions(ctx context.Context, arg DeactivateOtherQuestionsParams) error {
	_, err := q.db.ExecContext(ctx, deactivateOtherQuestions, arg.SessionID, arg.ID)
	return err
}

const activateQuestion = `
UPDATE discussion_questions
SET is_active = true,
    timer_started_at = COALESCE(timer_started_at, $2),
    timer_expires_at = COALESCE(timer_expires_at, $3),
    updated_at = now()
WHERE id = $1
RETURNING ` + questionColumns

type ActivateQuestionParams struct {
	ID             uuid.UUID
	TimerStartedAt sql.NullTime
	TimerExpiresAt sql.NullTime
}

// ActivateQuestion flips the flag and stamps the countdown exactly once:
// COALESCE keeps an already-started timer untouched on re-activation.
func (q *Queries) ActivateQuestion(ctx context.Context, arg ActivateQuestionParams) (DiscussionQuestion, error) {
	row := q.db.QueryRowContext(ctx, activateQuestion,
		arg.ID,
		arg.TimerStartedAt,
		arg.TimerExpiresAt,
	)
	return scanQuestion(row)
}

const deactivateQuestion = `
UPDATE discussion_questions
SET is_active = false, updated_at = now()
WHERE id = $1
RETURNING ` + questionColumns

func (q *Queries) DeactivateQuestion(ctx context.Context, id uuid.UUID) (DiscussionQuestion, error) {
	return scanQuestion(q.db.QueryRowContext(ctx, deactivateQuestion, id))
}

const extendQuestionTimer = `
UPDATE discussion_questions
SET timer_extended_minutes = timer_extended_minutes + $2,
    timer_expires_at = timer_expires_at + make_interval(mins => $2),
    updated_at = now()
WHERE id = $1 AND is_active AND timer_started_at IS NOT NULL
RETURNING ` + questionColumns

type ExtendQuestionTimerParams struct {
	ID                uuid.UUID
	AdditionalMinutes int32
}

// ExtendQuestionTimer is a conditional single-row update: it matches only
// a live question with a running countdown, so a lost race surfaces as
// sql.ErrNoRows.
func (q *Queries) ExtendQuestionTimer(ctx context.Context, arg ExtendQuestionTimerParams) (DiscussionQuestion, error) {
	row := q.db.QueryRowContext(ctx, extendQuestionTimer, arg.ID, arg.AdditionalMinutes)
	return scanQuestion(row)
}

const deleteQuestion = `
DELETE FROM discussion_questions
WHERE id = $1
`

func (q *Queries) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteQuestion, id)
	return err
}
