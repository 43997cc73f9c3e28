package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const responseColumns = `id, question_id, participant_id, body_text,
is_hidden, is_flagged, is_pinned, moderated_at, moderated_by, created_at, updated_at`

func scanResponse(row interface{ Scan(...interface{}) error }) (DiscussionResponse, error) {
	var i DiscussionResponse
	err := row.Scan(
		&i.ID,
		&i.QuestionID,
		&i.ParticipantID,
		&i.BodyText,
		&i.IsHidden,
		&i.IsFlagged,
		&i.IsPinned,
		&i.ModeratedAt,
		&i.ModeratedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) collectResponses(ctx context.Context, query string, args ...interface{}) ([]DiscussionResponse, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DiscussionResponse
	for rows.Next() {
		i, err := scanResponse(rows)
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

const createResponse = `
INSERT INTO discussion_responses (id, question_id, participant_id, body_text)
VALUES ($1, $2, $3, $4)
RETURNING ` + responseColumns

type CreateResponseParams struct {
	ID            uuid.UUID
	QuestionID    uuid.UUID
	ParticipantID sql.NullString
	BodyText      string
}

func (q *Queries) CreateResponse(ctx context.Context, arg CreateResponseParams) (DiscussionResponse, error) {
	row := q.db.QueryRowContext(ctx, createResponse,
		arg.ID,
		arg.QuestionID,
		arg.ParticipantID,
		arg.BodyText,
	)
	return scanResponse(row)
}

const getResponse = `
SELECT ` + responseColumns + `
FROM discussion_responses
WHERE id = $1
`

func (q *Queries) GetResponse(ctx context.Context, id uuid.UUID) (DiscussionResponse, error) {
	return scanResponse(q.db.QueryRowContext(ctx, getResponse, id))
}

const getResponseSession = `
SELECT dq.session_id
FROM discussion_responses dr
JOIN discussion_questions dq ON dq.id = dr.question_id
WHERE dr.id = $1
`

func (q *Queries) GetResponseSession(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var sessionID uuid.UUID
	err := q.db.QueryRowContext(ctx, getResponseSession, id).Scan(&sessionID)
	return sessionID, err
}

const listResponsesByQuestion = `
SELECT ` + responseColumns + `
FROM discussion_responses
WHERE question_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListResponsesByQuestion(ctx context.Context, questionID uuid.UUID) ([]DiscussionResponse, error) {
	return q.collectResponses(ctx, listResponsesByQuestion, questionID)
}

const listVisibleResponsesByQuestion = `
SELECT ` + responseColumns + `
FROM discussion_responses
WHERE question_id = $1 AND NOT is_hidden
ORDER BY created_at DESC
`

func (q *Queries) ListVisibleResponsesByQuestion(ctx context.Context, questionID uuid.UUID) ([]DiscussionResponse, error) {
	return q.collectResponses(ctx, listVisibleResponsesByQuestion, questionID)
}

const listHiddenResponsesByQuestion = `
SELECT ` + responseColumns + `
FROM discussion_responses
WHERE question_id = $1 AND is_hidden
ORDER BY created_at DESC
`

func (q *Queries) ListHiddenResponsesByQuestion(ctx context.Context, questionID uuid.UUID) ([]DiscussionResponse, error) {
	return q.collectResponses(ctx, listHiddenResponsesByQuestion, questionID)
}

const listFlaggedResponsesByQuestion = `
SELECT ` + responseColumns + `
FROM discussion_responses
WHERE question_id = $1 AND is_flagged
ORDER BY created_at DESC
`

func (q *Queries) ListFlaggedResponsesByQuestion(ctx context.Context, questionID uuid.UUID) ([]DiscussionResponse, error) {
	return q.collectResponses(ctx, listFlaggedResponsesByQuestion, questionID)
}

const listPinnedResponsesByQuestion = `
SELECT ` + responseColumns + `
FROM discussion_responses
WHERE question_id = $1 AND is_pinned
ORDER BY created_at DESC
`

func (q *Queries) ListPinnedResponsesByQuestion(ctx context.Context, questionID uuid.UUID) ([]DiscussionResponse, error) {
	return q.collectResponses(ctx, listPinnedResponsesByQuestion, questionID)
}

const moderateResponse = `
UPDATE discussion_responses
SET is_hidden = COALESCE($2, is_hidden),
    is_flagged = COALESCE($3, is_flagged),
    is_pinned = COALESCE($4, is_pinned),
    moderated_at = $5,
    moderated_by = $6,
    updated_at = now()
WHERE id = $1
RETURNING ` + responseColumns

type ModerateResponseParams struct {
	ID          uuid.UUID
	IsHidden    sql.NullBool
	IsFlagged   sql.NullBool
	IsPinned    sql.NullBool
	ModeratedAt time.Time
	ModeratedBy sql.NullString
}

func (q *Queries) ModerateResponse(ctx context.Context, arg ModerateResponseParams) (DiscussionResponse, error) {
	row := q.db.QueryRowContext(ctx, moderateResponse,
		arg.ID,
		arg.IsHidden,
		arg.IsFlagged,
		arg.IsPinned,
		arg.ModeratedAt,
		arg.ModeratedBy,
	)
	return scanResponse(row)
}

const bulkModerateResponses = `
UPDATE discussion_responses
SET is_hidden = COALESCE($2, is_hidden),
    is_flagged = COALESCE($3, is_flagged),
    is_pinned = COALESCE($4, is_pinned),
    moderated_at = $5,
    moderated_by = $6,
    updated_at = now()
WHERE id = ANY($1)
`

type BulkModerateResponsesParams struct {
	IDs         []uuid.UUID
	IsHidden    sql.NullBool
	IsFlagged   sql.NullBool
	IsPinned    sql.NullBool
	ModeratedAt time.Time
	ModeratedBy sql.NullString
}

func (q *Queries) BulkModerateResponses(ctx context.Context, arg BulkModerateResponsesParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, bulkModerateResponses,
		pq.Array(arg.IDs),
		arg.IsHidden,
		arg.IsFlagged,
		arg.IsPinned,
		arg.ModeratedAt,
		arg.ModeratedBy,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteResponse = `
DELETE FROM discussion_responses
WHERE id = $1
`

func (q *Queries) DeleteResponse(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteResponse, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const bulkDeleteResponses = `
DELETE FROM discussion_responses
WHERE id = ANY($1)
`

func (q *Queries) BulkDeleteResponses(ctx context.Context, ids []uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, bulkDeleteResponses, pq.Array(ids))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countResponsesByQuestion = `
SELECT COUNT(*)
FROM discussion_responses
WHERE question_id = $1
`

func (q *Queries) CountResponsesByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countResponsesByQuestion, questionID).Scan(&count)
	return count, err
}
