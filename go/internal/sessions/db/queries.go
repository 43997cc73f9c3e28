package db

import (
	"context"

	"github.com/google/uuid"
)

const createSession = `
INSERT INTO sessions (id, org_id, facilitator_id, title, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, org_id, facilitator_id, title, status, created_at, updated_at
`

type CreateSessionParams struct {
	ID            uuid.UUID
	OrgID         uuid.UUID
	FacilitatorID string
	Title         string
	Status        string
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error) {
	row := q.db.QueryRowContext(ctx, createSession,
		arg.ID,
		arg.OrgID,
		arg.FacilitatorID,
		arg.Title,
		arg.Status,
	)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.OrgID,
		&i.FacilitatorID,
		&i.Title,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getSession = `
SELECT id, org_id, facilitator_id, title, status, created_at, updated_at
FROM sessions
WHERE id = $1
`

func (q *Queries) GetSession(ctx context.Context, id uuid.UUID) (Session, error) {
	row := q.db.QueryRowContext(ctx, getSession, id)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.OrgID,
		&i.FacilitatorID,
		&i.Title,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listSessionsByOrg = `
SELECT id, org_id, facilitator_id, title, status, created_at, updated_at
FROM sessions
WHERE org_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListSessionsByOrg(ctx context.Context, orgID uuid.UUID) ([]Session, error) {
	rows, err := q.db.QueryContext(ctx, listSessionsByOrg, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Session
	for rows.Next() {
		var i Session
		if err := rows.Scan(
			&i.ID,
			&i.OrgID,
			&i.FacilitatorID,
			&i.Title,
			&i.Status,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateSessionStatus = `
UPDATE sessions
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING id, org_id, facilitator_id, title, status, created_at, updated_at
`

type UpdateSessionStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateSessionStatus(ctx context.Context, arg UpdateSessionStatusParams) (Session, error) {
	row := q.db.QueryRowContext(ctx, updateSessionStatus, arg.ID, arg.Status)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.OrgID,
		&i.FacilitatorID,
		&i.Title,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateSessionTitle = `
UPDATE sessions
SET title = $2, updated_at = now()
WHERE id = $1
RETURNING id, org_id, facilitator_id, title, status, created_at, updated_at
`

type UpdateSessionTitleParams struct {
	ID    uuid.UUID
	Title string
}

func (q *Queries) UpdateSessionTitle(ctx context.Context, arg UpdateSessionTitleParams) (Session, error) {
	row := q.db.QueryRowContext(ctx, updateSessionTitle, arg.ID, arg.Title)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.OrgID,
		&i.FacilitatorID,
		&i.Title,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteSession = `
DELETE FROM sessions
WHERE id = $1
`

func (q *Queries) DeleteSession(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteSession, id)
	return err
}
