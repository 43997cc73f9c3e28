package sessions

import "github.com/google/uuid"

// CreateSessionRequest represents the data needed to create a session.
// OrgID and FacilitatorID come from the caller's verified claims, never
// from the request body.
type CreateSessionRequest struct {
	OrgID         uuid.UUID
	FacilitatorID string
	Title         string
}
