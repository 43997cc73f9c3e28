package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus defines the lifecycle state of a discussion session.
type SessionStatus string

const (
	SessionStatusDraft  SessionStatus = "DRAFT"
	SessionStatusLive   SessionStatus = "LIVE"
	SessionStatusClosed SessionStatus = "CLOSED"
)

// Session is a facilitator-owned container for an ordered list of questions.
type Session struct {
	ID            uuid.UUID     `json:"id"`
	OrgID         uuid.UUID     `json:"org_id"`
	FacilitatorID string        `json:"facilitator_id"`
	Title         string        `json:"title"`
	Status        SessionStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ValidStatusTransition reports whether a session may move from one status
// to another. Draft sessions go live, live sessions close; a closed session
// stays closed.
func ValidStatusTransition(from, to SessionStatus) bool {
	switch from {
	case SessionStatusDraft:
		return to == SessionStatusLive || to == SessionStatusClosed
	case SessionStatusLive:
		return to == SessionStatusClosed || to == SessionStatusDraft
	default:
		return false
	}
}
