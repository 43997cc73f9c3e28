package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role identifies what a caller may do. Facilitators run sessions;
// participants only submit and read responses.
type Role string

const (
	RoleFacilitator Role = "facilitator"
	RoleParticipant Role = "participant"
)

// Claims is the identity extracted from a verified token.
type Claims struct {
	Subject string
	OrgID   uuid.UUID
	Role    Role
}

func (c *Claims) IsFacilitator() bool {
	return c.Role == RoleFacilitator
}

type contextKey struct{}

// WithClaims attaches verified claims to the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// ClaimsFrom extracts the verified claims, if the request was
// authenticated.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok
}
