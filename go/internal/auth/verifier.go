package auth

import (
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/agorahq/agora/go/internal/apperrors"
)

type tokenClaims struct {
	OrgID string `json:"org_id"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates bearer tokens. With disabled set, every request is
// treated as a facilitator in a fixed dev org; use only for local
// development.
type Verifier struct {
	secret   []byte
	disabled bool
}

// NewVerifierFromEnv builds a verifier from AUTH_JWT_SECRET. Setting
// DISABLE_AUTH=true skips verification entirely.
func NewVerifierFromEnv() (*Verifier, error) {
	if os.Getenv("DISABLE_AUTH") == "true" {
		return &Verifier{disabled: true}, nil
	}

	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required unless DISABLE_AUTH=true")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// Verify parses and validates an HS256 token and extracts its claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &tc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Unauthenticated, err, "invalid token")
	}

	if tc.Subject == "" {
		return nil, apperrors.New(apperrors.Unauthenticated, "token has no subject")
	}
	orgID, err := uuid.Parse(tc.OrgID)
	if err != nil {
		return nil, apperrors.New(apperrors.Unauthenticated, "token has no valid org")
	}

	role := Role(tc.Role)
	if role != RoleFacilitator && role != RoleParticipant {
		return nil, apperrors.New(apperrors.Unauthenticated, "token has unknown role %q", tc.Role)
	}

	return &Claims{Subject: tc.Subject, OrgID: orgID, Role: role}, nil
}
