// Package auth provides token issuance/verification and password handling.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT bearer tokens.
//
// In the normal request flow this service only verifies tokens; issuance is
// the job of the external identity provider. GenerateToken exists for the
// out-of-band tooling and for tests.
type JWTService interface {
	// GenerateToken creates a signed JWT bearer token for the given user.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims containing the user identifier if the token is valid,
	// or an error if validation fails (expired, invalid signature, missing
	// subject, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the verified claims extracted from a bearer token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for,
	// parsed from the subject claim.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
