package user

import (
	"context"

	"github.com/google/uuid"
)

// Service is the identity business-logic contract: reconciliation of a
// login attempt to exactly one durable user record, plus session issuance.
type Service interface {
	// Signup creates a password account.
	// Returns ErrEmailAlreadyExists when the email is taken.
	Signup(ctx context.Context, req SignupRequest) (*UserDTO, error)

	// Login authenticates email/password credentials and mints a session.
	// Returns ErrInvalidCredentials on any failure.
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)

	// ProviderLogin resolves a verified provider identity to exactly one
	// user - creating or linking by email as needed - and mints a session.
	// Returns ErrAccountConflict when the email is already linked to a
	// different provider account id.
	ProviderLogin(ctx context.Context, identity ProviderIdentity) (*LoginResponse, error)

	// Logout revokes the session token where the strategy supports it.
	Logout(ctx context.Context, token string) error

	// GetProfile returns the public profile for a user id.
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
}
