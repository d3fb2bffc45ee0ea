package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the data-access contract for users. Implementations must
// rely on the store's unique indexes for email and google_id and translate
// uniqueness violations into the domain errors below - the losing side of a
// concurrent create must never surface a raw driver fault.
type Repository interface {
	// Create inserts a new user.
	// Returns ErrEmailAlreadyExists when the email is taken.
	Create(ctx context.Context, u *User) error

	// FindByID looks a user up by id.
	// Returns ErrUserNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail looks a user up by email (login path).
	// Returns ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// AttachGoogleID links a provider account id to an existing user.
	// The update is conditional on the column still being NULL, so two
	// concurrent link attempts cannot both win. Returns
	// ErrAccountConflict when the google id is bound elsewhere or the
	// user already has one, ErrUserNotFound when the user is gone.
	AttachGoogleID(ctx context.Context, id uuid.UUID, googleID string) error
}
