package user

import "errors"

// Repository-level errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Service-level errors
var (
	// ErrInvalidCredentials covers unknown email, provider-only account
	// and wrong password alike. Callers must not learn which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountConflict signals a provider login whose email is already
	// bound to a different provider account. Rejecting here prevents a
	// silent merge of two distinct external identities.
	ErrAccountConflict = errors.New("account already linked to a different provider identity")
)
