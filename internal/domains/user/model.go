package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the durable identity record. A user is created on first signup or
// first provider login and never deleted by the system.
//
// PasswordHash is nil for provider-only accounts; GoogleID is nil for
// password-only accounts. Both may be set after account linking. The email
// column carries a unique index, google_id a partial unique index - those
// constraints, not application locks, close the concurrent-creation race.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash *string   `db:"password_hash" json:"-"` // Never expose in JSON
	GoogleID     *string   `db:"google_id" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HasPassword reports whether the account can be used for credential login.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
