package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookshelf-backend/internal/config"
	"bookshelf-backend/pkg/cache"
)

// ErrInvalidSession covers absent, malformed, expired and revoked tokens.
// Callers must not learn which of those occurred.
var ErrInvalidSession = errors.New("invalid or expired session")

// Strategy issues and validates session tokens binding a user id.
// Exactly one strategy is active per process, selected at startup from
// config; it is never switched per request.
type Strategy interface {
	// Issue mints a token for userID with the configured lifetime.
	Issue(ctx context.Context, userID uuid.UUID) (token string, expiresAt time.Time, err error)

	// Validate returns the user id bound to token.
	// Returns ErrInvalidSession for anything that should read as 401.
	Validate(ctx context.Context, token string) (uuid.UUID, error)

	// Revoke invalidates token where the strategy supports it.
	// Stateless tokens cannot be revoked server-side; the strategy
	// documents that as a no-op and the client discards the token.
	Revoke(ctx context.Context, token string) error
}

// New selects the strategy from config.
func New(cfg config.SessionConfig, store cache.Cache) (Strategy, error) {
	switch cfg.Strategy {
	case config.SessionStrategyJWT:
		return NewJWTStrategy(cfg.Secret, cfg.TTL), nil
	case config.SessionStrategyStore:
		return NewStoreStrategy(store, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session strategy %q", cfg.Strategy)
	}
}
