package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookshelf-backend/pkg/cache"
)

// record is the server-side session state kept in the store.
type record struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StoreStrategy issues opaque random tokens whose state lives in the cache
// (Redis in production). Revocation deletes the record, so logout takes
// effect immediately.
type StoreStrategy struct {
	store cache.Cache
	ttl   time.Duration
}

func NewStoreStrategy(store cache.Cache, ttl time.Duration) *StoreStrategy {
	return &StoreStrategy{store: store, ttl: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *StoreStrategy) Issue(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	expiresAt := time.Now().Add(s.ttl)
	rec := record{UserID: userID.String(), ExpiresAt: expiresAt}

	if err := s.store.Set(ctx, sessionKey(token), rec, s.ttl); err != nil {
		return "", time.Time{}, fmt.Errorf("persist session: %w", err)
	}
	return token, expiresAt, nil
}

func (s *StoreStrategy) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrInvalidSession
	}

	var rec record
	found, err := s.store.Get(ctx, sessionKey(token), &rec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return uuid.Nil, ErrInvalidSession
	}

	// The store expires records via TTL; the stored timestamp guards
	// against backends without native expiry.
	if time.Now().After(rec.ExpiresAt) {
		_ = s.store.Delete(ctx, sessionKey(token))
		return uuid.Nil, ErrInvalidSession
	}

	userID, err := uuid.Parse(rec.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidSession
	}
	return userID, nil
}

func (s *StoreStrategy) Revoke(ctx context.Context, token string) error {
	return s.store.Delete(ctx, sessionKey(token))
}
