package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the JWT claims structure for stateless sessions.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTStrategy signs self-contained HS256 tokens. No server-side state: the
// token itself carries the user id and expiry.
type JWTStrategy struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTStrategy(secret string, ttl time.Duration) *JWTStrategy {
	return &JWTStrategy{secret: []byte(secret), ttl: ttl}
}

func (s *JWTStrategy) Issue(_ context.Context, userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *JWTStrategy) Validate(_ context.Context, token string) (uuid.UUID, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidSession
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidSession
	}
	return userID, nil
}

// Revoke is a no-op: a signed token stays valid until its expiry, logout is
// a client-side discard in this mode.
func (s *JWTStrategy) Revoke(_ context.Context, _ string) error {
	return nil
}
