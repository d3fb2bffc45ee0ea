package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookshelf-backend/internal/session"
	"bookshelf-backend/internal/shared/response"
	"bookshelf-backend/pkg/logger"
)

const (
	// ContextUserID is the gin context key holding the authenticated
	// user id. Only this middleware writes it; downstream handlers trust
	// it for the rest of the request and never re-derive the identity
	// from request fields.
	ContextUserID = "userID"

	// ContextSessionToken holds the raw token so logout can revoke it.
	ContextSessionToken = "sessionToken"
)

// Auth validates the session token from the Authorization header against
// the configured strategy and stores the bound user id in the context.
// Requests without a valid token are rejected with 401 before any resource
// access.
func Auth(strategy session.Strategy) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			response.Unauthorized(c, "missing or malformed authorization header")
			c.Abort()
			return
		}

		userID, err := strategy.Validate(c.Request.Context(), token)
		if err != nil {
			// Only a rejected token is an identity failure. A store fault
			// (Redis down under the store strategy) says nothing about
			// the token, so it must not read as 401.
			if !errors.Is(err, session.ErrInvalidSession) {
				logger.Error("session validation failed", err)
				response.InternalServerError(c, "Something went wrong")
				c.Abort()
				return
			}
			// All rejections read the same to the client.
			response.Unauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextSessionToken, token)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// SessionToken returns the raw session token set by Auth.
func SessionToken(c *gin.Context) string {
	return c.GetString(ContextSessionToken)
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
