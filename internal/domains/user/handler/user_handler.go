package handler

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookshelf-backend/internal/domains/user"
	"bookshelf-backend/internal/infrastructure/oauth"
	"bookshelf-backend/internal/shared/middleware"
	"bookshelf-backend/internal/shared/response"
	"bookshelf-backend/pkg/logger"
)

const stateCookieName = "oauth_state"

// UserHandler exposes the auth endpoints. Stateless: it only holds
// dependencies.
type UserHandler struct {
	service  user.Service
	provider oauth.Provider
}

func NewUserHandler(service user.Service, provider oauth.Provider) *UserHandler {
	return &UserHandler{
		service:  service,
		provider: provider,
	}
}

// ========================================
// CREDENTIAL ENDPOINTS
// ========================================

// Signup handles POST /auth/signup
func (h *UserHandler) Signup(c *gin.Context) {
	var req user.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	dto, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/users/"+dto.ID.String())
	response.Success(c, http.StatusCreated, dto)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Logout handles POST /auth/logout (authenticated)
func (h *UserHandler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c)
	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// ========================================
// GOOGLE OAUTH ENDPOINTS
// ========================================

// GoogleRedirect handles GET /auth/google: sends the browser to the consent
// screen with a fresh state value pinned in a short-lived cookie.
func (h *UserHandler) GoogleRedirect(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		response.InternalServerError(c, "Could not start login")
		return
	}

	c.SetCookie(stateCookieName, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// GoogleCallback handles GET /auth/google/callback: verifies state, trades
// the code for a verified identity and reconciles it to a user.
func (h *UserHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	cookieState, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != cookieState {
		response.Unauthorized(c, "invalid oauth state")
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "missing authorization code")
		return
	}

	identity, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		logger.Error("google code exchange failed", err)
		response.Unauthorized(c, "provider login failed")
		return
	}

	resp, err := h.service.ProviderLogin(c.Request.Context(), user.ProviderIdentity{
		Provider:  "google",
		AccountID: identity.AccountID,
		Email:     identity.Email,
		Name:      identity.Name,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ========================================
// PROFILE ENDPOINTS
// ========================================

// GetProfile handles GET /users/me (authenticated)
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	dto, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// ========================================
// HELPERS
// ========================================

// handleError maps domain errors to HTTP responses. Anything unmapped is
// logged and reported as a generic server fault - store error details never
// reach the client.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var validationErrs validation.Errors

	switch {
	case errors.As(err, &validationErrs):
		response.ValidationFailed(c, validationErrs)
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.Conflict(c, "An account with this email already exists")
	case errors.Is(err, user.ErrAccountConflict):
		response.Conflict(c, "This email is already linked to a different login")
	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, "User not found")
	default:
		logger.Error("user handler error", err)
		response.InternalServerError(c, "Something went wrong")
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
