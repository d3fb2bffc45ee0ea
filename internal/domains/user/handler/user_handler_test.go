package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-backend/internal/domains/user"
	"bookshelf-backend/internal/infrastructure/oauth"
	"bookshelf-backend/internal/session"
	"bookshelf-backend/internal/shared/middleware"
)

// fakeService scripts the service layer so handler tests only exercise
// HTTP translation.
type fakeService struct {
	signupErr   error
	loginErr    error
	providerErr error

	lastIdentity user.ProviderIdentity
	loggedOut    []string

	profile *user.UserDTO
}

func (s *fakeService) Signup(_ context.Context, req user.SignupRequest) (*user.UserDTO, error) {
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return &user.UserDTO{ID: uuid.New(), Email: req.Email, Name: req.Name, CreatedAt: time.Now()}, nil
}

func (s *fakeService) Login(_ context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &user.LoginResponse{
		Token:     "session-token",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      user.UserDTO{ID: uuid.New(), Email: req.Email},
	}, nil
}

func (s *fakeService) ProviderLogin(_ context.Context, identity user.ProviderIdentity) (*user.LoginResponse, error) {
	s.lastIdentity = identity
	if s.providerErr != nil {
		return nil, s.providerErr
	}
	return &user.LoginResponse{
		Token:     "session-token",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      user.UserDTO{ID: uuid.New(), Email: identity.Email, Name: identity.Name},
	}, nil
}

func (s *fakeService) Logout(_ context.Context, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

func (s *fakeService) GetProfile(_ context.Context, _ uuid.UUID) (*user.UserDTO, error) {
	if s.profile == nil {
		return nil, user.ErrUserNotFound
	}
	return s.profile, nil
}

// fakeProvider stands in for the Google code exchange.
type fakeProvider struct {
	identity *oauth.Identity
	err      error
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, _ string) (*oauth.Identity, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.identity, nil
}

func newAuthRouter(svc user.Service, provider oauth.Provider, strategy session.Strategy) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewUserHandler(svc, provider)

	router := gin.New()
	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.POST("/logout", middleware.Auth(strategy), h.Logout)
		auth.GET("/google", h.GoogleRedirect)
		auth.GET("/google/callback", h.GoogleCallback)
	}

	users := v1.Group("/users")
	users.Use(middleware.Auth(strategy))
	users.GET("/me", h.GetProfile)

	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignup(t *testing.T) {
	svc := &fakeService{}
	router := newAuthRouter(svc, &fakeProvider{}, session.NewJWTStrategy("test-secret", time.Hour))

	w := postJSON(t, router, "/api/v1/auth/signup",
		gin.H{"email": "alice@example.com", "password": "correct-horse", "name": "Alice"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
	assert.NotContains(t, w.Body.String(), "correct-horse")
}

func TestSignupValidation(t *testing.T) {
	router := newAuthRouter(&fakeService{}, &fakeProvider{}, session.NewJWTStrategy("test-secret", time.Hour))

	cases := []gin.H{
		{"password": "correct-horse"},                         // no email
		{"email": "not-an-email", "password": "correct-horse"}, // bad email
		{"email": "alice@example.com", "password": "short"},    // short password
	}
	for _, body := range cases {
		w := postJSON(t, router, "/api/v1/auth/signup", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %v", body)
		assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := &fakeService{signupErr: user.ErrEmailAlreadyExists}
	router := newAuthRouter(svc, &fakeProvider{}, session.NewJWTStrategy("test-secret", time.Hour))

	w := postJSON(t, router, "/api/v1/auth/signup",
		gin.H{"email": "alice@example.com", "password": "correct-horse"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := &fakeService{loginErr: user.ErrInvalidCredentials}
	router := newAuthRouter(svc, &fakeProvider{}, session.NewJWTStrategy("test-secret", time.Hour))

	w := postJSON(t, router, "/api/v1/auth/login",
		gin.H{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesPresentedToken(t *testing.T) {
	strategy := session.NewJWTStrategy("test-secret", time.Hour)
	svc := &fakeService{}
	router := newAuthRouter(svc, &fakeProvider{}, strategy)

	token, _, err := strategy.Issue(context.Background(), uuid.New())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{token}, svc.loggedOut)
}

func TestGoogleRedirectSetsStateCookie(t *testing.T) {
	router := newAuthRouter(&fakeService{}, &fakeProvider{}, session.NewJWTStrategy("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)

	var stateCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == stateCookieName {
			stateCookie = ck
		}
	}
	require.NotNil(t, stateCookie)
	assert.NotEmpty(t, stateCookie.Value)
	assert.Contains(t, w.Header().Get("Location"), "state="+stateCookie.Value)
}

func TestGoogleCallbackRejectsStateMismatch(t *testing.T) {
	router := newAuthRouter(&fakeService{}, &fakeProvider{}, session.NewJWTStrategy("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=forged&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "genuine"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGoogleCallback(t *testing.T) {
	svc := &fakeService{}
	provider := &fakeProvider{identity: &oauth.Identity{
		AccountID: "google-123",
		Email:     "alice@example.com",
		Name:      "Alice",
	}}
	router := newAuthRouter(svc, provider, session.NewJWTStrategy("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=genuine&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "genuine"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "session-token")
	assert.Equal(t, "google", svc.lastIdentity.Provider)
	assert.Equal(t, "google-123", svc.lastIdentity.AccountID)
}

func TestGoogleCallbackConflict(t *testing.T) {
	svc := &fakeService{providerErr: user.ErrAccountConflict}
	provider := &fakeProvider{identity: &oauth.Identity{AccountID: "google-456", Email: "alice@example.com"}}
	router := newAuthRouter(svc, provider, session.NewJWTStrategy("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=s&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "s"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGoogleCallbackExchangeFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("provider unreachable")}
	router := newAuthRouter(&fakeService{}, provider, session.NewJWTStrategy("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state=s&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "s"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "unreachable")
}

func TestGetProfile(t *testing.T) {
	strategy := session.NewJWTStrategy("test-secret", time.Hour)
	id := uuid.New()
	svc := &fakeService{profile: &user.UserDTO{ID: id, Email: "alice@example.com", Name: "Alice"}}
	router := newAuthRouter(svc, &fakeProvider{}, strategy)

	// No token, no profile.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, err := strategy.Issue(context.Background(), id)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}
