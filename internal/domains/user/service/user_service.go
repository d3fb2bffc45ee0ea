package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bookshelf-backend/internal/domains/user"
	"bookshelf-backend/internal/session"
)

type userService struct {
	repo       user.Repository
	sessions   session.Strategy
	bcryptCost int
}

// NewUserService wires the reconciliation logic to its repository and the
// configured session strategy.
func NewUserService(repo user.Repository, sessions session.Strategy, bcryptCost int) user.Service {
	return &userService{
		repo:       repo,
		sessions:   sessions,
		bcryptCost: bcryptCost,
	}
}

// ========================================
// SIGNUP / CREDENTIAL LOGIN
// ========================================

func (s *userService) Signup(ctx context.Context, req user.SignupRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// No prior existence check: the unique index on email is the
	// arbiter, so two concurrent signups cannot both create a row.
	hash := string(passwordHash)
	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			return nil, user.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	dto := newUser.ToDTO()
	return &dto, nil
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			// Same failure as a wrong password: callers must not be
			// able to probe which emails exist.
			return nil, user.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	// Provider-only accounts have no hash on file and cannot log in with
	// a password; report it exactly like a bad password.
	if !u.HasPassword() {
		return nil, user.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	return s.issueSession(ctx, u)
}

// ========================================
// PROVIDER RECONCILIATION
// ========================================

// ProviderLogin maps a verified provider identity to exactly one user:
//
//  1. no user with that email        -> create with the google id attached
//  2. user without a google id      -> attach it (account linking by email)
//  3. user with the same google id  -> no mutation
//  4. user with a different one     -> reject
//
// A concurrent create racing step 1 loses against the email unique index;
// that loser re-reads the row and continues down the linking branches.
func (s *userService) ProviderLogin(ctx context.Context, identity user.ProviderIdentity) (*user.LoginResponse, error) {
	u, err := s.repo.FindByEmail(ctx, identity.Email)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		created, createErr := s.createProviderUser(ctx, identity)
		if createErr == nil {
			return s.issueSession(ctx, created)
		}
		if !errors.Is(createErr, user.ErrEmailAlreadyExists) {
			return nil, createErr
		}
		// Lost a concurrent-create race; the row exists now.
		u, err = s.repo.FindByEmail(ctx, identity.Email)
		if err != nil {
			return nil, fmt.Errorf("refetch user after create conflict: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	switch {
	case u.GoogleID == nil:
		if err := s.repo.AttachGoogleID(ctx, u.ID, identity.AccountID); err != nil {
			return nil, err
		}
	case *u.GoogleID == identity.AccountID:
		// Already linked; nothing to mutate.
	default:
		return nil, user.ErrAccountConflict
	}

	return s.issueSession(ctx, u)
}

func (s *userService) createProviderUser(ctx context.Context, identity user.ProviderIdentity) (*user.User, error) {
	accountID := identity.AccountID
	now := time.Now()
	newUser := &user.User{
		ID:        uuid.New(),
		Email:     identity.Email,
		Name:      identity.Name,
		GoogleID:  &accountID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}

// ========================================
// SESSION / PROFILE
// ========================================

func (s *userService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) issueSession(ctx context.Context, u *user.User) (*user.LoginResponse, error) {
	token, expiresAt, err := s.sessions.Issue(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return &user.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      u.ToDTO(),
	}, nil
}
