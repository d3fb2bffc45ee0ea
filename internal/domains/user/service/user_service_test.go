package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bookshelf-backend/internal/domains/user"
	"bookshelf-backend/internal/session"
)

// fakeRepo is an in-memory user.Repository enforcing the same uniqueness
// rules as the real store.
type fakeRepo struct {
	byID map[uuid.UUID]*user.User

	// failCreates forces the next n Create calls to report an email
	// conflict, simulating a lost concurrent-create race.
	failCreates int
	writes      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[uuid.UUID]*user.User)}
}

func (r *fakeRepo) Create(_ context.Context, u *user.User) error {
	if r.failCreates > 0 {
		r.failCreates--
		return user.ErrEmailAlreadyExists
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return user.ErrEmailAlreadyExists
		}
		if u.GoogleID != nil && existing.GoogleID != nil && *existing.GoogleID == *u.GoogleID {
			return user.ErrAccountConflict
		}
	}
	clone := *u
	r.byID[u.ID] = &clone
	r.writes++
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeRepo) AttachGoogleID(_ context.Context, id uuid.UUID, googleID string) error {
	for _, u := range r.byID {
		if u.GoogleID != nil && *u.GoogleID == googleID && u.ID != id {
			return user.ErrAccountConflict
		}
	}
	u, ok := r.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	if u.GoogleID != nil {
		if *u.GoogleID == googleID {
			return nil
		}
		return user.ErrAccountConflict
	}
	u.GoogleID = &googleID
	r.writes++
	return nil
}

func (r *fakeRepo) countByEmail(email string) int {
	n := 0
	for _, u := range r.byID {
		if u.Email == email {
			n++
		}
	}
	return n
}

func newTestService(repo user.Repository) user.Service {
	// Low bcrypt cost keeps the tests fast.
	return NewUserService(repo, session.NewJWTStrategy("test-secret", time.Hour), bcrypt.MinCost)
}

func googleIdentity(accountID, email, name string) user.ProviderIdentity {
	return user.ProviderIdentity{
		Provider:  "google",
		AccountID: accountID,
		Email:     email,
		Name:      name,
	}
}

// ========================================
// SIGNUP / CREDENTIAL LOGIN
// ========================================

func TestSignupThenLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	dto, err := svc.Signup(ctx, user.SignupRequest{Email: "a@x.com", Password: "password1", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", dto.Email)

	resp, err := svc.Login(ctx, user.LoginRequest{Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, dto.ID, resp.User.ID)

	_, err = svc.Login(ctx, user.LoginRequest{Email: "a@x.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Login(context.Background(), user.LoginRequest{Email: "ghost@x.com", Password: "password1"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestLoginProviderOnlyAccount(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.ProviderLogin(ctx, googleIdentity("g-1", "b@x.com", "Bob"))
	require.NoError(t, err)

	// No password hash on file: indistinguishable from a wrong password.
	_, err = svc.Login(ctx, user.LoginRequest{Email: "b@x.com", Password: "anything1"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestSignupDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, user.SignupRequest{Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, user.SignupRequest{Email: "a@x.com", Password: "password2"})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
	assert.Equal(t, 1, repo.countByEmail("a@x.com"))
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	cases := []user.SignupRequest{
		{Email: "", Password: "password1"},
		{Email: "not-an-email", Password: "password1"},
		{Email: "a@x.com", Password: "short"},
	}
	for _, req := range cases {
		_, err := svc.Signup(ctx, req)
		assert.Error(t, err, "request %+v", req)
	}
}

// ========================================
// PROVIDER RECONCILIATION
// ========================================

func TestProviderLoginCreatesUser(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.ProviderLogin(ctx, googleIdentity("g-1", "c@x.com", "Carol"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 1, repo.countByEmail("c@x.com"))

	// Second login with the same identity mutates nothing.
	writes := repo.writes
	again, err := svc.ProviderLogin(ctx, googleIdentity("g-1", "c@x.com", "Carol"))
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, again.User.ID)
	assert.Equal(t, writes, repo.writes)
	assert.Equal(t, 1, repo.countByEmail("c@x.com"))
}

func TestProviderLoginLinksPasswordAccount(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	dto, err := svc.Signup(ctx, user.SignupRequest{Email: "d@x.com", Password: "password1", Name: "Dave"})
	require.NoError(t, err)

	resp, err := svc.ProviderLogin(ctx, googleIdentity("g-2", "d@x.com", "Dave"))
	require.NoError(t, err)
	assert.Equal(t, dto.ID, resp.User.ID)

	// Both methods now resolve to the same user.
	viaPassword, err := svc.Login(ctx, user.LoginRequest{Email: "d@x.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, dto.ID, viaPassword.User.ID)

	linked, err := repo.FindByID(ctx, dto.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.GoogleID)
	assert.Equal(t, "g-2", *linked.GoogleID)
}

func TestProviderLoginConflict(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.ProviderLogin(ctx, googleIdentity("g-1", "e@x.com", "Eve"))
	require.NoError(t, err)

	writes := repo.writes
	_, err = svc.ProviderLogin(ctx, googleIdentity("g-other", "e@x.com", "Eve"))
	assert.ErrorIs(t, err, user.ErrAccountConflict)
	assert.Equal(t, writes, repo.writes, "conflict must not mutate")
}

func TestProviderLoginLostCreateRace(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	// Seed the row that "wins" the race, then force the service's own
	// create to report the unique violation it would lose with.
	winner, err := svc.ProviderLogin(ctx, googleIdentity("g-1", "f@x.com", "Fay"))
	require.NoError(t, err)

	repo.failCreates = 1
	resp, err := svc.ProviderLogin(ctx, googleIdentity("g-1", "f@x.com", "Fay"))
	require.NoError(t, err)
	assert.Equal(t, winner.User.ID, resp.User.ID)
	assert.Equal(t, 1, repo.countByEmail("f@x.com"))
}

// ========================================
// PROFILE
// ========================================

func TestGetProfile(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	dto, err := svc.Signup(ctx, user.SignupRequest{Email: "a@x.com", Password: "password1", Name: "Alice"})
	require.NoError(t, err)

	got, err := svc.GetProfile(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
