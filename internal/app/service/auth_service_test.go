package service

import (
	"context"
	"testing"

	"portfolio_api/internal/common"
	"portfolio_api/internal/common/security"
	"portfolio_api/internal/domain/model"
	"portfolio_api/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[string]*model.User // keyed by username
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if _, exists := r.users[user.Username]; exists {
		return common.ErrConflict
	}
	u := *user
	r.users[user.Username] = &u
	return nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	found := *u
	return &found, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			found := *u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) Count(ctx context.Context) (int, error) {
	return len(r.users), nil
}

func initSecurity(t *testing.T) {
	t.Helper()
	config.Load()
	security.InitJWT()
}

func TestAuthService_Login_Success(t *testing.T) {
	initSecurity(t)
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)

	require.NoError(t, svc.EnsureAdminUser(context.Background(), "admin", "hunter2", "admin@example.com"))

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "hunter2"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	// The issued token must verify until expiry.
	_, err = jwtauth.VerifyToken(security.TokenAuth, resp.Token)
	assert.NoError(t, err)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	initSecurity(t)
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)
	require.NoError(t, svc.EnsureAdminUser(context.Background(), "admin", "hunter2", "admin@example.com"))

	_, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "nope"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	initSecurity(t)
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	initSecurity(t)
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), LoginRequest{Username: "", Password: ""})
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestAuthService_EnsureAdminUser_SeedsOnce(t *testing.T) {
	initSecurity(t)
	repo := newFakeUserRepo()
	svc := NewAuthService(repo)

	require.NoError(t, svc.EnsureAdminUser(context.Background(), "admin", "hunter2", "admin@example.com"))
	require.NoError(t, svc.EnsureAdminUser(context.Background(), "admin", "different", "admin@example.com"))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// First password stays in effect; seeding never overwrites.
	_, err = svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "hunter2"})
	assert.NoError(t, err)
}

func TestAuthService_EnsureAdminUser_RequiresPassword(t *testing.T) {
	initSecurity(t)
	svc := NewAuthService(newFakeUserRepo())

	err := svc.EnsureAdminUser(context.Background(), "admin", "", "admin@example.com")
	assert.Error(t, err)
}
