package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aebalz/wellmind-tracker/internal/auth"
	"github.com/aebalz/wellmind-tracker/internal/model"
	"github.com/aebalz/wellmind-tracker/internal/repository"
)

func newTestAuthService(users repository.UserRepositoryInterface) (*AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour, "wellmind-test")
	return NewAuthService(users, tokens, zerolog.Nop()), tokens
}

func TestRegister(t *testing.T) {
	svc, tokens := newTestAuthService(repository.NewMemoryUserRepository())

	res, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "Ana@Example.com", Password: "password123"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, model.RoleUser, res.User.Role)
	assert.True(t, res.User.Active)
	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.NotEqual(t, "password123", res.User.PasswordHash)

	claims, err := tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.False(t, claims.IsAdmin())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(repository.NewMemoryUserRepository())
	input := RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "password123"}

	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegister_Validation(t *testing.T) {
	users := &MockUserRepository{}
	svc, _ := newTestAuthService(users)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "", Email: "not-an-email", Password: "short"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("name"))
	assert.True(t, verr.HasField("email"))
	assert.True(t, verr.HasField("password"))
	assert.Equal(t, int32(0), atomic.LoadInt32(&users.CreateUserCalls))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	svc, _ := newTestAuthService(users)
	_, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_InactiveAccount(t *testing.T) {
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	svc, _ := newTestAuthService(&MockUserRepository{
		GetUserByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 3, Email: email, PasswordHash: hash, Role: model.RoleUser, Active: false}, nil
		},
	})

	_, err = svc.Login(context.Background(), LoginInput{Email: "ana@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_StoreFailureIsNotUnauthorized(t *testing.T) {
	svc, _ := newTestAuthService(&MockUserRepository{
		GetUserByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return nil, errors.New("db down")
		},
	})

	_, err := svc.Login(context.Background(), LoginInput{Email: "ana@example.com", Password: "password123"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	svc, tokens := newTestAuthService(users)

	require.NoError(t, svc.EnsureAdmin(ctx, "Ops", "ops@example.com", "admin-password"))
	require.NoError(t, svc.EnsureAdmin(ctx, "Ops", "ops@example.com", "admin-password"))

	admin, err := users.GetUserByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.Equal(t, uint(1), admin.ID)

	res, err := svc.Login(ctx, LoginInput{Email: "ops@example.com", Password: "admin-password"})
	require.NoError(t, err)
	claims, err := tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}
