package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aebalz/wellmind-tracker/internal/auth"
	"github.com/aebalz/wellmind-tracker/internal/model"
	"github.com/aebalz/wellmind-tracker/internal/repository"
)

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput is the sign-in payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by a successful sign-up or sign-in.
type AuthResult struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// AuthServiceInterface defines account operations.
type AuthServiceInterface interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
}

// AuthService implements AuthServiceInterface.
type AuthService struct {
	Users  repository.UserRepositoryInterface
	Tokens *auth.TokenManager
	Logger zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepositoryInterface, tokens *auth.TokenManager, logger zerolog.Logger) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, Logger: logger.With().Str("component", "auth").Logger()}
}

// Register creates an active USER account and signs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	user, err := s.createUser(ctx, input, model.RoleUser)
	if err != nil {
		return nil, err
	}
	s.Logger.Info().Uint("user_id", user.ID).Msg("user registered")
	return s.issue(user)
}

// Login checks credentials. Unknown e-mail, wrong password and inactive
// accounts all yield ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	user, err := s.Users.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if !user.Active || !auth.VerifyPassword(user.PasswordHash, input.Password) {
		s.Logger.Warn().Uint("user_id", user.ID).Msg("rejected login")
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	return s.issue(user)
}

// EnsureAdmin creates an ADMIN account for email unless one already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	_, err := s.Users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("error checking admin account: %w", err)
	}

	user, err := s.createUser(ctx, RegisterInput{Name: name, Email: email, Password: password}, model.RoleAdmin)
	if err != nil {
		return err
	}
	s.Logger.Info().Uint("user_id", user.ID).Msg("admin account created")
	return nil
}

func (s *AuthService) createUser(ctx context.Context, input RegisterInput, role model.Role) (*model.User, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.CreateUser(ctx, &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, expiresAt, err := s.Tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, TokenType: "Bearer", ExpiresAt: expiresAt, User: user}, nil
}
