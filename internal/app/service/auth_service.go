package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio_api/internal/common"
	"portfolio_api/internal/common/security"
	"portfolio_api/internal/domain/model"
	"portfolio_api/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token}, nil
}

// EnsureAdminUser seeds the administrator account once, on first boot.
// Credentials come from configuration; an empty password disables seeding.
func (s *AuthService) EnsureAdminUser(ctx context.Context, username, password, email string) error {
	if password == "" {
		return errors.New("admin password is not configured")
	}

	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil // already seeded
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hashedPassword, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}
