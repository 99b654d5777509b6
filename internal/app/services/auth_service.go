package services

import (
	"context"
	"fmt"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/app/repositories"
	"github.com/veritasedu/veritas/internal/pkg/apperrors"
	"github.com/veritasedu/veritas/internal/pkg/auth"
)

// AuthService defines staff authentication operations
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.User, string, int, error)
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new auth service instance
func NewAuthService(userRepo *repositories.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login authenticates a staff user and issues an access token.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*models.User, string, int, error) {
	user, err := s.userRepo.Authenticate(ctx, username, password)
	if err != nil {
		return nil, "", 0, fmt.Errorf("error authenticating user: %w", err)
	}
	if user == nil {
		return nil, "", 0, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", 0, fmt.Errorf("error issuing token: %w", err)
	}

	user.Password = ""
	return user, token, expiresIn, nil
}
