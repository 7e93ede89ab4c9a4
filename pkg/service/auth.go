package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/nyksales/pkg/auth"
	"github.com/example/nyksales/pkg/models"
)

type AuthService struct {
	users  *UserService
	tokens *auth.Manager
	logger *zap.Logger
}

func NewAuthService(users *UserService, tokens *auth.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user"`
}

// Login checks credentials and issues an access/refresh token pair.
// Failures are reported uniformly so the response does not reveal
// whether the email exists.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if IsKind(err, KindNotFound) {
			return nil, UnauthorizedError("Invalid credentials")
		}
		return nil, err
	}

	if !user.IsActive || !auth.CheckPassword(user.Password, req.Password) {
		return nil, UnauthorizedError("Invalid credentials")
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh issues a new access token for an authenticated user.
func (s *AuthService) Refresh(ctx context.Context, userID string) (string, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", UnauthorizedError("User is inactive")
	}
	return s.tokens.GenerateAccessToken(user)
}
