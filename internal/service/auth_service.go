package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olomek/trolley/internal/auth"
	"github.com/olomek/trolley/internal/models"
)

// AuthService handles registration and login. Password hashing and token
// issuance are delegated to the auth package.
type AuthService struct {
	authenticator *auth.PasswordAuthenticator
	tokens        *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator *auth.PasswordAuthenticator, tokens *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, tokens: tokens}
}

// Register creates a new account. A taken email or username is a conflict.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	user, err := s.authenticator.Register(ctx, username, email, password)
	switch {
	case errors.Is(err, auth.ErrEmailExists), errors.Is(err, auth.ErrUsernameExists):
		return nil, fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, auth.ErrWeakPassword):
		return nil, &models.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	case err != nil:
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies the credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID)
	return token, user, nil
}
