package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andreusxcarvalho/SplitTON/internal/auth"
	"github.com/andreusxcarvalho/SplitTON/internal/models"
)

// AuthService fronts the OTP login flow and session token minting.
type AuthService struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator auth.Authenticator, tokens *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, tokens: tokens}
}

// Register starts an OTP login for the email.
func (s *AuthService) Register(ctx context.Context, email string) error {
	if err := s.authenticator.Begin(ctx, email); err != nil {
		slog.Error("Register failed", "email", email, "error", err)
		return err
	}
	return nil
}

// Verify checks the OTP code and returns a session token plus the profile.
func (s *AuthService) Verify(ctx context.Context, email, code, displayName string) (string, *models.Profile, error) {
	profile, err := s.authenticator.Verify(ctx, email, code, displayName)
	if err != nil {
		slog.Warn("Verify failed", "email", email, "error", err)
		return "", nil, err
	}

	token, err := s.tokens.Generate(profile)
	if err != nil {
		slog.Error("Token generation failed", "user_id", profile.ID, "error", err)
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}
	return token, profile, nil
}
