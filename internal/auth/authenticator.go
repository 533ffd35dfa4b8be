package auth

import (
	"context"

	"github.com/andreusxcarvalho/SplitTON/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between auth methods (email OTP, Telegram
// login widget, OAuth, etc.) without changing the service layer code.
type Authenticator interface {
	// Begin starts a login attempt for the given email, issuing a one-time
	// code and handing it to the configured sender.
	Begin(ctx context.Context, email string) error

	// Verify checks a one-time code for the given email. On success it
	// returns the existing profile for that email, creating one with the
	// given display name if this is a first login.
	Verify(ctx context.Context, email, code, displayName string) (*models.Profile, error)
}
