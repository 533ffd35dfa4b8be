package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/andreusxcarvalho/SplitTON/internal/models"
	"github.com/andreusxcarvalho/SplitTON/internal/storage"
)

var (
	ErrInvalidCode   = errors.New("invalid or expired code")
	ErrEmailRequired = errors.New("email required")
)

const (
	codeDigits = 6
	codeTTL    = 10 * time.Minute
)

// ProfileStorage defines the profile persistence the authenticator needs.
// This allows the authenticator to be independent of the storage implementation.
type ProfileStorage interface {
	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
}

// CodeStorage defines the one-time-code persistence the authenticator needs.
type CodeStorage interface {
	UpsertOTP(ctx context.Context, email, codeHash string, expiresAt int64) error
	GetOTP(ctx context.Context, email string) (codeHash string, expiresAt int64, err error)
	DeleteOTP(ctx context.Context, email string) error
}

// CodeSender delivers a one-time code to the user. Email delivery is an
// external collaborator; in development a nil sender logs the code instead.
type CodeSender func(ctx context.Context, email, code string) error

// OTPAuthenticator implements email one-time-code authentication. Codes are
// bcrypt-hashed at rest and single-use.
type OTPAuthenticator struct {
	profiles ProfileStorage
	codes    CodeStorage
	sender   CodeSender
}

// NewOTPAuthenticator creates a new OTP-based authenticator.
func NewOTPAuthenticator(profiles ProfileStorage, codes CodeStorage, sender CodeSender) *OTPAuthenticator {
	return &OTPAuthenticator{
		profiles: profiles,
		codes:    codes,
		sender:   sender,
	}
}

// Begin issues a fresh one-time code for the email and hands it to the
// sender. Any previous unverified code for the email is replaced.
func (a *OTPAuthenticator) Begin(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}

	expiresAt := time.Now().Add(codeTTL).Unix()
	if err := a.codes.UpsertOTP(ctx, email, string(hash), expiresAt); err != nil {
		return err
	}

	if a.sender == nil {
		slog.Info("OTP issued (no sender configured)", "email", email, "code", code)
		return nil
	}
	if err := a.sender(ctx, email, code); err != nil {
		return fmt.Errorf("failed to send code: %w", err)
	}
	return nil
}

// Verify checks the code for the email. A correct, unexpired code is
// consumed and the profile for the email is returned, created on first
// login with the given display name.
func (a *OTPAuthenticator) Verify(ctx context.Context, email, code, displayName string) (*models.Profile, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}

	hash, expiresAt, err := a.codes.GetOTP(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	if time.Now().Unix() > expiresAt {
		return nil, ErrInvalidCode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		return nil, ErrInvalidCode
	}

	// Single-use: consume the code before handing out a session.
	if err := a.codes.DeleteOTP(ctx, email); err != nil {
		return nil, err
	}

	profile, err := a.profiles.GetProfileByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	profile = &models.Profile{
		Email:       email,
		DisplayName: displayName,
	}
	if err := a.profiles.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

// generateCode returns a random numeric code with codeDigits digits,
// left-padded with zeros.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
