package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andreusxcarvalho/SplitTON/internal/storage"
)

// UpsertOTP stores the bcrypt hash of a one-time code for an email address,
// replacing any previous code for that address.
func (s *SQLiteStore) UpsertOTP(ctx context.Context, email, codeHash string, expiresAt int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO otp_codes (email, code_hash, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET code_hash = excluded.code_hash, expires_at = excluded.expires_at`,
		email, codeHash, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

// GetOTP returns the stored code hash and expiry for an email address.
func (s *SQLiteStore) GetOTP(ctx context.Context, email string) (codeHash string, expiresAt int64, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT code_hash, expires_at FROM otp_codes WHERE email = ?`, email,
	).Scan(&codeHash, &expiresAt)
	if err == sql.ErrNoRows {
		return "", 0, fmt.Errorf("otp for %s: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to get otp: %w", err)
	}
	return codeHash, expiresAt, nil
}

// DeleteOTP removes the stored code for an email address. Codes are
// single-use; a successful verification deletes them.
func (s *SQLiteStore) DeleteOTP(ctx context.Context, email string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM otp_codes WHERE email = ?`, email); err != nil {
		return fmt.Errorf("failed to delete otp: %w", err)
	}
	return nil
}
