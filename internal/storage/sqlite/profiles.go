package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andreusxcarvalho/SplitTON/internal/models"
	"github.com/andreusxcarvalho/SplitTON/internal/storage"
)

// CreateProfile inserts a new profile into the database.
func (s *SQLiteStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt == 0 {
		profile.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, telegram_id, email, display_name, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		profile.ID, profile.TelegramID, profile.Email, profile.DisplayName, profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetProfileByID retrieves a profile by ID.
func (s *SQLiteStore) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, telegram_id, email, display_name, created_at FROM profiles WHERE id = ?`,
		id,
	).Scan(&profile.ID, &profile.TelegramID, &profile.Email, &profile.DisplayName, &profile.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// GetProfileByEmail retrieves a profile by email.
// Returns nil without an error if no profile has this email.
func (s *SQLiteStore) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, telegram_id, email, display_name, created_at FROM profiles WHERE email = ?`,
		email,
	).Scan(&profile.ID, &profile.TelegramID, &profile.Email, &profile.DisplayName, &profile.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}
	return profile, nil
}
