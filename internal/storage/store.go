// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/andreusxcarvalho/SplitTON/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadySettled is returned when settling an obligation that is
	// already paid. The original paid timestamp is never overwritten.
	ErrAlreadySettled = errors.New("obligation already settled")
)

// Store defines the interface for ledger storage operations. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, a
// managed API, etc.) without changing the service layer.
//
// Any error other than ErrNotFound/ErrAlreadySettled means the store failed
// and the outcome of a write is unknown; callers must not assume the
// mutation applied.
type Store interface {
	// CreateProfile persists a new profile. The ID and CreatedAt fields
	// are populated by the store if unset.
	CreateProfile(ctx context.Context, profile *models.Profile) error

	// GetProfileByID retrieves a profile by ID.
	// Returns ErrNotFound if no such profile exists.
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)

	// GetProfileByEmail retrieves a profile by email.
	// Returns nil (no error) if no such profile exists.
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)

	// CreateFriend persists a new friend link.
	CreateFriend(ctx context.Context, friend *models.Friend) error

	// ListFriends returns all friend links owned by the given profile.
	ListFriends(ctx context.Context, ownerID string) ([]*models.Friend, error)

	// DeleteFriend removes a friend link owned by the given profile.
	// Returns ErrNotFound if the link does not exist or belongs to someone else.
	DeleteFriend(ctx context.Context, ownerID, friendLinkID string) error

	// CreateTransaction persists a transaction together with its
	// obligations, atomically.
	CreateTransaction(ctx context.Context, txn *models.Transaction, obligations []*models.Obligation) error

	// GetTransaction retrieves a transaction by ID.
	// Returns ErrNotFound if no such transaction exists.
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// ListTransactionsForUser returns transactions the user created or
	// participates in, newest first.
	ListTransactionsForUser(ctx context.Context, userID string) ([]*models.Transaction, error)

	// GetObligation retrieves an obligation by ID.
	// Returns ErrNotFound if no such obligation exists.
	GetObligation(ctx context.Context, id string) (*models.Obligation, error)

	// ListObligationsForUser returns obligations where the user is payer or
	// payee. With pendingOnly set, paid obligations are excluded.
	ListObligationsForUser(ctx context.Context, userID string, pendingOnly bool) ([]models.Obligation, error)

	// SettleObligation flips a pending obligation to paid, recording paidAt,
	// and returns the updated record. The status and timestamp are written
	// in one statement so the flip happens exactly once. Returns
	// ErrAlreadySettled if the obligation is already paid (its original
	// timestamp untouched) and ErrNotFound if it does not exist.
	SettleObligation(ctx context.Context, id string, paidAt int64) (*models.Obligation, error)

	// Close releases any resources held by the store.
	Close() error
}
