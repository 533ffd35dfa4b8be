package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// SourceType identifies how a transaction was captured before parsing.
type SourceType string

const (
	SourceText  SourceType = "text"
	SourceImage SourceType = "image"
	SourceVoice SourceType = "voice"
)

var (
	ErrEmptyCreator     = errors.New("creator id can't be empty")
	ErrInvalidSource    = errors.New("source type must be text, image or voice")
	ErrNoObligations    = errors.New("transaction must have at least one obligation")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrSameParticipants = errors.New("payer and payee must be different")
	ErrMissingParty     = errors.New("payer and payee ids are required")
)

// Transaction represents one recorded expense. A transaction is created
// when a receipt, voice note or text message is parsed and split across
// participants; the per-person debts live in the associated Obligations.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// CreatorID is the profile ID of the user who recorded the expense.
	CreatorID string

	// Description is a short human-readable summary (e.g. "Dinner at Luigi's").
	Description string

	// TotalAmount is the full expense amount before splitting.
	TotalAmount decimal.Decimal

	// SourceType records how the expense was captured.
	SourceType SourceType

	// SourcePath is the stored receipt URL for image sources, empty otherwise.
	SourcePath string

	// CreatedAt is the Unix timestamp when the transaction was recorded.
	CreatedAt int64
}

// Validate checks the invariants a transaction must satisfy before it is
// persisted.
func (t *Transaction) Validate() error {
	if t.CreatorID == "" {
		return ErrEmptyCreator
	}
	switch t.SourceType {
	case SourceText, SourceImage, SourceVoice:
	default:
		return ErrInvalidSource
	}
	if !t.TotalAmount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
