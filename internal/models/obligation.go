package models

import "github.com/shopspring/decimal"

// ObligationStatus is the settlement state of an obligation.
type ObligationStatus string

const (
	// StatusPending means the debt has not been settled yet.
	StatusPending ObligationStatus = "pending"

	// StatusPaid means the debt was settled. Terminal.
	StatusPaid ObligationStatus = "paid"
)

// CategoryFallback is the category label used when an obligation carries no
// category of its own.
const CategoryFallback = "Other"

// Obligation represents one person owing another a specific amount for one
// expense item. Obligations are append-only: they are created when a
// transaction is split across participants and mutated exactly once, from
// pending to paid, by a settlement action.
type Obligation struct {
	// ID is the unique identifier for the obligation (UUID format).
	ID string

	// TransactionID is the transaction this obligation belongs to.
	TransactionID string

	// PayerID is the profile ID of the person who fronted the money.
	PayerID string

	// PayeeID is the profile ID of the person who owes the payer.
	// Invariant: PayerID != PayeeID.
	PayeeID string

	// Amount is the amount owed. Invariant: Amount > 0.
	Amount decimal.Decimal

	// Label is the item description this debt covers (e.g. "Brownie").
	Label string

	// Category is a free-text spend category (e.g. "Food"). May be empty;
	// reporting groups empty categories under CategoryFallback.
	Category string

	// Status is pending or paid.
	Status ObligationStatus

	// CreatedAt is the Unix timestamp when the obligation was recorded.
	CreatedAt int64

	// PaidAt is the Unix timestamp of settlement. Non-zero iff Status is paid.
	PaidAt int64
}

// Validate checks the invariants an obligation must satisfy.
func (o *Obligation) Validate() error {
	if o.PayerID == "" || o.PayeeID == "" {
		return ErrMissingParty
	}
	if o.PayerID == o.PayeeID {
		return ErrSameParticipants
	}
	if !o.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// CategoryOrFallback returns the obligation's category, or CategoryFallback
// when none was stored. Labels are used exactly as stored; no case folding.
func (o *Obligation) CategoryOrFallback() string {
	if o.Category == "" {
		return CategoryFallback
	}
	return o.Category
}
