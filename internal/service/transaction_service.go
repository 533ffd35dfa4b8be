package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/andreusxcarvalho/SplitTON/internal/models"
	"github.com/andreusxcarvalho/SplitTON/internal/storage"
)

// ObligationInput is one participant debt inside a recorded transaction.
type ObligationInput struct {
	PayerID  string
	PayeeID  string
	Amount   decimal.Decimal
	Label    string
	Category string
}

// RecordTransactionInput is an already-parsed expense ready to be written
// to the ledger. Parsing (receipt OCR, voice transcription) happens
// upstream; this service only validates and persists.
type RecordTransactionInput struct {
	Description string
	SourceType  models.SourceType
	SourcePath  string
	Obligations []ObligationInput
}

// TransactionService records expenses and serves transaction history.
type TransactionService struct {
	store storage.Store
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store storage.Store) *TransactionService {
	return &TransactionService{store: store}
}

// Record validates and persists a transaction with its obligations. The
// transaction total is the sum of the obligation amounts.
func (s *TransactionService) Record(ctx context.Context, creatorID string, in RecordTransactionInput) (*models.Transaction, []*models.Obligation, error) {
	if len(in.Obligations) == 0 {
		return nil, nil, models.ErrNoObligations
	}

	total := decimal.Zero
	obligations := make([]*models.Obligation, 0, len(in.Obligations))
	for _, oi := range in.Obligations {
		o := &models.Obligation{
			PayerID:  oi.PayerID,
			PayeeID:  oi.PayeeID,
			Amount:   oi.Amount,
			Label:    oi.Label,
			Category: oi.Category,
			Status:   models.StatusPending,
		}
		if err := o.Validate(); err != nil {
			return nil, nil, err
		}
		total = total.Add(o.Amount)
		obligations = append(obligations, o)
	}

	txn := &models.Transaction{
		CreatorID:   creatorID,
		Description: in.Description,
		TotalAmount: total,
		SourceType:  in.SourceType,
		SourcePath:  in.SourcePath,
	}
	if err := txn.Validate(); err != nil {
		return nil, nil, err
	}

	if err := s.store.CreateTransaction(ctx, txn, obligations); err != nil {
		slog.Error("Record transaction failed", "creator_id", creatorID, "error", err)
		return nil, nil, err
	}
	return txn, obligations, nil
}

// History returns the user's transactions, newest first, settled and
// pending alike.
func (s *TransactionService) History(ctx context.Context, userID string) ([]*models.Transaction, error) {
	txns, err := s.store.ListTransactionsForUser(ctx, userID)
	if err != nil {
		slog.Error("History failed", "user_id", userID, "error", err)
		return nil, err
	}
	return txns, nil
}

// Receipt returns the stored source (receipt URL and capture type) for a
// transaction.
func (s *TransactionService) Receipt(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return s.store.GetTransaction(ctx, transactionID)
}
