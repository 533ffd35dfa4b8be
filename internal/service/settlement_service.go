package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreusxcarvalho/SplitTON/internal/cryptopay"
	"github.com/andreusxcarvalho/SplitTON/internal/models"
	"github.com/andreusxcarvalho/SplitTON/internal/notify"
	"github.com/andreusxcarvalho/SplitTON/internal/settlement"
	"github.com/andreusxcarvalho/SplitTON/internal/storage"
)

var (
	// ErrNotParty is returned when a user acts on an obligation they are
	// neither payer nor payee of.
	ErrNotParty = errors.New("user is not a party to this obligation")

	// ErrCryptoUnavailable is returned when crypto settlement is requested
	// but no Crypto Pay token is configured.
	ErrCryptoUnavailable = errors.New("crypto settlement is not configured")
)

// notifyTimeout bounds the fire-and-forget notification call, which runs
// detached from the request context.
const notifyTimeout = 5 * time.Second

// SettlementService fronts the settlement aggregator and the obligation
// status lifecycle.
type SettlementService struct {
	store    storage.Store
	notifier notify.Notifier
	crypto   *cryptopay.Client // nil when not configured
}

// NewSettlementService creates a new SettlementService. crypto may be nil.
func NewSettlementService(store storage.Store, notifier notify.Notifier, crypto *cryptopay.Client) *SettlementService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &SettlementService{store: store, notifier: notifier, crypto: crypto}
}

// Outstanding computes the user's net balances per counterparty over their
// pending obligations, partitioned into "owed to you" and "you owe".
func (s *SettlementService) Outstanding(ctx context.Context, userID string) (settlement.Partitioned, error) {
	obligations, err := s.store.ListObligationsForUser(ctx, userID, true)
	if err != nil {
		slog.Error("Outstanding: failed to list obligations", "user_id", userID, "error", err)
		return settlement.Partitioned{}, err
	}

	balances, err := settlement.ComputeNetSettlements(userID, obligations)
	if err != nil {
		slog.Error("Outstanding: aggregation rejected input", "user_id", userID, "error", err)
		return settlement.Partitioned{}, err
	}
	return settlement.Partition(balances), nil
}

// Settle marks an obligation as paid, exactly once. The caller must be a
// party to the obligation. On success the counterparty gets a best-effort
// Telegram notification; its failure never affects the settlement.
func (s *SettlementService) Settle(ctx context.Context, userID, obligationID string) (*models.Obligation, error) {
	obligation, err := s.store.GetObligation(ctx, obligationID)
	if err != nil {
		return nil, err
	}
	if obligation.PayerID != userID && obligation.PayeeID != userID {
		return nil, ErrNotParty
	}

	settled, err := s.store.SettleObligation(ctx, obligationID, time.Now().Unix())
	if err != nil {
		if !errors.Is(err, storage.ErrAlreadySettled) {
			slog.Error("Settle failed", "obligation_id", obligationID, "error", err)
		}
		return nil, err
	}

	s.notifyCounterparty(userID, settled)
	return settled, nil
}

// CategoryTotals sums the user's obligation amounts by category, pending
// and paid alike.
func (s *SettlementService) CategoryTotals(ctx context.Context, userID string) (map[string]decimal.Decimal, error) {
	obligations, err := s.store.ListObligationsForUser(ctx, userID, false)
	if err != nil {
		slog.Error("CategoryTotals: failed to list obligations", "user_id", userID, "error", err)
		return nil, err
	}
	return settlement.CategoryTotals(userID, obligations)
}

// CreateInvoice creates a Crypto Pay invoice for a pending obligation the
// user owes, returning the pay URL for the mini app to open.
func (s *SettlementService) CreateInvoice(ctx context.Context, userID, obligationID string) (*cryptopay.Invoice, error) {
	if s.crypto == nil {
		return nil, ErrCryptoUnavailable
	}

	obligation, err := s.store.GetObligation(ctx, obligationID)
	if err != nil {
		return nil, err
	}
	if obligation.PayeeID != userID {
		return nil, ErrNotParty
	}
	if obligation.Status == models.StatusPaid {
		return nil, fmt.Errorf("obligation %s: %w", obligationID, storage.ErrAlreadySettled)
	}

	description := obligation.Label
	if description == "" {
		description = "SplitTON settlement"
	}

	invoice, err := s.crypto.CreateInvoice(ctx, cryptopay.DefaultAsset, obligation.Amount, description, obligation.ID)
	if err != nil {
		slog.Error("CreateInvoice failed", "obligation_id", obligationID, "error", err)
		return nil, err
	}
	return invoice, nil
}

// notifyCounterparty tells the other side of a settled obligation. Runs in
// the background with its own timeout; failures are logged and dropped.
func (s *SettlementService) notifyCounterparty(actorID string, obligation *models.Obligation) {
	counterpartyID := obligation.PayerID
	if counterpartyID == actorID {
		counterpartyID = obligation.PayeeID
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		counterparty, err := s.store.GetProfileByID(ctx, counterpartyID)
		if err != nil {
			slog.Warn("Settle notification skipped: counterparty lookup failed",
				"counterparty_id", counterpartyID, "error", err)
			return
		}
		if counterparty.TelegramID == 0 {
			return
		}

		text := fmt.Sprintf("✅ %s settled: %s %s", obligation.Label, obligation.Amount.String(), cryptopay.DefaultAsset)
		if err := s.notifier.Send(ctx, counterparty.TelegramID, text); err != nil {
			slog.Warn("Settle notification failed",
				"counterparty_id", counterpartyID, "obligation_id", obligation.ID, "error", err)
		}
	}()
}
