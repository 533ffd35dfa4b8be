// Package settlement computes derived debt views over obligation records:
// per-counterparty net balances and per-category spend totals. Everything in
// this package is a pure computation over already-fetched data; it performs
// no storage access and produces no storage errors.
package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andreusxcarvalho/SplitTON/internal/models"
)

// SettledEpsilon is the threshold below which a net balance counts as
// settled: one minor currency unit. Balances with |net| <= SettledEpsilon
// are omitted from both the "owed to user" and "user owes" partitions.
var SettledEpsilon = decimal.RequireFromString("0.01")

// Direction says which way a single line item moves money, from the
// perspective of the user the computation was scoped to.
type Direction string

const (
	// DirectionOwedToUser means the counterparty owes the user this item.
	DirectionOwedToUser Direction = "owed_to_user"

	// DirectionUserOwes means the user owes the counterparty this item.
	DirectionUserOwes Direction = "user_owes"
)

// LineItem is one obligation's contribution to a counterparty balance,
// retained so the UI can show the breakdown behind a net amount.
type LineItem struct {
	ObligationID string
	Label        string
	Category     string
	Amount       decimal.Decimal // always positive; sign is in Direction
	Direction    Direction
}

// CounterpartyBalance is the signed sum of all pending obligations between
// a user and one counterparty. Positive means the counterparty owes the
// user; negative means the user owes the counterparty.
type CounterpartyBalance struct {
	CounterpartyID string
	NetAmount      decimal.Decimal
	Items          []LineItem
}

// ComputeNetSettlements converts a user's pending obligations into one net
// balance per counterparty. For each obligation: if the user is the payer,
// the payee owes them and the amount contributes positively; if the user is
// the payee, they owe the payer and the amount contributes negatively.
// Obligations that are already paid are skipped. An empty input yields an
// empty result.
//
// Callers must not assume any ordering of the returned slice; the stable
// grouping key is CounterpartyID.
//
// Malformed input (payer == payee, non-positive amount, an obligation the
// user is not a party to) is rejected with an error rather than skipped.
func ComputeNetSettlements(userID string, obligations []models.Obligation) ([]CounterpartyBalance, error) {
	if userID == "" {
		return nil, models.ErrMissingParty
	}

	balances := make(map[string]*CounterpartyBalance)

	for i := range obligations {
		o := &obligations[i]
		if o.Status == models.StatusPaid {
			continue
		}
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("obligation %s: %w", o.ID, err)
		}

		var counterparty string
		var direction Direction
		switch userID {
		case o.PayerID:
			counterparty = o.PayeeID
			direction = DirectionOwedToUser
		case o.PayeeID:
			counterparty = o.PayerID
			direction = DirectionUserOwes
		default:
			return nil, fmt.Errorf("obligation %s: user %s is not a party: %w", o.ID, userID, models.ErrMissingParty)
		}

		bal, ok := balances[counterparty]
		if !ok {
			bal = &CounterpartyBalance{CounterpartyID: counterparty, NetAmount: decimal.Zero}
			balances[counterparty] = bal
		}

		if direction == DirectionOwedToUser {
			bal.NetAmount = bal.NetAmount.Add(o.Amount)
		} else {
			bal.NetAmount = bal.NetAmount.Sub(o.Amount)
		}
		bal.Items = append(bal.Items, LineItem{
			ObligationID: o.ID,
			Label:        o.Label,
			Category:     o.Category,
			Amount:       o.Amount,
			Direction:    direction,
		})
	}

	result := make([]CounterpartyBalance, 0, len(balances))
	for _, bal := range balances {
		result = append(result, *bal)
	}
	return result, nil
}

// Partitioned splits counterparty balances into the two outstanding views
// the mini app renders.
type Partitioned struct {
	// OwedToUser holds counterparties with NetAmount > SettledEpsilon.
	OwedToUser []CounterpartyBalance

	// UserOwes holds counterparties with NetAmount < -SettledEpsilon.
	// NetAmount stays signed (negative) so totals still add up.
	UserOwes []CounterpartyBalance
}

// Partition separates balances into "owed to user" and "user owes" buckets.
// Balances within SettledEpsilon of zero, including exactly at the
// threshold, count as settled and appear in neither bucket. The same
// threshold applies symmetrically to both sides.
func Partition(balances []CounterpartyBalance) Partitioned {
	var p Partitioned
	for _, bal := range balances {
		switch {
		case bal.NetAmount.GreaterThan(SettledEpsilon):
			p.OwedToUser = append(p.OwedToUser, bal)
		case bal.NetAmount.LessThan(SettledEpsilon.Neg()):
			p.UserOwes = append(p.UserOwes, bal)
		}
	}
	return p
}
