package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andreusxcarvalho/SplitTON/internal/models"
)

// CategoryTotals sums obligation amounts by category label for a user's
// obligations, pending and paid alike. Obligations without a category are
// grouped under models.CategoryFallback. Labels are matched exactly as
// stored; "Food" and "food" are different categories.
//
// The user must be a party (payer or payee) to every obligation passed in;
// anything else is malformed input and rejected.
func CategoryTotals(userID string, obligations []models.Obligation) (map[string]decimal.Decimal, error) {
	if userID == "" {
		return nil, models.ErrMissingParty
	}

	totals := make(map[string]decimal.Decimal)
	for i := range obligations {
		o := &obligations[i]
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("obligation %s: %w", o.ID, err)
		}
		if o.PayerID != userID && o.PayeeID != userID {
			return nil, fmt.Errorf("obligation %s: user %s is not a party: %w", o.ID, userID, models.ErrMissingParty)
		}

		label := o.CategoryOrFallback()
		totals[label] = totals[label].Add(o.Amount)
	}
	return totals, nil
}
