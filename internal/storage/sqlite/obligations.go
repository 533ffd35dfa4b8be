package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andreusxcarvalho/SplitTON/internal/models"
	"github.com/andreusxcarvalho/SplitTON/internal/storage"
)

const obligationColumns = `id, transaction_id, payer_id, payee_id, amount, label, category, status, created_at, paid_at`

func scanObligation(scan func(dest ...interface{}) error) (*models.Obligation, error) {
	o := &models.Obligation{}
	var amount string
	var paidAt sql.NullInt64

	err := scan(&o.ID, &o.TransactionID, &o.PayerID, &o.PayeeID, &amount,
		&o.Label, &o.Category, (*string)(&o.Status), &o.CreatedAt, &paidAt)
	if err != nil {
		return nil, err
	}

	o.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse obligation amount: %w", err)
	}
	if paidAt.Valid {
		o.PaidAt = paidAt.Int64
	}
	return o, nil
}

// GetObligation retrieves an obligation by ID.
func (s *SQLiteStore) GetObligation(ctx context.Context, id string) (*models.Obligation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+obligationColumns+` FROM obligations WHERE id = ?`, id)

	o, err := scanObligation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("obligation %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get obligation: %w", err)
	}
	return o, nil
}

// ListObligationsForUser returns obligations where the user is payer or
// payee, optionally restricted to pending ones.
func (s *SQLiteStore) ListObligationsForUser(ctx context.Context, userID string, pendingOnly bool) ([]models.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE (payer_id = ? OR payee_id = ?)`
	args := []interface{}{userID, userID}
	if pendingOnly {
		query += ` AND status = ?`
		args = append(args, string(models.StatusPending))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var obligations []models.Obligation
	for rows.Next() {
		o, err := scanObligation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		obligations = append(obligations, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate obligations: %w", err)
	}
	return obligations, nil
}

// SettleObligation marks a pending obligation as paid. Status and paid_at
// are written together in a single statement guarded on the current status,
// so two concurrent settles can't both succeed and the original paid
// timestamp can never be clobbered.
func (s *SQLiteStore) SettleObligation(ctx context.Context, id string, paidAt int64) (*models.Obligation, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE obligations SET status = ?, paid_at = ? WHERE id = ? AND status = ?`,
		string(models.StatusPaid), paidAt, id, string(models.StatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to settle obligation: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check settled rows: %w", err)
	}
	if n == 0 {
		// Nothing flipped: the obligation is missing or already paid.
		existing, err := s.GetObligation(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing.Status == models.StatusPaid {
			return existing, fmt.Errorf("obligation %s: %w", id, storage.ErrAlreadySettled)
		}
		return nil, fmt.Errorf("failed to settle obligation %s: update had no effect", id)
	}

	return s.GetObligation(ctx, id)
}
