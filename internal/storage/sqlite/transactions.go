package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andreusxcarvalho/SplitTON/internal/models"
	"github.com/andreusxcarvalho/SplitTON/internal/storage"
)

// CreateTransaction persists a transaction and its obligations in one
// database transaction. Obligation timestamps and IDs are generated here so
// a retried request produces a fresh aggregate, never a partial one.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, txn *models.Transaction, obligations []*models.Obligation) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var sourcePath interface{}
	if txn.SourcePath != "" {
		sourcePath = txn.SourcePath
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, creator_id, description, total_amount, source_type, source_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.CreatorID, txn.Description, txn.TotalAmount.String(), string(txn.SourceType), sourcePath, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	for _, o := range obligations {
		if o.ID == "" {
			o.ID = uuid.New().String()
		}
		o.TransactionID = txn.ID
		if o.Status == "" {
			o.Status = models.StatusPending
		}
		if o.CreatedAt == 0 {
			o.CreatedAt = txn.CreatedAt
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO obligations (id, transaction_id, payer_id, payee_id, amount, label, category, status, created_at, paid_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
			o.ID, o.TransactionID, o.PayerID, o.PayeeID, o.Amount.String(), o.Label, o.Category, string(o.Status), o.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert obligation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var total string
	var sourcePath sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, creator_id, description, total_amount, source_type, source_path, created_at
		 FROM transactions WHERE id = ?`,
		id,
	).Scan(&txn.ID, &txn.CreatorID, &txn.Description, &total, (*string)(&txn.SourceType), &sourcePath, &txn.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	txn.TotalAmount, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transaction amount: %w", err)
	}
	if sourcePath.Valid {
		txn.SourcePath = sourcePath.String
	}
	return txn, nil
}

// ListTransactionsForUser returns transactions the user created or is a
// party to through an obligation, newest first.
func (s *SQLiteStore) ListTransactionsForUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT t.id, t.creator_id, t.description, t.total_amount, t.source_type, t.source_path, t.created_at
		 FROM transactions t
		 LEFT JOIN obligations o ON o.transaction_id = t.id
		 WHERE t.creator_id = ? OR o.payer_id = ? OR o.payee_id = ?
		 ORDER BY t.created_at DESC`,
		userID, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn := &models.Transaction{}
		var total string
		var sourcePath sql.NullString

		if err := rows.Scan(&txn.ID, &txn.CreatorID, &txn.Description, &total, (*string)(&txn.SourceType), &sourcePath, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.TotalAmount, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction amount: %w", err)
		}
		if sourcePath.Valid {
			txn.SourcePath = sourcePath.String
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}
