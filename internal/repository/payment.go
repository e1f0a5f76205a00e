package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skurenkov/topup-ledger/internal/domain"
)

const paymentColumns = `id, transaction_id, user_id, account_id, amount, created_at`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// GetByTransactionID returns (nil, nil) when no payment carries the id;
// absence is the expected case on the dedup fast path.
func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1`, transactionID,
	)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByTransactionID: %w", err)
	}
	return p, nil
}

func (r *PaymentRepository) GetByUserID(ctx context.Context, userID int64, skip, limit int) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments
		WHERE user_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`,
		userID, skip, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByUserID: scan: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByUserID: rows: %w", err)
	}
	return payments, nil
}

// CreateInTx inserts the payment row. The unique constraint on
// transaction_id is the real dedup mechanism; a violation here is translated
// to ErrTransactionProcessed so a racing duplicate delivery surfaces exactly
// like one caught by the pre-check.
func (r *PaymentRepository) CreateInTx(ctx context.Context, tx *sql.Tx, payment *domain.Payment) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO payments (transaction_id, user_id, account_id, amount)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		payment.TransactionID, payment.UserID, payment.AccountID, payment.Amount,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("CreateInTx: %w", domain.ErrTransactionProcessed)
		}
		return fmt.Errorf("CreateInTx: %w", err)
	}
	return nil
}

func scanPayment(s scanner) (*domain.Payment, error) {
	var p domain.Payment
	err := s.Scan(&p.ID, &p.TransactionID, &p.UserID, &p.AccountID, &p.Amount, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
