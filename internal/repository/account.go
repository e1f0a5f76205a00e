package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/skurenkov/topup-ledger/internal/domain"
)

const accountColumns = `id, user_id, balance`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

// GetByUserAndID is the ownership-scoped lookup: it does not reveal whether
// the id exists under a different user.
func (r *AccountRepository) GetByUserAndID(ctx context.Context, userID, id int64) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 AND user_id = $2`, id, userID,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByUserAndID: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetByUserAndID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByUserID: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByUserID: rows: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := insertAccount(ctx, r.db, account); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *AccountRepository) CreateInTx(ctx context.Context, tx *sql.Tx, account *domain.Account) error {
	if err := insertAccount(ctx, tx, account); err != nil {
		return fmt.Errorf("CreateInTx: %w", err)
	}
	return nil
}

// IncrementBalance applies balance = balance + delta as a single statement
// and returns the stored result. No prior in-process read participates in
// the new value, so concurrent increments cannot be lost.
func (r *AccountRepository) IncrementBalance(ctx context.Context, tx *sql.Tx, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRowContext(ctx,
		`UPDATE accounts SET balance = balance + $1 WHERE id = $2 RETURNING balance`,
		delta, id,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Decimal{}, fmt.Errorf("IncrementBalance: %w", domain.ErrAccountNotFound)
		}
		return decimal.Decimal{}, fmt.Errorf("IncrementBalance: %w", err)
	}
	return balance, nil
}

type execQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// insertAccount forces the row id when account.ID is set; this is how an
// externally issued account identifier becomes the primary key.
func insertAccount(ctx context.Context, q execQuerier, account *domain.Account) error {
	if account.ID != 0 {
		return q.QueryRowContext(ctx,
			`INSERT INTO accounts (id, user_id, balance) VALUES ($1, $2, $3) RETURNING id`,
			account.ID, account.UserID, account.Balance,
		).Scan(&account.ID)
	}
	return q.QueryRowContext(ctx,
		`INSERT INTO accounts (user_id, balance) VALUES ($1, $2) RETURNING id`,
		account.UserID, account.Balance,
	).Scan(&account.ID)
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(&a.ID, &a.UserID, &a.Balance)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
