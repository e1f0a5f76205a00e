package service

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/skurenkov/topup-ledger/internal/domain"
)

type userRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}

type adminRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type accountRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByUserAndID(ctx context.Context, userID, id int64) (*domain.Account, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	CreateInTx(ctx context.Context, tx *sql.Tx, account *domain.Account) error
	IncrementBalance(ctx context.Context, tx *sql.Tx, id int64, delta decimal.Decimal) (decimal.Decimal, error)
}

type paymentRepository interface {
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	GetByUserID(ctx context.Context, userID int64, skip, limit int) ([]domain.Payment, error)
	CreateInTx(ctx context.Context, tx *sql.Tx, payment *domain.Payment) error
}
