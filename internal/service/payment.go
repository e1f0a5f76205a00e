package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/skurenkov/topup-ledger/internal/auth"
	"github.com/skurenkov/topup-ledger/internal/domain"
	"github.com/skurenkov/topup-ledger/internal/logging"
	"github.com/skurenkov/topup-ledger/internal/repository"
)

// WebhookRequest is one inbound provider notification. The payload is
// untrusted until the signature gate passes. RawAmount is the literal wire
// form of the amount; the provider signed that exact string, so it must
// reach verification unreformatted.
type WebhookRequest struct {
	TransactionID string
	UserID        int64
	AccountID     int64
	Amount        decimal.Decimal
	RawAmount     string
	Signature     string
}

type WebhookResult struct {
	PaymentID  int64
	AccountID  int64
	NewBalance decimal.Decimal
}

type PaymentService struct {
	payments      paymentRepository
	accounts      accountRepository
	users         userRepository
	db            *sql.DB
	webhookSecret string
}

func NewPaymentService(
	payments paymentRepository,
	accounts accountRepository,
	users userRepository,
	db *sql.DB,
	webhookSecret string,
) *PaymentService {
	return &PaymentService{
		payments:      payments,
		accounts:      accounts,
		users:         users,
		db:            db,
		webhookSecret: webhookSecret,
	}
}

// ProcessWebhook applies one provider notification exactly once. Gates run
// in strict order: signature, duplicate transaction, user existence, account
// resolution; then the payment insert and the balance increment commit in a
// single transaction. Failure at any gate leaves no state behind.
func (s *PaymentService) ProcessWebhook(ctx context.Context, req WebhookRequest) (*WebhookResult, error) {
	log := logging.FromContext(ctx)

	if !auth.VerifyWebhookSignature(req.TransactionID, req.UserID, req.AccountID, req.RawAmount, req.Signature, s.webhookSecret) {
		return nil, fmt.Errorf("ProcessWebhook: %w", domain.ErrInvalidSignature)
	}

	// Fast path only: the unique constraint on payments.transaction_id is
	// what actually holds under concurrent deliveries.
	existing, err := s.payments.GetByTransactionID(ctx, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("ProcessWebhook: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("ProcessWebhook: %w", domain.ErrTransactionProcessed)
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, fmt.Errorf("ProcessWebhook: %w", err)
	}

	account, provision, err := s.resolveAccount(ctx, req.UserID, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("ProcessWebhook: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ProcessWebhook: begin tx: %w", err)
	}
	defer tx.Rollback()

	if provision {
		if err := s.accounts.CreateInTx(ctx, tx, account); err != nil {
			if repository.IsUniqueViolation(err) {
				// Another request claimed the id between resolution and
				// insert. Fail closed rather than adopt the row.
				return nil, fmt.Errorf("ProcessWebhook: provision account: %w", domain.ErrAccountOwnership)
			}
			return nil, fmt.Errorf("ProcessWebhook: provision account: %w", err)
		}
		log.Info("account provisioned for webhook",
			"account_id", account.ID,
			"user_id", account.UserID,
		)
	}

	payment := &domain.Payment{
		TransactionID: req.TransactionID,
		UserID:        req.UserID,
		AccountID:     account.ID,
		Amount:        req.Amount,
	}
	if err := s.payments.CreateInTx(ctx, tx, payment); err != nil {
		return nil, fmt.Errorf("ProcessWebhook: %w", err)
	}

	newBalance, err := s.accounts.IncrementBalance(ctx, tx, account.ID, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("ProcessWebhook: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ProcessWebhook: commit: %w", err)
	}

	log.Info("payment processed",
		"payment_id", payment.ID,
		"transaction_id", req.TransactionID,
		"account_id", account.ID,
		"amount", req.Amount,
	)

	return &WebhookResult{
		PaymentID:  payment.ID,
		AccountID:  account.ID,
		NewBalance: newBalance,
	}, nil
}

// resolveAccount applies the account resolution policy: an account owned by
// the user is used as-is; an id held by a different user is rejected; an
// unknown id is provisioned for the user with zero balance. Provisioning is
// deferred to the caller's transaction.
func (s *PaymentService) resolveAccount(ctx context.Context, userID, accountID int64) (*domain.Account, bool, error) {
	account, err := s.accounts.GetByUserAndID(ctx, userID, accountID)
	if err == nil {
		return account, false, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, false, fmt.Errorf("resolveAccount: %w", err)
	}

	other, err := s.accounts.GetByID(ctx, accountID)
	if err == nil {
		if other.UserID != userID {
			return nil, false, fmt.Errorf("resolveAccount: %w", domain.ErrAccountOwnership)
		}
		return other, false, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, false, fmt.Errorf("resolveAccount: %w", err)
	}

	return &domain.Account{
		ID:      accountID,
		UserID:  userID,
		Balance: decimal.Zero,
	}, true, nil
}

func (s *PaymentService) GetUserPayments(ctx context.Context, userID int64, skip, limit int) ([]domain.Payment, error) {
	payments, err := s.payments.GetByUserID(ctx, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("GetUserPayments: %w", err)
	}
	return payments, nil
}
