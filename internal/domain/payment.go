package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records one applied top-up. TransactionID is the provider's
// identifier and is globally unique; the database constraint on it is the
// idempotency enforcement point. Rows are immutable once created.
type Payment struct {
	ID            int64
	TransactionID string
	UserID        int64
	AccountID     int64
	Amount        decimal.Decimal
	CreatedAt     time.Time
}
