package domain

import "github.com/shopspring/decimal"

// Account holds a single user's balance. UserID is set at creation and never
// reassigned. The ID may be forced by the caller when the account is
// provisioned for an externally issued identifier.
type Account struct {
	ID      int64
	UserID  int64
	Balance decimal.Decimal
}
