package testutil

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/skurenkov/topup-ledger/internal/domain"
)

const TestPassword = "password123"

func SeedTestUser(t *testing.T, db *sql.DB, email string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	u := &domain.User{
		Email:          email,
		HashedPassword: string(hash),
		IsActive:       true,
	}
	err = db.QueryRow(
		`INSERT INTO users (email, hashed_password, is_active)
		 VALUES ($1, $2, $3) RETURNING id`,
		u.Email, u.HashedPassword, u.IsActive,
	).Scan(&u.ID)
	if err != nil {
		t.Fatalf("seed test user %s: %v", email, err)
	}
	return u
}

func SeedTestAdmin(t *testing.T, db *sql.DB, email string) *domain.Admin {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	a := &domain.Admin{
		Email:          email,
		HashedPassword: string(hash),
		IsActive:       true,
	}
	err = db.QueryRow(
		`INSERT INTO admins (email, hashed_password, is_active)
		 VALUES ($1, $2, $3) RETURNING id`,
		a.Email, a.HashedPassword, a.IsActive,
	).Scan(&a.ID)
	if err != nil {
		t.Fatalf("seed test admin %s: %v", email, err)
	}
	return a
}

func SeedTestAccount(t *testing.T, db *sql.DB, userID int64, balance string) *domain.Account {
	t.Helper()

	bal, err := decimal.NewFromString(balance)
	if err != nil {
		t.Fatalf("parse balance %q: %v", balance, err)
	}

	a := &domain.Account{UserID: userID, Balance: bal}
	err = db.QueryRow(
		`INSERT INTO accounts (user_id, balance) VALUES ($1, $2) RETURNING id`,
		a.UserID, a.Balance,
	).Scan(&a.ID)
	if err != nil {
		t.Fatalf("seed test account for user %d: %v", userID, err)
	}
	return a
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID int64) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %d: %v", accountID, err)
	}
	return balance
}

func CountPayments(t *testing.T, db *sql.DB, transactionID string) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM payments WHERE transaction_id = $1`, transactionID).Scan(&count)
	if err != nil {
		t.Fatalf("count payments for transaction %s: %v", transactionID, err)
	}
	return count
}
