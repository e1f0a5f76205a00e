package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skurenkov/topup-ledger/internal/auth"
	"github.com/skurenkov/topup-ledger/internal/domain"
	"github.com/skurenkov/topup-ledger/internal/logging"
)

type userAccountsService interface {
	GetUserAccounts(ctx context.Context, userID int64) ([]domain.Account, error)
}

type userPaymentsService interface {
	GetUserPayments(ctx context.Context, userID int64, skip, limit int) ([]domain.Payment, error)
}

type UserHandler struct {
	accounts userAccountsService
	payments userPaymentsService
}

func NewUserHandler(accounts userAccountsService, payments userPaymentsService) *UserHandler {
	return &UserHandler{accounts: accounts, payments: payments}
}

type userDTO struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

type accountDTO struct {
	ID      int64           `json:"id"`
	UserID  int64           `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

type paymentDTO struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id"`
	UserID        int64           `json:"user_id"`
	AccountID     int64           `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, FullName: u.FullName}
}

func toAccountDTOs(accounts []domain.Account) []accountDTO {
	dtos := make([]accountDTO, 0, len(accounts))
	for _, a := range accounts {
		dtos = append(dtos, accountDTO{ID: a.ID, UserID: a.UserID, Balance: a.Balance})
	}
	return dtos
}

func toPaymentDTOs(payments []domain.Payment) []paymentDTO {
	dtos := make([]paymentDTO, 0, len(payments))
	for _, p := range payments {
		dtos = append(dtos, paymentDTO{
			ID:            p.ID,
			TransactionID: p.TransactionID,
			UserID:        p.UserID,
			AccountID:     p.AccountID,
			Amount:        p.Amount,
			CreatedAt:     p.CreatedAt,
		})
	}
	return dtos
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}
	RespondJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *UserHandler) MyAccounts(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	accounts, err := h.accounts.GetUserAccounts(r.Context(), user.ID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, toAccountDTOs(accounts))
}

func (h *UserHandler) MyPayments(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	skip, limit := pagination(r)
	payments, err := h.payments.GetUserPayments(r.Context(), user.ID, skip, limit)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list payments", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, toPaymentDTOs(payments))
}

func pagination(r *http.Request) (skip, limit int) {
	skip, limit = 0, 100
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	return skip, limit
}
