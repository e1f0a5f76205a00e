package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/skurenkov/topup-ledger/internal/logging"
	"github.com/skurenkov/topup-ledger/internal/service"
)

type webhookProcessor interface {
	ProcessWebhook(ctx context.Context, req service.WebhookRequest) (*service.WebhookResult, error)
}

type WebhookHandler struct {
	payments webhookProcessor
}

func NewWebhookHandler(payments webhookProcessor) *WebhookHandler {
	return &WebhookHandler{payments: payments}
}

type webhookRequest struct {
	TransactionID string     `json:"transaction_id"`
	UserID        int64      `json:"user_id"`
	AccountID     int64      `json:"account_id"`
	Amount        wireAmount `json:"amount"`
	Signature     string     `json:"signature"`
}

// wireAmount keeps the literal wire form of the amount next to its parsed
// value. The provider's signature covers the former; the ledger stores the
// latter. Reformatting through decimal.String would trim trailing zeros and
// break verification for amounts like "10.00".
type wireAmount struct {
	raw   string
	value decimal.Decimal
}

func (a *wireAmount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	a.raw = s
	a.value = value
	return nil
}

func (p webhookRequest) validate() []FieldError {
	var errs []FieldError
	if p.TransactionID == "" {
		errs = append(errs, FieldError{Field: "transaction_id", Message: "required"})
	}
	if p.UserID <= 0 {
		errs = append(errs, FieldError{Field: "user_id", Message: "must be a positive integer"})
	}
	if p.AccountID <= 0 {
		errs = append(errs, FieldError{Field: "account_id", Message: "must be a positive integer"})
	}
	if p.Amount.raw == "" {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	}
	if p.Signature == "" {
		errs = append(errs, FieldError{Field: "signature", Message: "required"})
	}
	return errs
}

type webhookResponse struct {
	Message    string          `json:"message"`
	PaymentID  int64           `json:"payment_id"`
	AccountID  int64           `json:"account_id"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// ProcessPaymentWebhook takes one provider notification. Duplicate
// deliveries are rejected, not replayed: the caller must treat
// TRANSACTION_ALREADY_PROCESSED as "already applied, stop retrying".
func (h *WebhookHandler) ProcessPaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	result, err := h.payments.ProcessWebhook(r.Context(), service.WebhookRequest{
		TransactionID: req.TransactionID,
		UserID:        req.UserID,
		AccountID:     req.AccountID,
		Amount:        req.Amount.value,
		RawAmount:     req.Amount.raw,
		Signature:     req.Signature,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("webhook rejected",
			"transaction_id", req.TransactionID,
			"error", err,
		)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, webhookResponse{
		Message:    "Payment processed successfully",
		PaymentID:  result.PaymentID,
		AccountID:  result.AccountID,
		NewBalance: result.NewBalance,
	})
}
