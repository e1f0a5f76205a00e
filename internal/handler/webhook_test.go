package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skurenkov/topup-ledger/internal/domain"
	"github.com/skurenkov/topup-ledger/internal/service"
)

type stubProcessor struct {
	result *service.WebhookResult
	err    error
	got    *service.WebhookRequest
}

func (s *stubProcessor) ProcessWebhook(_ context.Context, req service.WebhookRequest) (*service.WebhookResult, error) {
	s.got = &req
	return s.result, s.err
}

func webhookBody(t *testing.T, overrides map[string]any) []byte {
	t.Helper()
	body := map[string]any{
		"transaction_id": "tx-1",
		"user_id":        1,
		"account_id":     1,
		"amount":         "100.00",
		"signature":      "abc123",
	}
	for k, v := range overrides {
		body[k] = v
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return raw
}

func TestProcessPaymentWebhook_Success(t *testing.T) {
	proc := &stubProcessor{
		result: &service.WebhookResult{
			PaymentID:  12,
			AccountID:  1,
			NewBalance: decimal.RequireFromString("150.00"),
		},
	}
	h := NewWebhookHandler(proc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", bytes.NewReader(webhookBody(t, nil)))
	rec := httptest.NewRecorder()
	h.ProcessPaymentWebhook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message    string          `json:"message"`
		PaymentID  int64           `json:"payment_id"`
		AccountID  int64           `json:"account_id"`
		NewBalance decimal.Decimal `json:"new_balance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Payment processed successfully", resp.Message)
	assert.Equal(t, int64(12), resp.PaymentID)
	assert.Equal(t, int64(1), resp.AccountID)
	assert.True(t, resp.NewBalance.Equal(decimal.RequireFromString("150.00")))

	require.NotNil(t, proc.got)
	assert.Equal(t, "tx-1", proc.got.TransactionID)
	assert.Equal(t, "100.00", proc.got.RawAmount)
	assert.True(t, proc.got.Amount.Equal(decimal.RequireFromString("100.00")))
}

// The provider signs the exact amount string it sent, so the handler must
// hand that literal form to the service whether the amount arrived as a JSON
// string or a bare number.
func TestProcessPaymentWebhook_PreservesWireAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  any
		wantRaw string
	}{
		{"quoted string", "10.00", "10.00"},
		{"bare number", json.RawMessage(`10.00`), "10.00"},
		{"no fraction", json.RawMessage(`10`), "10"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			proc := &stubProcessor{result: &service.WebhookResult{}}
			h := NewWebhookHandler(proc)

			body := webhookBody(t, map[string]any{"amount": tc.amount})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			h.ProcessPaymentWebhook(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			require.NotNil(t, proc.got)
			assert.Equal(t, tc.wantRaw, proc.got.RawAmount)
			assert.True(t, proc.got.Amount.Equal(decimal.RequireFromString(tc.wantRaw)))
		})
	}
}

func TestProcessPaymentWebhook_DomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid signature", domain.ErrInvalidSignature, http.StatusBadRequest, "INVALID_SIGNATURE"},
		{"duplicate transaction", domain.ErrTransactionProcessed, http.StatusBadRequest, "TRANSACTION_ALREADY_PROCESSED"},
		{"foreign account", domain.ErrAccountOwnership, http.StatusBadRequest, "ACCOUNT_BELONGS_TO_ANOTHER_USER"},
		{"unknown user", domain.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewWebhookHandler(&stubProcessor{err: tc.err})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", bytes.NewReader(webhookBody(t, nil)))
			rec := httptest.NewRecorder()
			h.ProcessPaymentWebhook(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestProcessPaymentWebhook_Validation(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		wantField string
	}{
		{"missing transaction id", map[string]any{"transaction_id": ""}, "transaction_id"},
		{"missing amount", map[string]any{"amount": nil}, "amount"},
		{"zero user id", map[string]any{"user_id": 0}, "user_id"},
		{"negative account id", map[string]any{"account_id": -5}, "account_id"},
		{"missing signature", map[string]any{"signature": ""}, "signature"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			proc := &stubProcessor{}
			h := NewWebhookHandler(proc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", bytes.NewReader(webhookBody(t, tc.overrides)))
			rec := httptest.NewRecorder()
			h.ProcessPaymentWebhook(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, proc.got, "processor must not run on invalid payloads")

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
			assert.Contains(t, rec.Body.String(), tc.wantField)
		})
	}
}

func TestProcessPaymentWebhook_MalformedJSON(t *testing.T) {
	h := NewWebhookHandler(&stubProcessor{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ProcessPaymentWebhook(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}
