// provider-sim emits a signed top-up webhook the way the payment provider
// does, for exercising a locally running API.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skurenkov/topup-ledger/internal/auth"
	"github.com/skurenkov/topup-ledger/internal/logging"
)

func main() {
	logging.Init("provider-sim", "info", "development")

	var (
		target    = flag.String("target", "http://localhost:8080/api/v1/webhook", "webhook endpoint")
		secret    = flag.String("secret", os.Getenv("WEBHOOK_SECRET"), "shared webhook secret")
		userID    = flag.Int64("user", 1, "target user id")
		accountID = flag.Int64("account", 1, "target account id")
		amount    = flag.String("amount", "10.00", "top-up amount")
		txID      = flag.String("tx", "", "transaction id (random when empty)")
	)
	flag.Parse()

	if *secret == "" {
		slog.Error("webhook secret required (flag -secret or WEBHOOK_SECRET)")
		os.Exit(1)
	}

	if _, err := decimal.NewFromString(*amount); err != nil {
		slog.Error("invalid amount", "amount", *amount, "error", err)
		os.Exit(1)
	}

	transactionID := *txID
	if transactionID == "" {
		transactionID = uuid.NewString()
	}

	// The signature covers the literal amount string, so the payload must
	// carry that exact form on the wire.
	payload := map[string]any{
		"transaction_id": transactionID,
		"user_id":        *userID,
		"account_id":     *accountID,
		"amount":         json.RawMessage(*amount),
		"signature":      auth.WebhookSignature(transactionID, *userID, *accountID, *amount, *secret),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal payload", "error", err)
		os.Exit(1)
	}

	resp, err := http.Post(*target, "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Error("webhook delivery failed", "error", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	slog.Info("webhook delivered",
		"transaction_id", transactionID,
		"status", resp.StatusCode,
	)
	fmt.Println(string(respBody))
}
