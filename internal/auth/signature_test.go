package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Known vectors: sha256 of account_id + amount + transaction_id + user_id +
// secret, hex-encoded. These pin the canonicalization against the provider.
func TestWebhookSignature_KnownVectors(t *testing.T) {
	tests := []struct {
		name          string
		transactionID string
		userID        int64
		accountID     int64
		amount        string
		secret        string
		want          string
	}{
		{
			name:          "two decimal amount",
			transactionID: "tx-100",
			userID:        7,
			accountID:     5,
			amount:        "10.00",
			secret:        "test-webhook-secret",
			want:          "3eb748471499a9822466ef77db6aea61dbbb7aaf21e2c04537c188f699c4605e",
		},
		{
			name:          "provider example",
			transactionID: "order-1",
			userID:        1,
			accountID:     1,
			amount:        "99.99",
			secret:        "gfdmhghif38yrf9ew0jkf32",
			want:          "df96c7bdc89fdb08c027fb21442a8fa73ce7994c39fa400f3e97f33b13500a71",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := WebhookSignature(tc.transactionID, tc.userID, tc.accountID, tc.amount, tc.secret)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWebhookSignature_AmountScaleMatters(t *testing.T) {
	// "10.00" and "10.0" are numerically equal but sign differently; the
	// provider signs the literal decimal string it sent.
	sigScaled := WebhookSignature("tx1", 1, 1, "10.00", "s")
	sigShort := WebhookSignature("tx1", 1, 1, "10.0", "s")
	assert.NotEqual(t, sigScaled, sigShort)
}

func TestVerifyWebhookSignature(t *testing.T) {
	const secret = "test-webhook-secret"
	sig := WebhookSignature("tx-1", 3, 9, "25.50", secret)

	tests := []struct {
		name      string
		signature string
		amount    string
		secret    string
		want      bool
	}{
		{"valid", sig, "25.50", secret, true},
		{"empty signature", "", "25.50", secret, false},
		{"wrong signature", "deadbeef", "25.50", secret, false},
		{"tampered amount", sig, "2550.00", secret, false},
		{"reformatted amount", sig, "25.5", secret, false},
		{"wrong secret", sig, "25.50", "other-secret", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := VerifyWebhookSignature("tx-1", 3, 9, tc.amount, tc.signature, tc.secret)
			assert.Equal(t, tc.want, got)
		})
	}
}
