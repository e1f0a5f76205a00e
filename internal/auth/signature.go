package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// WebhookSignature computes the provider's payload digest: the string forms
// of the signed fields concatenated in lexicographic order of field name
// (account_id, amount, transaction_id, user_id), then the shared secret,
// hashed with SHA-256 and hex-encoded lowercase.
//
// amount must be the literal wire form of the value. The provider signs the
// exact string it sent, so "10.00" participates as "10.00", never "10"; a
// reformatted amount invalidates every signature against the real provider.
func WebhookSignature(transactionID string, userID, accountID int64, amount, secret string) string {
	msg := strconv.FormatInt(accountID, 10) +
		amount +
		transactionID +
		strconv.FormatInt(userID, 10) +
		secret
	sum := sha256.Sum256([]byte(msg))
	return hex.EncodeToString(sum[:])
}

// VerifyWebhookSignature recomputes the digest and compares in constant time.
func VerifyWebhookSignature(transactionID string, userID, accountID int64, amount, signature, secret string) bool {
	if signature == "" {
		return false
	}
	expected := WebhookSignature(transactionID, userID, accountID, amount, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
