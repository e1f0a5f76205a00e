package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skurenkov/topup-ledger/internal/domain"
)

const testSecret = "test-jwt-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, domain.SubjectUser, testSecret, 30*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, domain.SubjectUser, testSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.SubjectID)
	assert.Equal(t, domain.SubjectUser, claims.Kind)
}

func TestValidateToken(t *testing.T) {
	userToken, err := GenerateToken(1, domain.SubjectUser, testSecret, 30*time.Minute)
	require.NoError(t, err)

	adminToken, err := GenerateToken(1, domain.SubjectAdmin, testSecret, 30*time.Minute)
	require.NoError(t, err)

	expiredToken, err := GenerateToken(1, domain.SubjectUser, testSecret, -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name         string
		token        string
		expectedKind domain.SubjectKind
		secret       string
	}{
		{"expired token", expiredToken, domain.SubjectUser, testSecret},
		{"wrong secret", userToken, domain.SubjectUser, "wrong-secret"},
		{"malformed token", "not.a.valid.jwt", domain.SubjectUser, testSecret},
		{"empty token", "", domain.SubjectUser, testSecret},
		{"user token on admin endpoint", userToken, domain.SubjectAdmin, testSecret},
		{"admin token on user endpoint", adminToken, domain.SubjectUser, testSecret},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateToken(tc.token, tc.expectedKind, tc.secret)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
}

func TestValidateToken_RejectsNonIntegerSubject(t *testing.T) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-number",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Type: string(domain.SubjectUser),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ValidateToken(signed, domain.SubjectUser, testSecret)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestValidateToken_RejectsNonHMAC(t *testing.T) {
	// Algorithm confusion: a token signed with "none" should be rejected
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Type: string(domain.SubjectUser),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(signed, domain.SubjectUser, testSecret)
	require.Error(t, err)
}
