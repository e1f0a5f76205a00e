package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skurenkov/topup-ledger/internal/domain"
)

// Claims is the decoded subject of a verified token.
type Claims struct {
	SubjectID int64
	Kind      domain.SubjectKind
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

// GenerateToken issues an HS256 token with the subject id in "sub" (as a
// string) and the subject kind in "type".
func GenerateToken(subjectID int64, kind domain.SubjectKind, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Type: string(kind),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("GenerateToken: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature and expiry and requires the token's kind
// to match expectedKind. Any failure maps to ErrInvalidCredentials so the
// boundary cannot leak which check tripped.
func ValidateToken(tokenString string, expectedKind domain.SubjectKind, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("ValidateToken: %w: %w", domain.ErrInvalidCredentials, err)
	}

	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("ValidateToken: %w", domain.ErrInvalidCredentials)
	}

	if tc.Type != string(expectedKind) {
		return nil, fmt.Errorf("ValidateToken: kind mismatch: %w", domain.ErrInvalidCredentials)
	}

	subjectID, err := strconv.ParseInt(tc.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("ValidateToken: invalid sub: %w", domain.ErrInvalidCredentials)
	}

	return &Claims{
		SubjectID: subjectID,
		Kind:      domain.SubjectKind(tc.Type),
	}, nil
}
