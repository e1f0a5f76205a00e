package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skurenkov/topup-ledger/internal/auth"
	"github.com/skurenkov/topup-ledger/internal/domain"
)

const loginJWTSecret = "test-jwt-secret"

type stubUserReader struct {
	users map[string]*domain.User
}

func (s *stubUserReader) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

type stubAdminReader struct {
	admins map[string]*domain.Admin
}

func (s *stubAdminReader) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	if a, ok := s.admins[email]; ok {
		return a, nil
	}
	return nil, domain.ErrAdminNotFound
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func postLogin(t *testing.T, h *AuthHandler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login/access-token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func decodeToken(t *testing.T, rec *httptest.ResponseRecorder, kind domain.SubjectKind) *auth.Claims {
	t.Helper()
	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)

	claims, err := auth.ValidateToken(resp.AccessToken, kind, loginJWTSecret)
	require.NoError(t, err)
	return claims
}

func TestLogin(t *testing.T) {
	password := "correct-horse"
	hash := hashFor(t, password)

	users := &stubUserReader{users: map[string]*domain.User{
		"shared@example.com": {ID: 10, Email: "shared@example.com", HashedPassword: hash, IsActive: true},
		"frozen@example.com": {ID: 11, Email: "frozen@example.com", HashedPassword: hash, IsActive: false},
	}}
	admins := &stubAdminReader{admins: map[string]*domain.Admin{
		"shared@example.com": {ID: 20, Email: "shared@example.com", HashedPassword: hash, IsActive: true},
		"frozen@example.com": {ID: 21, Email: "frozen@example.com", HashedPassword: hash, IsActive: true},
		"admin@example.com":  {ID: 22, Email: "admin@example.com", HashedPassword: hash, IsActive: true},
	}}
	h := NewAuthHandler(users, admins, loginJWTSecret, 30*time.Minute)

	t.Run("shared email resolves to user", func(t *testing.T) {
		rec := postLogin(t, h, "shared@example.com", password)
		require.Equal(t, http.StatusOK, rec.Code)

		claims := decodeToken(t, rec, domain.SubjectUser)
		assert.Equal(t, int64(10), claims.SubjectID)
		assert.Equal(t, domain.SubjectUser, claims.Kind)
	})

	t.Run("admin-only email resolves to admin", func(t *testing.T) {
		rec := postLogin(t, h, "admin@example.com", password)
		require.Equal(t, http.StatusOK, rec.Code)

		claims := decodeToken(t, rec, domain.SubjectAdmin)
		assert.Equal(t, int64(22), claims.SubjectID)
		assert.Equal(t, domain.SubjectAdmin, claims.Kind)
	})

	t.Run("inactive user falls through to admin", func(t *testing.T) {
		rec := postLogin(t, h, "frozen@example.com", password)
		require.Equal(t, http.StatusOK, rec.Code)

		claims := decodeToken(t, rec, domain.SubjectAdmin)
		assert.Equal(t, int64(21), claims.SubjectID)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := postLogin(t, h, "shared@example.com", "nope")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "INCORRECT_EMAIL_OR_PASSWORD", resp.Error.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := postLogin(t, h, "nobody@example.com", password)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "INCORRECT_EMAIL_OR_PASSWORD", resp.Error.Code)
	})

	t.Run("missing credentials", func(t *testing.T) {
		rec := postLogin(t, h, "", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	})
}
