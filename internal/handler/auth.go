package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/skurenkov/topup-ledger/internal/auth"
	"github.com/skurenkov/topup-ledger/internal/domain"
	"github.com/skurenkov/topup-ledger/internal/logging"
)

type userReader interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type adminReader interface {
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type AuthHandler struct {
	users     userReader
	admins    adminReader
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthHandler(users userReader, admins adminReader, jwtSecret string, jwtExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		users:     users,
		admins:    admins,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login is the OAuth2-style password grant: form-encoded username (the
// email) and password. The users table is tried before admins; an admin can
// only log in through an email no user holds.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	var fields []FieldError
	if email == "" {
		fields = append(fields, FieldError{Field: "username", Message: "required"})
	}
	if password == "" {
		fields = append(fields, FieldError{Field: "password", Message: "required"})
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	log := logging.FromContext(r.Context())

	if user, ok := h.authenticateUser(r.Context(), email, password); ok {
		token, err := auth.GenerateToken(user.ID, domain.SubjectUser, h.jwtSecret, h.jwtExpiry)
		if err != nil {
			log.Error("failed to issue token", "error", err)
			RespondAppError(w, ErrInternalError, nil)
			return
		}
		RespondJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
		return
	}

	if admin, ok := h.authenticateAdmin(r.Context(), email, password); ok {
		token, err := auth.GenerateToken(admin.ID, domain.SubjectAdmin, h.jwtSecret, h.jwtExpiry)
		if err != nil {
			log.Error("failed to issue token", "error", err)
			RespondAppError(w, ErrInternalError, nil)
			return
		}
		RespondJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
		return
	}

	RespondAppError(w, ErrIncorrectEmailOrPassword, nil)
}

func (h *AuthHandler) authenticateUser(ctx context.Context, email, password string) (*domain.User, bool) {
	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			logging.FromContext(ctx).Error("user lookup failed", "error", err)
		}
		return nil, false
	}
	if !auth.CheckPassword(password, user.HashedPassword) || !user.IsActive {
		return nil, false
	}
	return user, true
}

func (h *AuthHandler) authenticateAdmin(ctx context.Context, email, password string) (*domain.Admin, bool) {
	admin, err := h.admins.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrAdminNotFound) {
			logging.FromContext(ctx).Error("admin lookup failed", "error", err)
		}
		return nil, false
	}
	if !auth.CheckPassword(password, admin.HashedPassword) || !admin.IsActive {
		return nil, false
	}
	return admin, true
}
